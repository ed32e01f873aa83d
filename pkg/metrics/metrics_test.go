package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/matzehuels/analogtopo/pkg/cache"
	"github.com/matzehuels/analogtopo/pkg/observability"
	"github.com/matzehuels/analogtopo/pkg/pipeline"
)

const ota = `* ota
M1 out_n in_n tail 0 nfet W=10u L=0.15u
M2 out_p in_p tail 0 nfet W=10u L=0.15u
M3 out_n out_n vdd vdd pfet W=20u L=0.5u
M4 out_p out_n vdd vdd pfet W=40u L=0.5u
`

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.ExtractionsTotal == nil || r.StageDuration == nil || r.CacheOpsTotal == nil || r.HTTPRequestsTotal == nil {
		t.Fatal("metrics not initialized")
	}
	if r.registry == nil {
		t.Fatal("Prometheus registry not initialized")
	}

	// Two registries must not collide on registration.
	NewRegistry()
}

func TestPipelineHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnParseComplete(ctx, "a.sp", 6, time.Millisecond, nil)
	r.OnParseComplete(ctx, "b.sp", 0, time.Millisecond, errors.New("syntax"))
	r.OnBuildComplete(ctx, "a.sp", 4, 2, time.Millisecond)
	r.OnMatchComplete(ctx, "a.sp", 1, 3, time.Millisecond)
	r.OnExtractComplete(ctx, "a.sp", false, time.Millisecond, nil)
	r.OnExtractComplete(ctx, "a.sp", true, time.Millisecond, nil)
	r.OnExtractComplete(ctx, "b.sp", false, time.Millisecond, errors.New("syntax"))

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"ok", testutil.ToFloat64(r.ExtractionsTotal.WithLabelValues(ResultOK)), 1},
		{"cached", testutil.ToFloat64(r.ExtractionsTotal.WithLabelValues(ResultCached)), 1},
		{"error", testutil.ToFloat64(r.ExtractionsTotal.WithLabelValues(ResultError)), 1},
		{"skipped", testutil.ToFloat64(r.SkippedDevices), 2},
		{"symmetry", testutil.ToFloat64(r.ConstraintsTotal.WithLabelValues("symmetry")), 1},
		{"group", testutil.ToFloat64(r.ConstraintsTotal.WithLabelValues("group")), 3},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	var elements dto.Metric
	if err := r.NetlistElements.Write(&elements); err != nil {
		t.Fatal(err)
	}
	if n := elements.GetHistogram().GetSampleCount(); n != 1 {
		t.Errorf("element samples = %d, want 1 (failed parses are not observed)", n)
	}

	if n := testutil.CollectAndCount(r.StageDuration); n != 3 {
		t.Errorf("stage series = %d, want 3", n)
	}
}

func TestCacheHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnCacheMiss(ctx, "extract")
	r.OnCacheSet(ctx, "extract", 120)
	r.OnCacheHit(ctx, "extract")
	r.OnCacheHit(ctx, "extract")

	if got := testutil.ToFloat64(r.CacheOpsTotal.WithLabelValues(opHit, "extract")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.CacheOpsTotal.WithLabelValues(opMiss, "extract")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.CacheBytes); got != 120 {
		t.Errorf("bytes = %v, want 120", got)
	}
}

func TestServerHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnRequest(ctx, http.MethodPost, "/v1/extract")
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	r.OnResponse(ctx, http.MethodPost, "/v1/extract", http.StatusOK, 5*time.Millisecond)
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight after response = %v, want 0", got)
	}

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues(http.MethodPost, "/v1/extract", "200")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetCounter().GetValue() != 1 {
		t.Errorf("requests = %v, want 1", m.GetCounter().GetValue())
	}
}

func TestInstall(t *testing.T) {
	t.Cleanup(observability.Reset)

	r := NewRegistry()
	r.Install()

	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, nil, nil)
	defer runner.Close()

	path := filepath.Join(dir, "ota.sp")
	if err := os.WriteFile(path, []byte(ota), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for range 2 {
		if _, err := runner.ExtractFile(ctx, path, pipeline.Options{}); err != nil {
			t.Fatalf("ExtractFile: %v", err)
		}
	}

	if got := testutil.ToFloat64(r.ExtractionsTotal.WithLabelValues(ResultOK)); got != 1 {
		t.Errorf("computed extractions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.ExtractionsTotal.WithLabelValues(ResultCached)); got != 1 {
		t.Errorf("cached extractions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.ConstraintsTotal.WithLabelValues("symmetry")); got != 1 {
		t.Errorf("symmetry = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.CacheOpsTotal.WithLabelValues(opHit, "extract")); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.OnMatchComplete(context.Background(), "a.sp", 1, 1, time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`analogtopo_constraints_total{kind="symmetry"} 1`,
		"analogtopo_stage_duration_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
