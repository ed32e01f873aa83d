package render

import (
	"context"
	"strings"
	"testing"
)

func TestToPNGRejectsScale(t *testing.T) {
	_, err := ToPNG(context.Background(), []byte("<svg/>"), 0)
	if err == nil || !strings.Contains(err.Error(), "scale") {
		t.Errorf("ToPNG(scale 0) = %v, want scale error", err)
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip(ConverterBinary + " not installed")
	}
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`
	pdf, err := ToPDF(context.Background(), []byte(svg))
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Error("ToPDF output is not a PDF")
	}
}
