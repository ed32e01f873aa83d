package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// ConverterBinary is the librsvg tool used for SVG conversion.
const ConverterBinary = "rsvg-convert"

// ToPDF converts SVG bytes to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG with the given scale factor.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("png scale must be positive, got %g", scale)
	}
	return convert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// Available reports whether SVG conversion is possible on this machine.
func Available() bool {
	_, err := exec.LookPath(ConverterBinary)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, ConverterBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", ConverterBinary, err, errBuf.String())
	}
	return out.Bytes(), nil
}
