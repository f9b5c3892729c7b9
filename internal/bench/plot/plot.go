package plot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Placeholders replaced literally in a gnuplot template.
const (
	NameToken = "bench_name"
	CSVToken  = "csv_file"
	OutToken  = "out_file"

	DefaultGnuplot = "gnuplot"
	DefaultConvert = "convert"
	RasterDensity  = "300"
)

type Tools struct {
	Gnuplot string
	Convert string
}

func DefaultTools() Tools {
	return Tools{Gnuplot: DefaultGnuplot, Convert: DefaultConvert}
}

type Request struct {
	TemplatePath string
	Name         string
	CSV          string
	Out          string
	// PNG additionally rasterises Out next to it with a .png extension.
	PNG bool
}

// Substitute fills the placeholders of a template.
func Substitute(template, name, csv, out string) string {
	return strings.NewReplacer(NameToken, name, CSVToken, csv, OutToken, out).Replace(template)
}

// PNGPath is the raster file produced for out.
func PNGPath(out string) string {
	return strings.TrimSuffix(out, filepath.Ext(out)) + ".png"
}

// Render feeds the substituted template to gnuplot on stdin and optionally converts the result.
func Render(ctx context.Context, req Request, tools Tools) error {
	tmpl, err := os.ReadFile(req.TemplatePath)
	if err != nil {
		return fmt.Errorf("read plot template: %w", err)
	}
	script := Substitute(string(tmpl), req.Name, req.CSV, req.Out)

	slog.Info("Rendering plot", "template", req.TemplatePath, "name", req.Name, "out", req.Out)
	if err := run(ctx, strings.NewReader(script), tools.Gnuplot); err != nil {
		return err
	}

	if req.PNG {
		png := PNGPath(req.Out)
		if err := run(ctx, nil, tools.Convert, "-density", RasterDensity, req.Out, png); err != nil {
			return err
		}
		slog.Info("Raster written", "path", png)
	}
	return nil
}

func run(ctx context.Context, stdin *strings.Reader, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
