package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hiyorimi/airports"
	"go.uber.org/zap"
)

func TestExtractorOptions(t *testing.T) {
	opts := options{
		tags:           "aerodrome,heliport",
		policy:         "opportunistic",
		envelope:       true,
		minRotatedRect: true,
	}
	extractorOptions, err := opts.extractorOptions(zap.NewNop())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(extractorOptions) != 4 {
		t.Errorf("Number of options must be 4, but got %d", len(extractorOptions))
	}

	opts.policy = "eager"
	if _, err = opts.extractorOptions(zap.NewNop()); err == nil {
		t.Errorf("Unknown policy must be rejected")
	}
}

func TestRun(t *testing.T) {
	outputID := filepath.Join(t.TempDir(), "sample")
	opts := options{
		inputFile: "../../testdata/airports.osm",
		outputID:  outputID,
		tags:      "aerodrome",
		policy:    "prepass",
		format:    "text",
		precision: airports.DEFAULT_PRECISION,
		procs:     1,
	}
	if err := run(context.Background(), opts); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := os.ReadFile(outputID + "_nodes.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "40.0000000 -73.0000000\n" {
		t.Errorf("Unexpected nodes file: %q", string(b))
	}
	b, err = os.ReadFile(outputID + "_areas.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "10.0000000 20.0000000; 11.0000000 21.0000000\n" {
		t.Errorf("Unexpected areas file: %q", string(b))
	}
}

func TestRunMissingInput(t *testing.T) {
	outputID := filepath.Join(t.TempDir(), "missing")
	opts := options{
		inputFile: "../../testdata/missing.osm.pbf",
		outputID:  outputID,
		format:    "text",
		procs:     1,
	}
	if err := run(context.Background(), opts); err == nil {
		t.Fatalf("Missing input must fail")
	}
	if _, err := os.Stat(outputID + "_nodes.txt"); !os.IsNotExist(err) {
		t.Errorf("No output must be written for missing input")
	}
}

func TestAppRequiredFlags(t *testing.T) {
	dir := t.TempDir()
	var opts options
	var output bytes.Buffer
	app := newApp(&opts, &output)
	err := app.Run([]string{"airports", "-i", filepath.Join(dir, "x.osm")})
	if err == nil {
		t.Fatalf("Missing output identifier must fail")
	}
	if !strings.Contains(err.Error(), "output-id") {
		t.Errorf("Error must name missing flag, but got %v", err)
	}
	if !strings.Contains(output.String(), "USAGE") {
		t.Errorf("Usage must be printed, but got %q", output.String())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("No files must be written, but got %d entries", len(entries))
	}
	for _, pattern := range []string{"*_nodes.*", "*_areas.*"} {
		matches, _ := filepath.Glob(pattern)
		if len(matches) != 0 {
			t.Errorf("No output files must be written, but got %v", matches)
		}
	}
}
