package airports

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func checkSampleMatches(t *testing.T, acc *Accumulator) {
	t.Helper()
	if len(acc.Points) != 1 || acc.Points[0].ID != 1 {
		t.Fatalf("Only node 1 must be matched, but got %v", acc.Points)
	}
	correctPoint := GeoPoint{Lat: 40.0, Lon: -73.0}
	if acc.Points[0].Point != correctPoint {
		t.Errorf("Point must be %v, but got %v", correctPoint, acc.Points[0].Point)
	}
	if len(acc.Areas) != 1 || acc.Areas[0].ID != 10 {
		t.Fatalf("Only way 10 must be matched, but got %v", acc.Areas)
	}
	correctGeom := []GeoPoint{{Lat: 10.0, Lon: 20.0}, {Lat: 11.0, Lon: 21.0}}
	for i := range correctGeom {
		if acc.Areas[0].Geom[i] != correctGeom[i] {
			t.Errorf("Area point #%d must be %v, but got %v", i, correctGeom[i], acc.Areas[0].Geom[i])
		}
	}
}

func TestFileSourceXML(t *testing.T) {
	checkSampleFile(t, "./testdata/airports.osm")
}

func TestFileSourceBzip2(t *testing.T) {
	checkSampleFile(t, "./testdata/airports.osm.bz2")
}

func checkSampleFile(t *testing.T, fname string) {
	t.Helper()
	for _, policy := range []ResolvePolicy{POLICY_PREPASS, POLICY_OPPORTUNISTIC} {
		t.Run(policy.String(), func(t *testing.T) {
			source, err := OpenFile(fname)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			defer source.Close()
			ex := NewExtractor(source, WithPolicy(policy))
			acc, err := ex.Extract(context.Background())
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			checkSampleMatches(t, acc)
			stats := ex.Stats()
			if stats.Nodes != 5 || stats.Ways != 2 || stats.Relations != 1 || stats.IgnoredRelations != 1 {
				t.Errorf("Unexpected counters: %+v", stats)
			}
		})
	}
}

func gzipFile(t *testing.T, src, dst string) {
	t.Helper()
	in, err := os.Open(src)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	gz := gzip.NewWriter(out)
	if _, err = io.Copy(gz, in); err != nil {
		t.Fatal(err)
	}
	if err = gz.Close(); err != nil {
		t.Fatal(err)
	}
}

// countingTracker remembers passes it has been notified about
type countingTracker struct {
	started  []ScanPass
	finished []ScanPass
	total    int64
}

func (tracker *countingTracker) Start(pass ScanPass, total int64, r io.Reader) io.Reader {
	tracker.started = append(tracker.started, pass)
	tracker.total = total
	return r
}

func (tracker *countingTracker) Finish(pass ScanPass) {
	tracker.finished = append(tracker.finished, pass)
}

func TestFileSourceGzip(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "airports.osm.gz")
	gzipFile(t, "./testdata/airports.osm", fname)

	tracker := &countingTracker{}
	source, err := OpenFile(fname, WithProgress(tracker))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer source.Close()
	acc, err := NewExtractor(source).Extract(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	checkSampleMatches(t, acc)
	if len(tracker.started) != 2 || tracker.started[0] != PASS_WAYS || tracker.started[1] != PASS_NODES {
		t.Errorf("Tracker must be started for ways and nodes passes, but got %v", tracker.started)
	}
	if len(tracker.finished) != 2 {
		t.Errorf("Tracker must be finished twice, but got %v", tracker.finished)
	}
	if tracker.total <= 0 {
		t.Errorf("Tracker must receive file size, but got %d", tracker.total)
	}
}

func TestFileSourceBrokenGzip(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "broken.osm.gz")
	if err := os.WriteFile(fname, []byte("definitely not gzip"), 0644); err != nil {
		t.Fatal(err)
	}
	source, err := OpenFile(fname)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer source.Close()
	ex := NewExtractor(source)
	_, err = ex.Extract(context.Background())
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("Error must be InputError, but got %v", err)
	}
	if ex.State() != STATE_FAILED {
		t.Errorf("State must be '%s', but got '%s'", STATE_FAILED, ex.State())
	}
}

func TestOpenFileErrors(t *testing.T) {
	tests := []struct {
		name  string
		fname string
	}{
		{name: "missing file", fname: "./testdata/missing.osm.pbf"},
		{name: "unknown extension", fname: "./testdata/airports.csv"},
		{name: "directory", fname: filepath.Join(t.TempDir(), "dir.osm")},
	}
	if err := os.Mkdir(tests[2].fname, 0755); err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenFile(tt.fname)
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Errorf("Error must be InputError, but got %v", err)
			}
		})
	}
}

func TestGuessFormat(t *testing.T) {
	tests := []struct {
		fname       string
		format      fileFormat
		compression compression
	}{
		{fname: "map.osm.pbf", format: FORMAT_PBF, compression: COMPRESSION_NONE},
		{fname: "map.pbf.gz", format: FORMAT_PBF, compression: COMPRESSION_GZIP},
		{fname: "map.osm", format: FORMAT_XML, compression: COMPRESSION_NONE},
		{fname: "MAP.OSM.GZ", format: FORMAT_XML, compression: COMPRESSION_GZIP},
		{fname: "map.xml.bz2", format: FORMAT_XML, compression: COMPRESSION_BZIP2},
	}
	for _, tt := range tests {
		format, comp, err := guessFormat(tt.fname)
		if err != nil {
			t.Errorf("File '%s' must be handled, but got %v", tt.fname, err)
			continue
		}
		if format != tt.format || comp != tt.compression {
			t.Errorf("File '%s' must be (%d, %d), but got (%d, %d)", tt.fname, tt.format, tt.compression, format, comp)
		}
	}
	if _, _, err := guessFormat("map.gz"); err == nil {
		t.Errorf("Compressed file without inner extension must be rejected")
	}
}
