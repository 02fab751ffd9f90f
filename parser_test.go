package airports

import (
	"strings"
	"testing"
)

func TestExtractorOptions(t *testing.T) {
	ex := NewExtractor(
		NewObjectsSource("sample", nil),
		WithPolicy(POLICY_OPPORTUNISTIC),
		WithShapeMode(SHAPE_MIN_ROTATED_RECT),
		WithPointSuppression(0.001),
		WithLogger(nil),
	)

	t.Log(ex)

	if ex.logger == nil {
		t.Errorf("Nil logger must be ignored")
	}
	if ex.state != STATE_IDLE {
		t.Errorf("New extractor must be '%s', but got '%s'", STATE_IDLE, ex.state)
	}
	str := ex.String()
	for _, part := range []string{"source: 'sample'", "filter: 'aeroway=aerodrome'", "resolve_policy: 'opportunistic'", "shape: 'minimum_rotated_rectangle'"} {
		if !strings.Contains(str, part) {
			t.Errorf("Description must contain %q, but got %s", part, str)
		}
	}
}

func TestExtractorUnknownOptions(t *testing.T) {
	ex := NewExtractor(
		NewObjectsSource("sample", nil),
		WithPolicy(0),
		WithShapeMode(0),
	)
	str := ex.String()
	for _, part := range []string{"resolve_policy: 'unknown'", "shape: 'unknown'"} {
		if !strings.Contains(str, part) {
			t.Errorf("Description must contain %q, but got %s", part, str)
		}
	}
	if ScanState(0).String() != "unknown" {
		t.Errorf("Zero state must be 'unknown', but got '%s'", ScanState(0))
	}
	if ScanPass(PASS_ALL+1).String() != "unknown" {
		t.Errorf("Out of range pass must be 'unknown', but got '%s'", ScanPass(PASS_ALL+1))
	}
	if ExportFormat(0).String() != "unknown" || ExportFormat(0).Extension() != "unknown" {
		t.Errorf("Zero export format must be 'unknown', but got '%s' with extension '%s'", ExportFormat(0), ExportFormat(0).Extension())
	}
}
