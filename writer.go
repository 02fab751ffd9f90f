package airports

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/facebookgo/atomicfile"
	"github.com/pkg/errors"
)

const (
	// DEFAULT_PRECISION is number of decimals in text output. OSM stores coordinates with 1e-7 precision
	DEFAULT_PRECISION = 7
)

// ExportFormat is format of single geometry record
type ExportFormat uint16

const (
	EXPORT_TEXT = ExportFormat(iota + 1)
	EXPORT_WKT
	EXPORT_GEOJSON
)

func (iotaIdx ExportFormat) String() string {
	if !iotaIdx.valid() {
		return "unknown"
	}
	return [...]string{"text", "wkt", "geojson"}[iotaIdx-1]
}

// Extension returns file extension for the format
func (iotaIdx ExportFormat) Extension() string {
	if !iotaIdx.valid() {
		return "unknown"
	}
	return [...]string{"txt", "wkt", "geojson"}[iotaIdx-1]
}

func (iotaIdx ExportFormat) valid() bool {
	return iotaIdx >= EXPORT_TEXT && iotaIdx <= EXPORT_GEOJSON
}

// ParseExportFormat parses textual representation of ExportFormat
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(s) {
	case "text", "txt", "":
		return EXPORT_TEXT, nil
	case "wkt":
		return EXPORT_WKT, nil
	case "geojson":
		return EXPORT_GEOJSON, nil
	default:
		return 0, &ArgumentError{Msg: fmt.Sprintf("unknown output format '%s'. Expected values: text / wkt / geojson", s)}
	}
}

// Writer exports accumulated geometries: one record per line, nodes and areas into separate files
type Writer struct {
	format    ExportFormat
	precision int
}

// NewWriter returns writer. Defaults are text format with 7 decimals
func NewWriter(options ...func(*Writer)) *Writer {
	writer := &Writer{
		format:    EXPORT_TEXT,
		precision: DEFAULT_PRECISION,
	}
	for _, option := range options {
		option(writer)
	}
	return writer
}

func WithExportFormat(format ExportFormat) func(*Writer) {
	return func(writer *Writer) {
		writer.format = format
	}
}

func WithPrecision(precision int) func(*Writer) {
	return func(writer *Writer) {
		writer.precision = precision
	}
}

// Paths returns names of node and area files for given output identifier
func (writer *Writer) Paths(outputID string) (string, string) {
	ext := writer.format.Extension()
	return fmt.Sprintf("%s_nodes.%s", outputID, ext), fmt.Sprintf("%s_areas.%s", outputID, ext)
}

func validateOutputID(outputID string) error {
	if strings.TrimSpace(outputID) == "" {
		return &ArgumentError{Msg: "output identifier is empty"}
	}
	return nil
}

// Write writes both files. Files are written into temporary files first and renamed only when both are complete,
// so on error no partially written file is left.
func (writer *Writer) Write(outputID string, acc *Accumulator) ([]string, error) {
	if err := validateOutputID(outputID); err != nil {
		return nil, err
	}
	if !writer.format.valid() {
		return nil, &ArgumentError{Msg: fmt.Sprintf("unknown output format %d", writer.format)}
	}
	if writer.precision < 0 {
		return nil, &ArgumentError{Msg: "precision must not be negative"}
	}
	if acc == nil {
		acc = &Accumulator{}
	}
	fnameNodes, fnameAreas := writer.Paths(outputID)

	fileNodes, err := atomicfile.New(fnameNodes, 0644)
	if err != nil {
		return nil, &IOError{Path: fnameNodes, Err: err}
	}
	fileAreas, err := atomicfile.New(fnameAreas, 0644)
	if err != nil {
		fileNodes.Abort()
		return nil, &IOError{Path: fnameAreas, Err: err}
	}
	abort := func() {
		fileNodes.Abort()
		fileAreas.Abort()
	}

	err = writer.writeRecords(fileNodes, len(acc.Points), func(i int) (string, error) {
		return writer.pointRecord(acc.Points[i].Point)
	})
	if err != nil {
		abort()
		return nil, &IOError{Path: fnameNodes, Err: err}
	}
	err = writer.writeRecords(fileAreas, len(acc.Areas), func(i int) (string, error) {
		return writer.lineRecord(acc.Areas[i].Geom)
	})
	if err != nil {
		abort()
		return nil, &IOError{Path: fnameAreas, Err: err}
	}

	/* Commit */
	if err = fileNodes.Close(); err != nil {
		fileNodes.Abort()
		fileAreas.Abort()
		return nil, &IOError{Path: fnameNodes, Err: err}
	}
	// Nodes file has already replaced the previous one at this point. If areas file can't be put in place
	// the new nodes file is removed too, so a failed commit leaves neither artifact (previous output is lost).
	if err = fileAreas.Close(); err != nil {
		fileAreas.Abort()
		os.Remove(fnameNodes)
		return nil, &IOError{Path: fnameAreas, Err: err}
	}
	return []string{fnameNodes, fnameAreas}, nil
}

func (writer *Writer) writeRecords(w io.Writer, n int, record func(i int) (string, error)) error {
	buf := bufio.NewWriter(w)
	for i := 0; i < n; i++ {
		line, err := record(i)
		if err != nil {
			return errors.Wrapf(err, "Can't prepare record #%d", i)
		}
		if _, err = buf.WriteString(line); err != nil {
			return errors.Wrap(err, "Can't write record")
		}
		if err = buf.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "Can't write record")
		}
	}
	return errors.Wrap(buf.Flush(), "Can't flush records")
}

func (writer *Writer) pointRecord(pt GeoPoint) (string, error) {
	switch writer.format {
	case EXPORT_WKT:
		return PrepareWKTPoint(pt), nil
	case EXPORT_GEOJSON:
		return PrepareGeoJSONPoint(pt)
	default:
		return PrepareTextPoint(pt, writer.precision), nil
	}
}

func (writer *Writer) lineRecord(pts []GeoPoint) (string, error) {
	switch writer.format {
	case EXPORT_WKT:
		return PrepareWKTLinestring(pts), nil
	case EXPORT_GEOJSON:
		return PrepareGeoJSONLinestring(pts)
	default:
		return PrepareTextLine(pts, writer.precision), nil
	}
}
