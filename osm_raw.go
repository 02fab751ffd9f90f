package airports

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// OSMScanner is common interface for PBF and XML scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// ScanPass tells the source which entities are going to be consumed
type ScanPass uint16

const (
	PASS_WAYS = ScanPass(iota + 1)
	PASS_NODES
	PASS_ALL
)

func (iotaIdx ScanPass) String() string {
	if iotaIdx < PASS_WAYS || iotaIdx > PASS_ALL {
		return "unknown"
	}
	return [...]string{"ways", "nodes", "all"}[iotaIdx-1]
}

// EntitySource produces ordered stream of OSM entities. Each call of Scanner starts from the beginning of data
type EntitySource interface {
	Name() string
	Scanner(ctx context.Context, pass ScanPass) (OSMScanner, error)
	Close() error
}

// ProgressTracker observes reading of raw input during every pass
type ProgressTracker interface {
	Start(pass ScanPass, total int64, r io.Reader) io.Reader
	Finish(pass ScanPass)
}

type fileFormat uint16

const (
	FORMAT_PBF = fileFormat(iota + 1)
	FORMAT_XML
)

type compression uint16

const (
	COMPRESSION_NONE = compression(iota + 1)
	COMPRESSION_GZIP
	COMPRESSION_BZIP2
)

// FileSource reads entities from *.osm.pbf, *.osm (*.xml) files and their gzip/bzip2 compressed variants
type FileSource struct {
	filename    string
	file        *os.File
	size        int64
	format      fileFormat
	compression compression
	procs       int
	progress    ProgressTracker
}

// WithDecoderProcs sets number of goroutines PBF decoder may use
func WithDecoderProcs(procs int) func(*FileSource) {
	return func(source *FileSource) {
		source.procs = procs
	}
}

// WithProgress sets observer of raw input reading
func WithProgress(tracker ProgressTracker) func(*FileSource) {
	return func(source *FileSource) {
		source.progress = tracker
	}
}

// guessFormat guesses format and compression by file extension
func guessFormat(filename string) (fileFormat, compression, error) {
	name := strings.ToLower(filepath.Base(filename))
	comp := COMPRESSION_NONE
	switch filepath.Ext(name) {
	case ".gz":
		comp = COMPRESSION_GZIP
		name = strings.TrimSuffix(name, ".gz")
	case ".bz2":
		comp = COMPRESSION_BZIP2
		name = strings.TrimSuffix(name, ".bz2")
	}
	ext := filepath.Ext(name)
	switch ext {
	case ".pbf":
		return FORMAT_PBF, comp, nil
	case ".osm", ".xml":
		return FORMAT_XML, comp, nil
	default:
		return 0, 0, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", filepath.Ext(filename), filename)
	}
}

// OpenFile opens OSM file. Format is guessed by file extension
func OpenFile(filename string, options ...func(*FileSource)) (*FileSource, error) {
	format, comp, err := guessFormat(filename)
	if err != nil {
		return nil, &InputError{Path: filename, Err: err}
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, &InputError{Path: filename, Err: err}
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &InputError{Path: filename, Err: err}
	}
	if stat.IsDir() {
		file.Close()
		return nil, &InputError{Path: filename, Err: errors.New("is a directory")}
	}
	source := &FileSource{
		filename:    filename,
		file:        file,
		size:        stat.Size(),
		format:      format,
		compression: comp,
		procs:       runtime.GOMAXPROCS(0),
	}
	for _, option := range options {
		option(source)
	}
	if source.procs < 1 {
		source.procs = 1
	}
	return source, nil
}

// Name returns file name
func (source *FileSource) Name() string {
	return source.filename
}

// Close closes underlying file
func (source *FileSource) Close() error {
	return source.file.Close()
}

// Scanner seeks file to start and prepares scanner for the given pass
func (source *FileSource) Scanner(ctx context.Context, pass ScanPass) (OSMScanner, error) {
	_, err := source.file.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't seek file to start")
	}
	scanner := &fileScanner{
		pass:     pass,
		progress: source.progress,
	}
	var r io.Reader = source.file
	if source.progress != nil {
		r = source.progress.Start(pass, source.size, r)
	}
	switch source.compression {
	case COMPRESSION_GZIP:
		gz, err := gzip.NewReader(r)
		if err != nil {
			scanner.finish()
			return nil, &InputError{Path: source.filename, Err: errors.Wrap(err, "Can't open gzip stream")}
		}
		scanner.closers = append(scanner.closers, gz)
		r = gz
	case COMPRESSION_BZIP2:
		r = bzip2.NewReader(bufio.NewReader(r))
	}
	switch source.format {
	case FORMAT_PBF:
		pbfScanner := osmpbf.New(ctx, r, source.procs)
		switch pass {
		case PASS_WAYS:
			pbfScanner.SkipNodes = true
		case PASS_NODES:
			pbfScanner.SkipWays = true
			pbfScanner.SkipRelations = true
		}
		scanner.OSMScanner = pbfScanner
	default:
		scanner.OSMScanner = osmxml.New(ctx, r)
	}
	return scanner, nil
}

// fileScanner closes decompressor and notifies progress tracker along with scanner
type fileScanner struct {
	OSMScanner
	pass     ScanPass
	closers  []io.Closer
	progress ProgressTracker
	finished bool
}

func (scanner *fileScanner) finish() {
	if scanner.finished || scanner.progress == nil {
		return
	}
	scanner.finished = true
	scanner.progress.Finish(scanner.pass)
}

func (scanner *fileScanner) Close() error {
	err := scanner.OSMScanner.Close()
	for _, closer := range scanner.closers {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	scanner.closers = nil
	scanner.finish()
	return err
}

// ObjectsSource replays already decoded entities
type ObjectsSource struct {
	name    string
	objects osm.Objects
}

// NewObjectsSource returns source over given entities. Order of entities is kept
func NewObjectsSource(name string, objects osm.Objects) *ObjectsSource {
	return &ObjectsSource{
		name:    name,
		objects: objects,
	}
}

// Name returns source name
func (source *ObjectsSource) Name() string {
	return source.name
}

// Close does nothing
func (source *ObjectsSource) Close() error {
	return nil
}

// Scanner returns scanner over all entities. Pass is ignored: entities of other kinds are skipped by consumer
func (source *ObjectsSource) Scanner(ctx context.Context, pass ScanPass) (OSMScanner, error) {
	return &objectsScanner{
		ctx:     ctx,
		objects: source.objects,
		idx:     -1,
	}, nil
}

type objectsScanner struct {
	ctx     context.Context
	objects osm.Objects
	idx     int
	err     error
}

func (scanner *objectsScanner) Scan() bool {
	if scanner.err != nil {
		return false
	}
	if err := scanner.ctx.Err(); err != nil {
		scanner.err = err
		return false
	}
	scanner.idx++
	return scanner.idx < len(scanner.objects)
}

func (scanner *objectsScanner) Object() osm.Object {
	if scanner.idx < 0 || scanner.idx >= len(scanner.objects) {
		return nil
	}
	return scanner.objects[scanner.idx]
}

func (scanner *objectsScanner) Err() error {
	return scanner.err
}

func (scanner *objectsScanner) Close() error {
	return nil
}
