package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Hiyorimi/airports"
	"github.com/cheggaaa/pb"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

type options struct {
	inputFile      string
	outputID       string
	verbose        bool
	tags           string
	policy         string
	envelope       bool
	minRotatedRect bool
	suppressInside bool
	suppressBuffer float64
	format         string
	precision      int
	procs          int
}

func main() {
	var opts options
	app := newApp(&opts, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newApp describes command line. Parsed flags are stored into opts
func newApp(opts *options, output io.Writer) *cli.App {
	return &cli.App{
		Name:      "airports",
		Usage:     "Extract airports (aeroway=aerodrome) from OSM file and export their coordinates",
		UsageText: "airports -i <file.osm.pbf> -o <output_id> [-v]",
		Writer:    output,
		ErrWriter: output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input-file",
				Aliases:     []string{"i"},
				Usage:       "File to load OSM data from (*.osm.pbf, *.osm, *.xml, optionally *.gz / *.bz2 compressed)",
				Required:    true,
				Destination: &opts.inputFile,
			},
			&cli.StringFlag{
				Name:        "output-id",
				Aliases:     []string{"o"},
				Usage:       "Meaningful filename part to export data to. $OUTPUT_ID_nodes.txt and $OUTPUT_ID_areas.txt files will be created",
				Required:    true,
				Destination: &opts.outputID,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "Increase output verbosity",
				EnvVars:     []string{"AIRPORTS_VERBOSE"},
				Destination: &opts.verbose,
			},
			&cli.StringFlag{
				Name:        "tags",
				Value:       strings.Join(airports.AerodromeFilter.Values, ","),
				Usage:       "Set of needed 'aeroway' tag values (separated by commas)",
				Destination: &opts.tags,
			},
			&cli.StringFlag{
				Name:        "policy",
				Value:       airports.POLICY_PREPASS.String(),
				Usage:       "Way resolution policy. Expected values: prepass / opportunistic",
				Destination: &opts.policy,
			},
			&cli.BoolFlag{
				Name:        "envelope",
				Aliases:     []string{"e"},
				Usage:       "Export smallest rectangle (with sides parallel to the coordinate axes) containing the area",
				Destination: &opts.envelope,
			},
			&cli.BoolFlag{
				Name:        "minimum-rotated-rectangle",
				Aliases:     []string{"m"},
				Usage:       "Export minimum bounding rectangle of any orientation containing the area. Takes precedence over --envelope",
				Destination: &opts.minRotatedRect,
			},
			&cli.BoolFlag{
				Name:        "suppress-inside",
				Usage:       "Do not export airport nodes located inside exported airport areas",
				Destination: &opts.suppressInside,
			},
			&cli.Float64Flag{
				Name:        "suppress-buffer",
				Value:       airports.DEFAULT_SUPPRESS_BUFFER,
				Usage:       "Buffer (degrees) around area's rectangle used by --suppress-inside",
				Destination: &opts.suppressBuffer,
			},
			&cli.StringFlag{
				Name:        "format",
				Value:       airports.EXPORT_TEXT.String(),
				Usage:       "Format of output geometry. Expected values: text / wkt / geojson",
				Destination: &opts.format,
			},
			&cli.IntFlag{
				Name:        "precision",
				Value:       airports.DEFAULT_PRECISION,
				Usage:       "Number of decimals for text format",
				Destination: &opts.precision,
			},
			&cli.IntFlag{
				Name:        "procs",
				Value:       4,
				Usage:       "Number of goroutines for PBF decoding",
				Destination: &opts.procs,
			},
		},
		Action: func(cCtx *cli.Context) error {
			return run(cCtx.Context, *opts)
		},
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

func (opts options) extractorOptions(logger *zap.Logger) ([]func(*airports.Extractor), error) {
	policy, err := airports.ParseResolvePolicy(opts.policy)
	if err != nil {
		return nil, err
	}
	filter := airports.TagFilter{
		Key:    airports.AerodromeFilter.Key,
		Values: strings.Split(opts.tags, ","),
	}
	shape := airports.SHAPE_AS_IS
	if opts.minRotatedRect {
		shape = airports.SHAPE_MIN_ROTATED_RECT
	} else if opts.envelope {
		shape = airports.SHAPE_ENVELOPE
	}
	extractorOptions := []func(*airports.Extractor){
		airports.WithFilter(filter),
		airports.WithPolicy(policy),
		airports.WithShapeMode(shape),
		airports.WithLogger(logger),
	}
	if opts.suppressInside {
		extractorOptions = append(extractorOptions, airports.WithPointSuppression(opts.suppressBuffer))
	}
	return extractorOptions, nil
}

func run(ctx context.Context, opts options) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return errors.Wrap(err, "Can't prepare logger")
	}
	defer logger.Sync()

	format, err := airports.ParseExportFormat(opts.format)
	if err != nil {
		return err
	}
	writer := airports.NewWriter(
		airports.WithExportFormat(format),
		airports.WithPrecision(opts.precision),
	)
	extractorOptions, err := opts.extractorOptions(logger)
	if err != nil {
		return err
	}

	sourceOptions := []func(*airports.FileSource){
		airports.WithDecoderProcs(opts.procs),
	}
	if opts.verbose {
		sourceOptions = append(sourceOptions, airports.WithProgress(newProgressBars(os.Stderr)))
	}
	source, err := airports.OpenFile(opts.inputFile, sourceOptions...)
	if err != nil {
		return err
	}
	defer source.Close()

	fnameNodes, fnameAreas := writer.Paths(opts.outputID)
	logger.Info(fmt.Sprintf("Parsing %s to export airports to %s and %s", opts.inputFile, fnameNodes, fnameAreas))

	extractor := airports.NewExtractor(source, extractorOptions...)
	logger.Debug(extractor.String())
	_, err = extractor.Run(ctx, opts.outputID, writer)
	if err != nil {
		return err
	}

	stats := extractor.Stats()
	logger.Info("Summary",
		zap.String("nodes_scanned", humanize.Comma(stats.Nodes)),
		zap.String("ways_scanned", humanize.Comma(stats.Ways)),
		zap.String("relations_scanned", humanize.Comma(stats.Relations)),
		zap.String("airport_nodes", humanize.Comma(int64(stats.PointMatches))),
		zap.String("airport_areas", humanize.Comma(int64(stats.AreaMatches))),
	)
	if stats.UnresolvedWays > 0 {
		logger.Warn("Some airport ways have been dropped", zap.Int("unresolved_ways", stats.UnresolvedWays))
	}
	if stats.IgnoredRelations > 0 {
		logger.Warn("Airport relations are not supported", zap.Int("ignored_relations", stats.IgnoredRelations))
	}
	return nil
}

// progressBars shows reading progress of every pass
type progressBars struct {
	output io.Writer
	bars   map[airports.ScanPass]*pb.ProgressBar
}

func newProgressBars(output io.Writer) *progressBars {
	return &progressBars{
		output: output,
		bars:   make(map[airports.ScanPass]*pb.ProgressBar),
	}
}

func (p *progressBars) Start(pass airports.ScanPass, total int64, r io.Reader) io.Reader {
	bar := pb.New64(total).SetUnits(pb.U_BYTES).Prefix(fmt.Sprintf("Reading %s ", pass))
	bar.Output = p.output
	bar.Start()
	p.bars[pass] = bar
	return bar.NewProxyReader(r)
}

func (p *progressBars) Finish(pass airports.ScanPass) {
	if bar, ok := p.bars[pass]; ok {
		bar.Finish()
		delete(p.bars, pass)
	}
}
