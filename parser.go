package airports

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ResolvePolicy defines how way geometries are resolved
type ResolvePolicy uint16

const (
	// POLICY_PREPASS scans ways first and then collects coordinates of referenced nodes only.
	// Missing node is fatal
	POLICY_PREPASS = ResolvePolicy(iota + 1)
	// POLICY_OPPORTUNISTIC scans data once keeping coordinates of every node.
	// Ways with missing nodes are dropped and counted
	POLICY_OPPORTUNISTIC
)

func (iotaIdx ResolvePolicy) String() string {
	if iotaIdx < POLICY_PREPASS || iotaIdx > POLICY_OPPORTUNISTIC {
		return "unknown"
	}
	return [...]string{"prepass", "opportunistic"}[iotaIdx-1]
}

// ParseResolvePolicy parses textual representation of ResolvePolicy
func ParseResolvePolicy(s string) (ResolvePolicy, error) {
	switch strings.ToLower(s) {
	case "prepass", "pre-pass", "":
		return POLICY_PREPASS, nil
	case "opportunistic":
		return POLICY_OPPORTUNISTIC, nil
	default:
		return 0, &ArgumentError{Msg: fmt.Sprintf("unknown resolve policy '%s'. Expected values: prepass / opportunistic", s)}
	}
}

// ScanState is state of Extractor
type ScanState uint16

const (
	STATE_IDLE = ScanState(iota + 1)
	STATE_SCANNING
	STATE_FINALIZING
	STATE_DONE
	STATE_FAILED
)

func (iotaIdx ScanState) String() string {
	if iotaIdx < STATE_IDLE || iotaIdx > STATE_FAILED {
		return "unknown"
	}
	return [...]string{"idle", "scanning", "finalizing", "done", "failed"}[iotaIdx-1]
}

// Stats holds counters of single run
type Stats struct {
	Nodes            int64
	Ways             int64
	Relations        int64
	OtherEntities    int64
	StoredNodes      int
	PointMatches     int
	AreaMatches      int
	UnresolvedWays   int
	IgnoredRelations int
	SuppressedPoints int
}

// Extractor filters entities by tag and accumulates their geometries.
// Extractor is meant to be used for single run
type Extractor struct {
	source         EntitySource
	filter         TagFilter
	policy         ResolvePolicy
	shapeMode      ShapeMode
	suppress       bool
	suppressBuffer float64
	logger         *zap.Logger

	state ScanState
	err   error
	acc   *Accumulator
	store *NodeStore
	stats Stats
}

func (ex *Extractor) String() string {
	return fmt.Sprintf(`
Extractor parameters:
	source: '%s'
	filter: '%s=%s'
	resolve_policy: '%s'
	shape: '%s'
	suppress points in areas?: %t
	suppress_buffer: %f
	`,
		ex.source.Name(),
		ex.filter.Key,
		strings.Join(ex.filter.Values, ","),
		ex.policy,
		ex.shapeMode,
		ex.suppress,
		ex.suppressBuffer,
	)
}

// NewExtractor returns extractor over given source. By default it looks for `aeroway=aerodrome` entities
func NewExtractor(source EntitySource, options ...func(*Extractor)) *Extractor {
	ex := &Extractor{
		source:         source,
		filter:         AerodromeFilter,
		policy:         POLICY_PREPASS,
		shapeMode:      SHAPE_AS_IS,
		suppressBuffer: DEFAULT_SUPPRESS_BUFFER,
		logger:         zap.NewNop(),
		state:          STATE_IDLE,
	}
	for _, option := range options {
		option(ex)
	}
	return ex
}

func WithFilter(filter TagFilter) func(*Extractor) {
	return func(ex *Extractor) {
		ex.filter = filter
	}
}

func WithPolicy(policy ResolvePolicy) func(*Extractor) {
	return func(ex *Extractor) {
		ex.policy = policy
	}
}

func WithShapeMode(mode ShapeMode) func(*Extractor) {
	return func(ex *Extractor) {
		ex.shapeMode = mode
	}
}

// WithPointSuppression drops matched points located inside (buffered by given distance in degrees) matched areas
func WithPointSuppression(buffer float64) func(*Extractor) {
	return func(ex *Extractor) {
		ex.suppress = true
		ex.suppressBuffer = buffer
	}
}

func WithLogger(logger *zap.Logger) func(*Extractor) {
	return func(ex *Extractor) {
		if logger != nil {
			ex.logger = logger
		}
	}
}

// State returns current state
func (ex *Extractor) State() ScanState {
	return ex.state
}

// Err returns error which moved extractor to failed state
func (ex *Extractor) Err() error {
	return ex.err
}

// Stats returns counters of the run
func (ex *Extractor) Stats() Stats {
	return ex.stats
}

func (ex *Extractor) validate() error {
	if ex.source == nil {
		return &ArgumentError{Msg: "entity source is not provided"}
	}
	if err := ex.filter.validate(); err != nil {
		return err
	}
	switch ex.policy {
	case POLICY_PREPASS, POLICY_OPPORTUNISTIC:
	default:
		return &ArgumentError{Msg: fmt.Sprintf("unknown resolve policy %d", ex.policy)}
	}
	switch ex.shapeMode {
	case SHAPE_AS_IS, SHAPE_ENVELOPE, SHAPE_MIN_ROTATED_RECT:
	default:
		return &ArgumentError{Msg: fmt.Sprintf("unknown shape mode %d", ex.shapeMode)}
	}
	if ex.suppress && ex.suppressBuffer < 0 {
		return &ArgumentError{Msg: "suppress buffer must not be negative"}
	}
	return nil
}

func (ex *Extractor) fail(err error) error {
	ex.state = STATE_FAILED
	ex.err = err
	return err
}
