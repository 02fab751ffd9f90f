package airports

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Extract scans the source and returns matched geometries
func (ex *Extractor) Extract(ctx context.Context) (*Accumulator, error) {
	err := ex.run(ctx, nil)
	if err != nil {
		return nil, err
	}
	return ex.acc, nil
}

// Run scans the source and writes matched geometries with given writer. Returns paths of written files
func (ex *Extractor) Run(ctx context.Context, outputID string, writer *Writer) ([]string, error) {
	if writer == nil {
		return nil, &ArgumentError{Msg: "writer is not provided"}
	}
	if err := validateOutputID(outputID); err != nil {
		return nil, err
	}
	var paths []string
	err := ex.run(ctx, func(acc *Accumulator) error {
		var err error
		paths, err = writer.Write(outputID, acc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (ex *Extractor) run(ctx context.Context, write func(acc *Accumulator) error) error {
	if ex.state != STATE_IDLE {
		return &ArgumentError{Msg: fmt.Sprintf("extractor can't be run in state '%s'", ex.state)}
	}
	if err := ex.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "Run has been cancelled before start")
	}
	ex.logger.Info("Starting extraction",
		zap.String("source", ex.source.Name()),
		zap.String("filter", ex.filter.Key+"="+fmt.Sprint(ex.filter.Values)),
		zap.Stringer("policy", ex.policy),
	)

	ex.state = STATE_SCANNING
	ex.acc = &Accumulator{}
	var err error
	switch ex.policy {
	case POLICY_OPPORTUNISTIC:
		err = ex.scanOnce(ctx)
	default:
		err = ex.scanTwice(ctx)
	}
	if err != nil {
		return ex.fail(err)
	}

	ex.state = STATE_FINALIZING
	ex.finalizeGeometries()
	ex.stats.PointMatches = len(ex.acc.Points)
	ex.stats.AreaMatches = len(ex.acc.Areas)
	if write != nil {
		st := time.Now()
		if err := write(ex.acc); err != nil {
			return ex.fail(errors.Wrap(err, "Can't export matches"))
		}
		ex.logger.Info("Export finished", zap.Duration("elapsed", time.Since(st)))
	}
	ex.state = STATE_DONE
	ex.logger.Info("Extraction done",
		zap.Int("points", ex.stats.PointMatches),
		zap.Int("areas", ex.stats.AreaMatches),
		zap.Int("unresolved_ways", ex.stats.UnresolvedWays),
		zap.Int("ignored_relations", ex.stats.IgnoredRelations),
		zap.Int("suppressed_points", ex.stats.SuppressedPoints),
	)
	return nil
}

// scanPass feeds every entity of the pass to handler. Context is checked between entities
func (ex *Extractor) scanPass(ctx context.Context, pass ScanPass, handle func(obj osm.Object) error) error {
	scanner, err := ex.source.Scanner(ctx, pass)
	if err != nil {
		return errors.Wrapf(err, "Can't prepare scanner for %s", pass)
	}
	defer scanner.Close()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "Scanning %s interrupted", pass)
		}
		if err := handle(scanner.Object()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &InputError{Path: ex.source.Name(), Err: errors.Wrapf(err, "Scanner error on %s", pass)}
	}
	return nil
}

// scanTwice collects matched ways first, then nodes referenced by them (and matched nodes), then resolves ways
func (ex *Extractor) scanTwice(ctx context.Context) error {
	/* Process ways */
	ex.logger.Info("Processing ways...")
	st := time.Now()
	ways := []wayRef{}
	nodesSeen := make(map[osm.NodeID]struct{})
	err := ex.scanPass(ctx, PASS_WAYS, func(obj osm.Object) error {
		switch entity := obj.(type) {
		case *osm.Node:
			// Nodes are handled in next pass
		case *osm.Way:
			ex.stats.Ways++
			if !ex.filter.Matches(entity.Tags) {
				return nil
			}
			ref := newWayRef(entity)
			for _, nodeID := range ref.Nodes {
				nodesSeen[nodeID] = struct{}{}
			}
			ways = append(ways, ref)
		case *osm.Relation:
			ex.handleRelation(entity)
		default:
			ex.handleOther(obj)
		}
		return nil
	})
	if err != nil {
		return err
	}
	ex.logger.Info("Ways done",
		zap.Duration("elapsed", time.Since(st)),
		zap.Int("matched_ways", len(ways)),
		zap.Int("referenced_nodes", len(nodesSeen)),
	)

	/* Process nodes */
	ex.logger.Info("Processing nodes...")
	st = time.Now()
	ex.store = NewNodeStore(len(nodesSeen))
	err = ex.scanPass(ctx, PASS_NODES, func(obj osm.Object) error {
		switch entity := obj.(type) {
		case *osm.Node:
			ex.stats.Nodes++
			pt := ResolveNode(entity)
			if _, ok := nodesSeen[entity.ID]; ok {
				ex.store.Put(entity.ID, pt)
			}
			if ex.filter.Matches(entity.Tags) {
				ex.acc.AddPoint(entity.ID, pt)
			}
		case *osm.Way, *osm.Relation:
			// Handled in previous pass
		default:
			// Counted in previous pass
		}
		return nil
	})
	if err != nil {
		return err
	}
	ex.stats.StoredNodes = ex.store.Len()
	ex.logger.Info("Nodes done",
		zap.Duration("elapsed", time.Since(st)),
		zap.Int("matched_nodes", len(ex.acc.Points)),
		zap.Int("stored_nodes", ex.store.Len()),
	)

	/* Resolve ways */
	for _, ref := range ways {
		geom, err := ref.resolve(ex.store)
		if err != nil {
			ex.stats.UnresolvedWays++
			return errors.Wrap(err, "Can't resolve way geometry")
		}
		ex.acc.AddArea(ref.ID, geom)
	}
	return nil
}

// scanOnce keeps coordinates of every node and resolves matched ways as soon as they are met
func (ex *Extractor) scanOnce(ctx context.Context) error {
	ex.logger.Info("Processing entities...")
	st := time.Now()
	ex.store = NewNodeStore(0)
	err := ex.scanPass(ctx, PASS_ALL, func(obj osm.Object) error {
		switch entity := obj.(type) {
		case *osm.Node:
			ex.stats.Nodes++
			pt := ResolveNode(entity)
			ex.store.Put(entity.ID, pt)
			if ex.filter.Matches(entity.Tags) {
				ex.acc.AddPoint(entity.ID, pt)
			}
		case *osm.Way:
			ex.stats.Ways++
			if !ex.filter.Matches(entity.Tags) {
				return nil
			}
			geom, err := ResolveWay(entity, ex.store)
			if err != nil {
				ex.stats.UnresolvedWays++
				ex.logger.Warn("Way dropped", zap.Int64("way_id", int64(entity.ID)), zap.Error(err))
				return nil
			}
			ex.acc.AddArea(entity.ID, geom)
		case *osm.Relation:
			ex.handleRelation(entity)
		default:
			ex.handleOther(obj)
		}
		return nil
	})
	if err != nil {
		return err
	}
	ex.stats.StoredNodes = ex.store.Len()
	ex.logger.Info("Entities done",
		zap.Duration("elapsed", time.Since(st)),
		zap.Int("matched_nodes", len(ex.acc.Points)),
		zap.Int("matched_ways", len(ex.acc.Areas)),
		zap.Int("unresolved_ways", ex.stats.UnresolvedWays),
	)
	return nil
}

// handleRelation counts relations. Multipolygon airports are not supported
func (ex *Extractor) handleRelation(relation *osm.Relation) {
	ex.stats.Relations++
	if ex.filter.Matches(relation.Tags) {
		ex.stats.IgnoredRelations++
		ex.logger.Debug("Relation ignored", zap.Int64("relation_id", int64(relation.ID)))
	}
}

// handleOther counts entities which are not nodes, ways or relations (changesets, notes, users)
func (ex *Extractor) handleOther(obj osm.Object) {
	ex.stats.OtherEntities++
	if obj != nil {
		ex.logger.Debug("Entity skipped", zap.String("type", string(obj.ObjectID().Type())))
	}
}

// finalizeGeometries applies point suppression and shape mode to accumulated geometries
func (ex *Extractor) finalizeGeometries() {
	if ex.suppress {
		var suppressed int
		ex.acc.Points, suppressed = suppressPointsInAreas(ex.acc.Points, ex.acc.Areas, ex.suppressBuffer)
		ex.stats.SuppressedPoints = suppressed
	}
	if ex.shapeMode == SHAPE_AS_IS {
		return
	}
	for i := range ex.acc.Areas {
		ex.acc.Areas[i].Geom = applyShape(ex.shapeMode, ex.acc.Areas[i].Geom)
	}
}
