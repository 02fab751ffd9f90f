package airports

import (
	"github.com/paulmach/osm"
)

// PointMatch is matched node with its coordinate
type PointMatch struct {
	ID    osm.NodeID
	Point GeoPoint
}

// AreaMatch is matched way with coordinates of its member nodes (in member order)
type AreaMatch struct {
	ID   osm.WayID
	Geom []GeoPoint
}

// Accumulator holds matched geometries in encounter order.
// Same entity observed twice is kept twice.
type Accumulator struct {
	Points []PointMatch
	Areas  []AreaMatch
}

// AddPoint appends node match
func (acc *Accumulator) AddPoint(id osm.NodeID, pt GeoPoint) {
	acc.Points = append(acc.Points, PointMatch{ID: id, Point: pt})
}

// AddArea appends way match
func (acc *Accumulator) AddArea(id osm.WayID, geom []GeoPoint) {
	acc.Areas = append(acc.Areas, AreaMatch{ID: id, Geom: geom})
}

// wayRef is matched way waiting for its geometry to be resolved
type wayRef struct {
	ID    osm.WayID
	Nodes []osm.NodeID
}

func newWayRef(way *osm.Way) wayRef {
	ref := wayRef{
		ID:    way.ID,
		Nodes: make([]osm.NodeID, 0, len(way.Nodes)),
	}
	for _, node := range way.Nodes {
		ref.Nodes = append(ref.Nodes, node.ID)
	}
	return ref
}

// ResolveNode returns coordinate of the node
func ResolveNode(node *osm.Node) GeoPoint {
	return GeoPoint{Lat: node.Lat, Lon: node.Lon}
}

// ResolveWay returns coordinates of way's member nodes in member order.
// Returns *UnresolvedNodeError for first member which is not present in the store
func ResolveWay(way *osm.Way, store *NodeStore) ([]GeoPoint, error) {
	return newWayRef(way).resolve(store)
}

func (ref wayRef) resolve(store *NodeStore) ([]GeoPoint, error) {
	geom := make([]GeoPoint, 0, len(ref.Nodes))
	for _, nodeID := range ref.Nodes {
		pt, ok := store.Get(nodeID)
		if !ok {
			return nil, &UnresolvedNodeError{WayID: ref.ID, NodeID: nodeID}
		}
		geom = append(geom, pt)
	}
	return geom, nil
}
