package airports

import (
	"sort"

	"github.com/paulmach/osm"
)

// NodeStore is append-only table of node coordinates.
// While identifiers are added in ascending order (which is the usual order of OSM extracts) lookups
// are binary searches over plain slices. First out-of-order identifier switches store to map index.
type NodeStore struct {
	ids    []osm.NodeID
	coords []GeoPoint
	index  map[osm.NodeID]int
}

// NewNodeStore returns empty store with preallocated capacity
func NewNodeStore(capacity int) *NodeStore {
	return &NodeStore{
		ids:    make([]osm.NodeID, 0, capacity),
		coords: make([]GeoPoint, 0, capacity),
	}
}

// Put stores coordinate of the node. Existing coordinate is overwritten
func (store *NodeStore) Put(id osm.NodeID, pt GeoPoint) {
	if idx, ok := store.find(id); ok {
		store.coords[idx] = pt
		return
	}
	if store.index == nil && len(store.ids) > 0 && id < store.ids[len(store.ids)-1] {
		store.buildIndex()
	}
	store.ids = append(store.ids, id)
	store.coords = append(store.coords, pt)
	if store.index != nil {
		store.index[id] = len(store.ids) - 1
	}
}

// Get returns coordinate of the node
func (store *NodeStore) Get(id osm.NodeID) (GeoPoint, bool) {
	idx, ok := store.find(id)
	if !ok {
		return GeoPoint{}, false
	}
	return store.coords[idx], true
}

// Len returns number of stored nodes
func (store *NodeStore) Len() int {
	return len(store.ids)
}

func (store *NodeStore) find(id osm.NodeID) (int, bool) {
	if store.index != nil {
		idx, ok := store.index[id]
		return idx, ok
	}
	idx := sort.Search(len(store.ids), func(i int) bool {
		return store.ids[i] >= id
	})
	if idx < len(store.ids) && store.ids[idx] == id {
		return idx, true
	}
	return 0, false
}

func (store *NodeStore) buildIndex() {
	store.index = make(map[osm.NodeID]int, cap(store.ids))
	for i, id := range store.ids {
		store.index[id] = i
	}
}
