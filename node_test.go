package airports

import (
	"testing"

	"github.com/paulmach/osm"
)

func TestNodeStoreSorted(t *testing.T) {
	store := NewNodeStore(3)
	store.Put(1, GeoPoint{Lat: 1, Lon: 10})
	store.Put(5, GeoPoint{Lat: 5, Lon: 50})
	store.Put(9, GeoPoint{Lat: 9, Lon: 90})
	if store.index != nil {
		t.Errorf("Store must not build index for ascending identifiers")
	}
	for _, id := range []osm.NodeID{1, 5, 9} {
		pt, ok := store.Get(id)
		if !ok {
			t.Errorf("Node %d must be found", id)
			continue
		}
		if pt.Lat != float64(id) {
			t.Errorf("Latitude of node %d must be %f, but got %f", id, float64(id), pt.Lat)
		}
	}
	for _, id := range []osm.NodeID{0, 2, 10} {
		if _, ok := store.Get(id); ok {
			t.Errorf("Node %d must not be found", id)
		}
	}
	if store.Len() != 3 {
		t.Errorf("Store must contain 3 nodes, but got %d", store.Len())
	}
}

func TestNodeStoreUnsorted(t *testing.T) {
	store := NewNodeStore(0)
	store.Put(10, GeoPoint{Lat: 10})
	store.Put(20, GeoPoint{Lat: 20})
	store.Put(5, GeoPoint{Lat: 5})
	store.Put(15, GeoPoint{Lat: 15})
	if store.index == nil {
		t.Errorf("Store must switch to index for out-of-order identifiers")
	}
	for _, id := range []osm.NodeID{5, 10, 15, 20} {
		pt, ok := store.Get(id)
		if !ok || pt.Lat != float64(id) {
			t.Errorf("Node %d must be found with latitude %f, but got %v (found: %t)", id, float64(id), pt, ok)
		}
	}
	if _, ok := store.Get(7); ok {
		t.Errorf("Node 7 must not be found")
	}
}

func TestNodeStoreOverwrite(t *testing.T) {
	store := NewNodeStore(0)
	store.Put(3, GeoPoint{Lat: 1})
	store.Put(3, GeoPoint{Lat: 2})
	if store.Len() != 1 {
		t.Errorf("Repeated node must not be appended, but store has %d nodes", store.Len())
	}
	if pt, _ := store.Get(3); pt.Lat != 2 {
		t.Errorf("Repeated node must overwrite coordinate, but got %v", pt)
	}
}
