package water

import (
	"testing"

	"github.com/jcobol-labs/osm2mc/internal/osm"
)

func node(id int64, x, z int) osm.ProcessedNode {
	return osm.ProcessedNode{ID: id, X: x, Z: z}
}

func wayOf(id int64, nodes ...osm.ProcessedNode) osm.ProcessedWay {
	return osm.ProcessedWay{ID: id, Nodes: nodes}
}

func TestMergeLoopsSingleClosedWay(t *testing.T) {
	w := wayOf(1, node(1, 0, 0), node(2, 10, 0), node(3, 10, 10), node(4, 0, 10), node(1, 0, 0))
	rings, allClosed := mergeLoops([]osm.ProcessedWay{w})
	if !allClosed {
		t.Fatalf("expected allClosed true")
	}
	if len(rings) != 1 {
		t.Fatalf("expected 1 ring, got %d", len(rings))
	}
	if len(rings[0]) != 5 {
		t.Fatalf("expected 5 points in ring, got %d", len(rings[0]))
	}
}

func TestMergeLoopsTwoOpenWaysMergeViaSharedEndpoint(t *testing.T) {
	a := wayOf(1, node(1, 0, 0), node(2, 10, 0), node(3, 10, 10))
	b := wayOf(2, node(3, 10, 10), node(4, 0, 10), node(1, 0, 0))
	rings, allClosed := mergeLoops([]osm.ProcessedWay{a, b})
	if !allClosed {
		t.Fatalf("expected allClosed true")
	}
	if len(rings) != 1 {
		t.Fatalf("expected 1 ring, got %d", len(rings))
	}
	if len(rings[0]) != 5 {
		t.Fatalf("expected 5 points (4 distinct + closing), got %d", len(rings[0]))
	}
}

func TestMergeLoopsFourWaysChainThenClose(t *testing.T) {
	a := wayOf(1, node(1, 0, 0), node(2, 10, 0))
	b := wayOf(2, node(2, 10, 0), node(3, 10, 10))
	c := wayOf(3, node(4, 0, 10), node(3, 10, 10))
	d := wayOf(4, node(1, 0, 0), node(4, 0, 10))
	rings, allClosed := mergeLoops([]osm.ProcessedWay{a, b, c, d})
	if !allClosed {
		t.Fatalf("expected allClosed true")
	}
	if len(rings) != 1 {
		t.Fatalf("expected 1 ring, got %d", len(rings))
	}
}

func TestMergeLoopsUnmatchedEndpointNeverCloses(t *testing.T) {
	a := wayOf(1, node(1, 0, 0), node(2, 10, 0))
	b := wayOf(2, node(3, 20, 20), node(4, 30, 30))
	rings, allClosed := mergeLoops([]osm.ProcessedWay{a, b})
	if allClosed {
		t.Fatalf("expected allClosed false")
	}
	if len(rings) != 0 {
		t.Fatalf("expected no closed rings, got %d", len(rings))
	}
}

func TestMergeLoopsEmptyInput(t *testing.T) {
	rings, allClosed := mergeLoops(nil)
	if !allClosed {
		t.Fatalf("expected allClosed true for empty input")
	}
	if len(rings) != 0 {
		t.Fatalf("expected no rings")
	}
}
