package water

import (
	"github.com/paulmach/orb"

	"github.com/jcobol-labs/osm2mc/internal/osm"
)

// mergeLoops implements the merge_loops greedy ring-assembly pass (spec
// §4.F step 2): repeat until stable, joining any two open strands that
// share an endpoint node ID, deduplicating the shared node and reversing
// one side as needed. It returns the rings formed from every strand that
// ended up closed, and whether every input strand ended up closed (false
// means at least one strand never found a matching endpoint).
func mergeLoops(ways []osm.ProcessedWay) ([]orb.Ring, bool) {
	if len(ways) == 0 {
		return nil, true
	}

	strands := make([][]osm.ProcessedNode, 0, len(ways))
	for _, w := range ways {
		nodes := make([]osm.ProcessedNode, len(w.Nodes))
		copy(nodes, w.Nodes)
		strands = append(strands, nodes)
	}

	var closed [][]osm.ProcessedNode
	changed := true
	for changed {
		changed = false

		var stillOpen [][]osm.ProcessedNode
		for _, s := range strands {
			if isClosedStrand(s) {
				closed = append(closed, s)
				changed = true
			} else {
				stillOpen = append(stillOpen, s)
			}
		}
		strands = stillOpen

		merged := tryMergeOnePair(strands)
		if merged != nil {
			strands = merged
			changed = true
		}
	}

	rings := make([]orb.Ring, 0, len(closed))
	for _, s := range closed {
		rings = append(rings, nodesToRing(s))
	}
	return rings, len(strands) == 0
}

func isClosedStrand(s []osm.ProcessedNode) bool {
	return len(s) > 1 && s[0].ID == s[len(s)-1].ID
}

// tryMergeOnePair scans for the first pair of strands sharing an endpoint
// and returns the strand set with that pair replaced by their merge, or nil
// if no pair merges.
func tryMergeOnePair(strands [][]osm.ProcessedNode) [][]osm.ProcessedNode {
	for i := 0; i < len(strands); i++ {
		for j := i + 1; j < len(strands); j++ {
			si, sj := strands[i], strands[j]
			if len(si) == 0 || len(sj) == 0 {
				continue
			}
			merged, ok := mergeStrandPair(si, sj)
			if !ok {
				continue
			}
			out := make([][]osm.ProcessedNode, 0, len(strands)-1)
			for k, s := range strands {
				if k != i && k != j {
					out = append(out, s)
				}
			}
			out = append(out, merged)
			return out
		}
	}
	return nil
}

func mergeStrandPair(si, sj []osm.ProcessedNode) ([]osm.ProcessedNode, bool) {
	headI, tailI := si[0], si[len(si)-1]
	headJ, tailJ := sj[0], sj[len(sj)-1]

	switch {
	case tailI.ID == headJ.ID:
		return append(append([]osm.ProcessedNode{}, si...), sj[1:]...), true
	case tailI.ID == tailJ.ID:
		return append(append([]osm.ProcessedNode{}, si...), reverseNodes(sj)[1:]...), true
	case headI.ID == tailJ.ID:
		return append(append([]osm.ProcessedNode{}, sj...), si[1:]...), true
	case headI.ID == headJ.ID:
		return append(reverseNodes(si), sj[1:]...), true
	default:
		return nil, false
	}
}

func reverseNodes(s []osm.ProcessedNode) []osm.ProcessedNode {
	out := make([]osm.ProcessedNode, len(s))
	for i, n := range s {
		out[len(s)-1-i] = n
	}
	return out
}

func nodesToRing(nodes []osm.ProcessedNode) orb.Ring {
	ring := make(orb.Ring, len(nodes))
	for i, n := range nodes {
		ring[i] = orb.Point{float64(n.X), float64(n.Z)}
	}
	return ring
}
