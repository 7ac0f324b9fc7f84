// Package osm defines the processed OSM element types this system consumes.
// Parsing raw OSM XML/PBF into these types is an external collaborator
// (spec §1); this package is the boundary contract only.
package osm

// Tags is a string->string tag dictionary. Unknown keys are ignored by every
// consumer in this repository.
type Tags map[string]string

// ProcessedNode is a node already projected to integer world-block
// coordinates upstream.
type ProcessedNode struct {
	ID   int64
	Tags Tags
	X, Z int
}

// ProcessedWay is an ordered polyline of nodes.
type ProcessedWay struct {
	ID    int64
	Tags  Tags
	Nodes []ProcessedNode
}

// Closed reports whether the way's first and last node share an ID, i.e. it
// already forms a closed ring.
func (w ProcessedWay) Closed() bool {
	return len(w.Nodes) > 1 && w.Nodes[0].ID == w.Nodes[len(w.Nodes)-1].ID
}

// MemberRole distinguishes outer (area-bounding) from inner (hole) ring
// members of a multipolygon relation.
type MemberRole int

const (
	Outer MemberRole = iota
	Inner
)

// ProcessedMember is one member way of a relation, tagged with its role.
type ProcessedMember struct {
	Role MemberRole
	Way  ProcessedWay
}

// ProcessedRelation is an OSM multipolygon-style relation: a set of outer
// and inner way members plus its own tag dictionary.
type ProcessedRelation struct {
	ID      int64
	Tags    Tags
	Members []ProcessedMember
}
