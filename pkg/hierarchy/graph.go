package hierarchy

import (
	"slices"

	"github.com/njfio/issuegraph/pkg/issues"
)

// EdgeKindParentChild is the kind attached to every hierarchy edge.
const EdgeKindParentChild = "parent_child"

// GraphNode is an in-scope node annotated with its breadth-first depth from
// the root (root = 0).
type GraphNode struct {
	issues.Node `bson:",inline"`
	Depth       int `json:"depth" bson:"depth"`
}

// Edge is a directed parent→child connection between two in-scope nodes.
type Edge struct {
	From int    `json:"from" bson:"from"`
	To   int    `json:"to" bson:"to"`
	Kind string `json:"kind" bson:"kind"`
}

// OrphanNode is a node that could not be connected to the root, annotated
// with the classification reason it failed.
type OrphanNode struct {
	issues.Node `bson:",inline"`
	Reason      Classification `json:"reason" bson:"reason"`
}

// Graph is the classified hierarchy beneath one root issue.
// All slices are sorted by issue number for deterministic serialization.
type Graph struct {
	Root         int
	Nodes        []GraphNode
	Edges        []Edge
	MissingLinks []OrphanNode
	Orphans      []OrphanNode

	children map[int][]int
}

// Build classifies every node against the root and assembles the graph:
// in-scope nodes with depths, the restricted edge list, and the orphan and
// missing-link partitions. The input map is not mutated.
func Build(nodes map[int]issues.Node, root int) (*Graph, error) {
	classes, err := Classify(nodes, root)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		Root:         root,
		Nodes:        make([]GraphNode, 0, len(nodes)),
		Edges:        make([]Edge, 0, len(nodes)),
		MissingLinks: make([]OrphanNode, 0),
		Orphans:      make([]OrphanNode, 0),
		children:     make(map[int][]int),
	}

	inScope := make(map[int]issues.Node, len(nodes))
	for number, node := range nodes {
		class := classes[number]
		if class == Connected {
			inScope[number] = node
			continue
		}
		orphan := OrphanNode{Node: node, Reason: class}
		g.Orphans = append(g.Orphans, orphan)
		if class.IsMissingLink() {
			g.MissingLinks = append(g.MissingLinks, orphan)
		}
	}
	sortOrphans(g.Orphans)
	sortOrphans(g.MissingLinks)

	// Edges exist only when both endpoints are in-scope, which the
	// classification already implies for everything reachable from root.
	for _, number := range sortedKeys(inScope) {
		node := inScope[number]
		if node.ParentNumber == nil {
			continue
		}
		parent := *node.ParentNumber
		if _, ok := inScope[parent]; !ok {
			continue
		}
		g.Edges = append(g.Edges, Edge{From: parent, To: number, Kind: EdgeKindParentChild})
		g.children[parent] = append(g.children[parent], number)
	}
	slices.SortFunc(g.Edges, func(a, b Edge) int {
		if a.From != b.From {
			return a.From - b.From
		}
		return a.To - b.To
	})
	for _, kids := range g.children {
		slices.Sort(kids)
	}

	depths := g.assignDepths()
	for _, number := range sortedKeys(inScope) {
		g.Nodes = append(g.Nodes, GraphNode{Node: inScope[number], Depth: depths[number]})
	}

	return g, nil
}

// Children returns the sorted child numbers of an in-scope node.
func (g *Graph) Children(number int) []int { return g.children[number] }

// assignDepths runs a breadth-first traversal from the root over the
// parent→children adjacency. Already-assigned nodes are skipped, so the
// traversal terminates in linear time even if the edge set contained a cycle.
func (g *Graph) assignDepths() map[int]int {
	depths := map[int]int{g.Root: 0}
	queue := []int{g.Root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range g.children[current] {
			if _, assigned := depths[child]; assigned {
				continue
			}
			depths[child] = depths[current] + 1
			queue = append(queue, child)
		}
	}
	return depths
}

func sortedKeys(nodes map[int]issues.Node) []int {
	keys := make([]int, 0, len(nodes))
	for number := range nodes {
		keys = append(keys, number)
	}
	slices.Sort(keys)
	return keys
}

func sortOrphans(orphans []OrphanNode) {
	slices.SortFunc(orphans, func(a, b OrphanNode) int { return a.Number - b.Number })
}
