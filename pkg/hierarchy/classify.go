package hierarchy

import (
	"github.com/njfio/issuegraph/pkg/errors"
	"github.com/njfio/issuegraph/pkg/issues"
)

// Classification describes how a node's parent chain relates to the root.
type Classification string

const (
	// Connected marks the root itself, or a node whose chain of
	// parent_number links terminates at the root.
	Connected Classification = "connected"

	// MissingParentLink marks a non-root node with no parent reference.
	MissingParentLink Classification = "missing_parent_link"

	// ParentMissingFromDataset marks a chain containing a parent number
	// that does not exist among the normalized nodes.
	ParentMissingFromDataset Classification = "parent_missing_from_dataset"

	// ChainTerminatedBeforeRoot marks a chain that reaches a node lacking
	// a parent reference without ever hitting the root.
	ChainTerminatedBeforeRoot Classification = "chain_terminated_before_root"

	// CycleDetected marks a chain that revisits a previously-seen parent
	// number before reaching the root.
	CycleDetected Classification = "cycle_detected"
)

// IsMissingLink reports whether the classification indicates an absent or
// dataset-dangling parent reference. These are surfaced separately from
// other orphans as tracker data-quality signals.
func (c Classification) IsMissingLink() bool {
	return c == MissingParentLink || c == ParentMissingFromDataset
}

// Classify walks every node's parent chain toward the root and returns the
// classification per issue number.
//
// The caller must guarantee the root issue is part of the dataset; a missing
// root returns a CONFIGURATION_ERROR and is the one hard precondition of the
// whole pipeline. All other irregularities are classification outcomes.
func Classify(nodes map[int]issues.Node, root int) (map[int]Classification, error) {
	if _, ok := nodes[root]; !ok {
		return nil, errors.New(errors.ErrCodeConfiguration, "root issue #%d is not present in the dataset", root)
	}

	result := make(map[int]Classification, len(nodes))
	for number, node := range nodes {
		result[number] = classifyNode(nodes, root, node)
	}
	return result, nil
}

// classifyNode walks one node's parent chain. Each walk keeps its own
// visited set, which bounds the walk at |nodes| hops even over cyclic data;
// no step limit is needed.
func classifyNode(nodes map[int]issues.Node, root int, start issues.Node) Classification {
	if start.Number == root {
		return Connected
	}

	visited := make(map[int]struct{})
	current := start
	firstHop := true
	for {
		if current.ParentNumber == nil {
			if firstHop {
				return MissingParentLink
			}
			return ChainTerminatedBeforeRoot
		}
		parent := *current.ParentNumber
		if parent == root {
			return Connected
		}
		if _, seen := visited[parent]; seen {
			return CycleDetected
		}
		next, ok := nodes[parent]
		if !ok {
			return ParentMissingFromDataset
		}
		visited[parent] = struct{}{}
		current = next
		firstHop = false
	}
}
