package hierarchy

import (
	"fmt"
	"maps"
	"strings"
)

// RenderTreeLines renders the in-scope hierarchy as indented outline lines,
// one per node in depth-first pre-order, two spaces per depth level.
//
// The traversal tracks the nodes visited along the current path from the
// root and emits a literal (cycle-detected) marker instead of recursing when
// a path revisits a node. The path set is copied for each recursive call so
// siblings never suppress each other. The classifier already filters cycles
// out of the in-scope graph; the guard keeps the renderer finite if it ever
// receives one anyway.
func RenderTreeLines(d *Document) []string {
	byNumber := d.NodeIndex()
	if _, ok := byNumber[d.RootIssueNumber]; !ok {
		return []string{}
	}

	children := d.ChildrenIndex()
	lines := make([]string, 0, len(d.Nodes))
	path := map[int]struct{}{d.RootIssueNumber: {}}
	appendSubtree(&lines, byNumber, children, d.RootIssueNumber, 0, path)
	return lines
}

func appendSubtree(lines *[]string, byNumber map[int]GraphNode, children map[int][]int, number, depth int, path map[int]struct{}) {
	n := byNumber[number]
	indent := strings.Repeat("  ", depth)
	*lines = append(*lines, fmt.Sprintf("%s#%d [%s] %s (%s)", indent, n.Number, n.State, n.Title, n.Type))

	for _, child := range children[number] {
		if _, revisited := path[child]; revisited {
			*lines = append(*lines, fmt.Sprintf("%s  #%d (cycle-detected)", indent, child))
			continue
		}
		next := maps.Clone(path)
		next[child] = struct{}{}
		appendSubtree(lines, byNumber, children, child, depth+1, next)
	}
}

// RenderOutline renders the full Markdown outline: a title block with the
// summary counts, the tree, and the missing-link and orphan lists.
func RenderOutline(d *Document) string {
	var b strings.Builder

	b.WriteString("# Issue Hierarchy Graph\n\n")
	fmt.Fprintf(&b, "- root issue: #%d\n", d.RootIssueNumber)
	fmt.Fprintf(&b, "- in-scope nodes: %d\n", d.Summary.InScopeNodes)
	fmt.Fprintf(&b, "- in-scope edges: %d\n", d.Summary.InScopeEdges)
	fmt.Fprintf(&b, "- missing links: %d\n", d.Summary.MissingLinks)
	fmt.Fprintf(&b, "- orphan nodes: %d\n", d.Summary.OrphanNodes)

	b.WriteString("\n## Tree\n\n")
	for _, line := range RenderTreeLines(d) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString("\n## Missing Links\n\n")
	writeOrphanList(&b, d.MissingLinks)

	b.WriteString("\n## Orphan Nodes\n\n")
	writeOrphanList(&b, d.OrphanNodes)

	return b.String()
}

func writeOrphanList(b *strings.Builder, orphans []OrphanNode) {
	if len(orphans) == 0 {
		b.WriteString("- none\n")
		return
	}
	for _, o := range orphans {
		fmt.Fprintf(b, "- #%d %s | reason=%s | parent=%s\n", o.Number, o.Title, o.Reason, parentRef(o))
	}
}

// parentRef formats the orphan's parent reference for list rendering.
func parentRef(o OrphanNode) string {
	if o.ParentIssueURL == "" {
		return "none"
	}
	return o.ParentIssueURL
}
