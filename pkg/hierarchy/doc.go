// Package hierarchy reconstructs the rooted issue hierarchy beneath a
// designated root issue.
//
// Every normalized node is classified by how its parent chain relates to the
// root: nodes whose chain provably reaches the root are in-scope, everything
// else is an orphan annotated with the specific reason (missing parent link,
// parent absent from the dataset, chain terminating at an unrelated top-level
// issue, or a cycle). Orphans caused by absent or dangling parent references
// are additionally surfaced as missing links because they indicate tracker
// data-entry problems rather than structural exclusion.
//
// The package builds a directed parent→child edge list restricted to in-scope
// nodes, assigns breadth-first depths from the root, and renders the result
// as a JSON document and a Markdown outline. The graph is rebuilt from
// scratch on every invocation and holds no state between runs; identical
// input produces byte-identical artifacts.
package hierarchy
