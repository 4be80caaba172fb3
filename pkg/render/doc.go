// Package render converts classified hierarchy graphs to Graphviz DOT and
// renders them to SVG.
//
// The DOT output is deterministic: nodes and edges follow the document's
// issue-number ordering, so identical documents produce identical diagrams.
// SVG rendering runs Graphviz in-process via the goccy/go-graphviz WASM
// runtime; no external binaries are required.
package render
