package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/njfio/issuegraph/pkg/hierarchy"
)

// Options configures DOT conversion.
type Options struct {
	// Detailed includes state, type, and depth in node labels.
	// When false, only the issue number and title are shown.
	Detailed bool

	// IncludeOrphans renders orphan nodes as dashed, disconnected boxes
	// annotated with their classification reason.
	IncludeOrphans bool
}

// ToDOT converts a hierarchy document to Graphviz DOT format.
// The root node is emphasized, closed issues are filled grey, and orphans
// (when included) are dashed to distinguish them from the in-scope tree.
func ToDOT(d *hierarchy.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph hierarchy {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		label := fmtNodeLabel(n, opts.Detailed)
		attrs := fmtNodeAttrs(n, d.RootIssueNumber, label)
		fmt.Fprintf(&buf, "  %d [%s];\n", n.Number, strings.Join(attrs, ", "))
	}

	if opts.IncludeOrphans {
		buf.WriteString("\n")
		for _, o := range d.OrphanNodes {
			label := fmt.Sprintf("#%d %s\n%s", o.Number, o.Title, o.Reason)
			fmt.Fprintf(&buf, "  %d [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", o.Number, label)
		}
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %d -> %d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtNodeLabel(n hierarchy.GraphNode, detailed bool) string {
	if !detailed {
		return fmt.Sprintf("#%d %s", n.Number, n.Title)
	}
	parts := []string{
		fmt.Sprintf("state: %s", n.State),
		fmt.Sprintf("type: %s", n.Type),
		fmt.Sprintf("depth: %d", n.Depth),
	}
	return fmt.Sprintf("#%d %s\n%s", n.Number, n.Title, strings.Join(parts, "\n"))
}

func fmtNodeAttrs(n hierarchy.GraphNode, root int, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Number == root {
		attrs = append(attrs, "penwidth=2")
	}
	if n.State == "closed" {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the opening svg tag so the diagram scales
// cleanly when embedded or served over HTTP.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
