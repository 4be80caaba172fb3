package render

import (
	"strings"
	"testing"

	"github.com/njfio/issuegraph/pkg/hierarchy"
	"github.com/njfio/issuegraph/pkg/issues"
)

func sampleDocument() *hierarchy.Document {
	child := 1678
	stray := 2999
	nodes := map[int]issues.Node{
		1678: {Number: 1678, Title: "M21 Root", State: "open", Type: issues.TypeEpic},
		1761: {Number: 1761, Title: "Dependency Graph Task", State: "closed", Type: issues.TypeTask, ParentNumber: &child},
		2000: {Number: 2000, Title: "Missing Parent", State: "open", Type: issues.TypeTask, ParentNumber: &stray},
	}
	g, err := hierarchy.Build(nodes, 1678)
	if err != nil {
		panic(err)
	}
	return g.Document()
}

func TestToDOTNodesAndEdges(t *testing.T) {
	dot := ToDOT(sampleDocument(), Options{})

	for _, want := range []string{
		"digraph hierarchy {",
		`1678 [label="#1678 M21 Root", penwidth=2]`,
		`1761 [label="#1761 Dependency Graph Task", fillcolor=lightgrey]`,
		"1678 -> 1761;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	if strings.Contains(dot, "2000") {
		t.Error("orphans should be excluded without IncludeOrphans")
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	dot := ToDOT(sampleDocument(), Options{Detailed: true})

	for _, want := range []string{"state: open", "type: epic", "depth: 0"} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}
}

func TestToDOTIncludeOrphans(t *testing.T) {
	dot := ToDOT(sampleDocument(), Options{IncludeOrphans: true})

	if !strings.Contains(dot, "parent_missing_from_dataset") {
		t.Errorf("orphan reason missing from DOT:\n%s", dot)
	}
	if !strings.Contains(dot, "dashed") {
		t.Error("orphan nodes should render dashed")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	first := ToDOT(sampleDocument(), Options{IncludeOrphans: true})
	second := ToDOT(sampleDocument(), Options{IncludeOrphans: true})
	if first != second {
		t.Error("DOT output should be deterministic")
	}
}

func TestToDOTEscapesTitles(t *testing.T) {
	d := &hierarchy.Document{
		RootIssueNumber: 1,
		Nodes: []hierarchy.GraphNode{
			{Node: issues.Node{Number: 1, Title: `say "hi"`, State: "open", Type: issues.TypeUnknown}},
		},
		Edges: []hierarchy.Edge{},
	}

	dot := ToDOT(d, Options{})
	if !strings.Contains(dot, `label="#1 say \"hi\""`) {
		t.Errorf("quotes in titles should be escaped:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00">`)
	out := normalizeViewBox(in)

	want := `viewBox="0 0 100.00 50.00"`
	if !strings.Contains(string(out), want) {
		t.Errorf("normalizeViewBox() = %s, want it to contain %q", out, want)
	}
	if !strings.Contains(string(out), `xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("normalized tag should carry the svg namespace")
	}
}

func TestNormalizeViewBoxPassThrough(t *testing.T) {
	in := []byte(`<svg>no viewbox here</svg>`)
	if got := normalizeViewBox(in); string(got) != string(in) {
		t.Errorf("input without viewBox should pass through unchanged, got %s", got)
	}
}
