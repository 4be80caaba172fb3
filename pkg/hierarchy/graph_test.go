package hierarchy

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildSingleEdge(t *testing.T) {
	// root=100, 101 parents to root.
	nodes := nodeSet(
		testNode(100, nil),
		testNode(101, parent(100)),
	)

	g, err := Build(nodes, 100)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(g.Nodes) != 2 {
		t.Fatalf("in-scope nodes = %d, want 2", len(g.Nodes))
	}
	if g.Nodes[0].Number != 100 || g.Nodes[0].Depth != 0 {
		t.Errorf("root node = #%d depth %d, want #100 depth 0", g.Nodes[0].Number, g.Nodes[0].Depth)
	}
	if g.Nodes[1].Number != 101 || g.Nodes[1].Depth != 1 {
		t.Errorf("child node = #%d depth %d, want #101 depth 1", g.Nodes[1].Number, g.Nodes[1].Depth)
	}

	if len(g.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(g.Edges))
	}
	e := g.Edges[0]
	if e.From != 100 || e.To != 101 || e.Kind != EdgeKindParentChild {
		t.Errorf("edge = %+v, want {100 101 parent_child}", e)
	}
}

func TestBuildOrphanPartitions(t *testing.T) {
	nodes := nodeSet(
		testNode(100, nil),
		testNode(200, parent(200)), // cycle
		testNode(300, parent(999)), // dangling parent
		testNode(400, nil),         // no parent link
	)

	g, err := Build(nodes, 100)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(g.Orphans) != 3 {
		t.Fatalf("orphans = %d, want 3", len(g.Orphans))
	}
	// Sorted by number: 200, 300, 400.
	wantReasons := []Classification{CycleDetected, ParentMissingFromDataset, MissingParentLink}
	for i, want := range wantReasons {
		if g.Orphans[i].Reason != want {
			t.Errorf("orphan[%d] reason = %q, want %q", i, g.Orphans[i].Reason, want)
		}
	}

	// Cycles are orphans but not missing links.
	if len(g.MissingLinks) != 2 {
		t.Fatalf("missing links = %d, want 2", len(g.MissingLinks))
	}
	for _, ml := range g.MissingLinks {
		if ml.Number == 200 {
			t.Error("cycle_detected node should not appear in missing links")
		}
	}

	// Partition property: orphans ∪ in-scope covers the set exactly.
	if len(g.Nodes)+len(g.Orphans) != len(nodes) {
		t.Errorf("in-scope (%d) + orphans (%d) != total (%d)", len(g.Nodes), len(g.Orphans), len(nodes))
	}
}

func TestBuildDepthsOnDeepChain(t *testing.T) {
	nodes := nodeSet(
		testNode(1678, nil),
		testNode(1761, parent(1678)),
		testNode(1767, parent(1761)),
	)

	g, err := Build(nodes, 1678)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantDepths := map[int]int{1678: 0, 1761: 1, 1767: 2}
	for _, n := range g.Nodes {
		if n.Depth != wantDepths[n.Number] {
			t.Errorf("depth(#%d) = %d, want %d", n.Number, n.Depth, wantDepths[n.Number])
		}
	}
	if len(g.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(g.Edges))
	}
}

func TestBuildChildrenSorted(t *testing.T) {
	nodes := nodeSet(
		testNode(100, nil),
		testNode(105, parent(100)),
		testNode(101, parent(100)),
		testNode(103, parent(100)),
	)

	g, err := Build(nodes, 100)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	kids := g.Children(100)
	want := []int{101, 103, 105}
	if len(kids) != len(want) {
		t.Fatalf("children = %v, want %v", kids, want)
	}
	for i := range want {
		if kids[i] != want[i] {
			t.Fatalf("children = %v, want %v", kids, want)
		}
	}
}

func TestBuildRootAbsentProducesNoGraph(t *testing.T) {
	nodes := nodeSet(testNode(1, nil))

	g, err := Build(nodes, 100)
	if err == nil {
		t.Fatal("Build() should fail when root is absent")
	}
	if g != nil {
		t.Error("Build() should not return a partial graph on error")
	}
}

func TestDocumentSummaryCounts(t *testing.T) {
	nodes := nodeSet(
		testNode(1678, nil),
		testNode(1761, parent(1678)),
		testNode(1767, parent(1761)),
		testNode(1999, nil),
		testNode(2000, parent(2999)),
	)

	g, err := Build(nodes, 1678)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	d := g.Document()

	if d.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", d.SchemaVersion, SchemaVersion)
	}
	if d.RootIssueNumber != 1678 {
		t.Errorf("RootIssueNumber = %d, want 1678", d.RootIssueNumber)
	}
	if d.Summary.InScopeNodes != 3 {
		t.Errorf("InScopeNodes = %d, want 3", d.Summary.InScopeNodes)
	}
	if d.Summary.InScopeEdges != 2 {
		t.Errorf("InScopeEdges = %d, want 2", d.Summary.InScopeEdges)
	}
	if d.Summary.MissingLinks != 2 {
		t.Errorf("MissingLinks = %d, want 2", d.Summary.MissingLinks)
	}
	if d.Summary.OrphanNodes != 2 {
		t.Errorf("OrphanNodes = %d, want 2", d.Summary.OrphanNodes)
	}
}

func TestDocumentMarshalDeterministic(t *testing.T) {
	nodes := nodeSet(
		testNode(100, nil),
		testNode(101, parent(100)),
		testNode(400, nil),
	)

	build := func() []byte {
		g, err := Build(nodes, 100)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		data, err := g.Document().Marshal()
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		return data
	}

	first := build()
	second := build()
	if !bytes.Equal(first, second) {
		t.Error("document bytes should be identical across runs on the same input")
	}
	if !bytes.HasSuffix(first, []byte("\n")) {
		t.Error("document should end with a newline")
	}
}

func TestDocumentMarshalEmptyListsAsArrays(t *testing.T) {
	nodes := nodeSet(testNode(100, nil))

	g, err := Build(nodes, 100)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	data, err := g.Document().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	text := string(data)
	if strings.Contains(text, `"edges": null`) {
		t.Error("empty edges should marshal as [], not null")
	}
	if strings.Contains(text, `"missing_links": null`) || strings.Contains(text, `"orphan_nodes": null`) {
		t.Error("empty orphan lists should marshal as [], not null")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	nodes := nodeSet(
		testNode(100, nil),
		testNode(101, parent(100)),
		testNode(2000, parent(2999)),
	)

	g, err := Build(nodes, 100)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	data, err := g.Document().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	loaded, err := ReadDocument(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if loaded.RootIssueNumber != 100 || len(loaded.Nodes) != 2 || len(loaded.MissingLinks) != 1 {
		t.Errorf("round trip mismatch: %+v", loaded.Summary)
	}

	kids := loaded.ChildrenIndex()
	if len(kids[100]) != 1 || kids[100][0] != 101 {
		t.Errorf("ChildrenIndex()[100] = %v, want [101]", kids[100])
	}
}
