package hierarchy

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/njfio/issuegraph/pkg/errors"
)

// SchemaVersion identifies the graph document format.
const SchemaVersion = 1

// Summary holds the aggregate counts of a classified graph.
type Summary struct {
	InScopeNodes int `json:"in_scope_nodes" bson:"in_scope_nodes"`
	InScopeEdges int `json:"in_scope_edges" bson:"in_scope_edges"`
	MissingLinks int `json:"missing_links" bson:"missing_links"`
	OrphanNodes  int `json:"orphan_nodes" bson:"orphan_nodes"`
}

// Document is the canonical serialization of a classified hierarchy graph.
// It is regenerated from scratch on every extraction; re-running the
// pipeline on identical input yields byte-identical JSON.
type Document struct {
	SchemaVersion   int          `json:"schema_version" bson:"schema_version"`
	RootIssueNumber int          `json:"root_issue_number" bson:"root_issue_number"`
	Nodes           []GraphNode  `json:"nodes" bson:"nodes"`
	Edges           []Edge       `json:"edges" bson:"edges"`
	MissingLinks    []OrphanNode `json:"missing_links" bson:"missing_links"`
	OrphanNodes     []OrphanNode `json:"orphan_nodes" bson:"orphan_nodes"`
	Summary         Summary      `json:"summary" bson:"summary"`
}

// Document converts the graph into its serialization form.
func (g *Graph) Document() *Document {
	return &Document{
		SchemaVersion:   SchemaVersion,
		RootIssueNumber: g.Root,
		Nodes:           g.Nodes,
		Edges:           g.Edges,
		MissingLinks:    g.MissingLinks,
		OrphanNodes:     g.Orphans,
		Summary: Summary{
			InScopeNodes: len(g.Nodes),
			InScopeEdges: len(g.Edges),
			MissingLinks: len(g.MissingLinks),
			OrphanNodes:  len(g.Orphans),
		},
	}
}

// Marshal encodes the document as indented JSON with a trailing newline.
// Slices are pre-sorted by issue number, so the bytes are deterministic.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode graph document")
	}
	return buf.Bytes(), nil
}

// ReadDocument decodes a graph document from r.
func ReadDocument(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataShape, err, "decode graph document")
	}
	return &d, nil
}

// ReadDocumentFile reads a graph document from a JSON file at path.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadDocument(f)
}

// NodeIndex returns the in-scope nodes keyed by issue number.
func (d *Document) NodeIndex() map[int]GraphNode {
	byNumber := make(map[int]GraphNode, len(d.Nodes))
	for _, n := range d.Nodes {
		byNumber[n.Number] = n
	}
	return byNumber
}

// ChildrenIndex rebuilds the parent→sorted-children adjacency from the
// edge list, for consumers operating on a loaded document.
func (d *Document) ChildrenIndex() map[int][]int {
	children := make(map[int][]int)
	for _, e := range d.Edges {
		children[e.From] = append(children[e.From], e.To)
	}
	for _, kids := range children {
		slices.Sort(kids)
	}
	return children
}
