package store

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/njfio/issuegraph/pkg/hierarchy"
	"github.com/njfio/issuegraph/pkg/issues"
)

func TestRunBSONRoundTrip(t *testing.T) {
	parent := 100
	nodes := map[int]issues.Node{
		100: {Number: 100, Title: "Root", State: "open", Type: issues.TypeEpic, Labels: []string{"epic"}},
		101: {Number: 101, Title: "Child", State: "open", Type: issues.TypeTask, ParentNumber: &parent},
	}
	g, err := hierarchy.Build(nodes, 100)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	run := &Run{
		Repo:        "njfio/Tau",
		RootIssue:   100,
		ExtractedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Document:    g.Document(),
	}

	data, err := bson.Marshal(run)
	if err != nil {
		t.Fatalf("bson.Marshal error: %v", err)
	}

	var got Run
	if err := bson.Unmarshal(data, &got); err != nil {
		t.Fatalf("bson.Unmarshal error: %v", err)
	}

	if got.Repo != run.Repo || got.RootIssue != run.RootIssue {
		t.Errorf("run = %s #%d, want %s #%d", got.Repo, got.RootIssue, run.Repo, run.RootIssue)
	}
	if !got.ExtractedAt.Equal(run.ExtractedAt) {
		t.Errorf("ExtractedAt = %v, want %v", got.ExtractedAt, run.ExtractedAt)
	}
	if got.Document == nil {
		t.Fatal("document should survive the round trip")
	}
	if got.Document.RootIssueNumber != 100 {
		t.Errorf("RootIssueNumber = %d, want 100", got.Document.RootIssueNumber)
	}
	if got.Document.Summary.InScopeNodes != 2 {
		t.Errorf("InScopeNodes = %d, want 2", got.Document.Summary.InScopeNodes)
	}
	if len(got.Document.Nodes) != 2 || got.Document.Nodes[1].Depth != 1 {
		t.Errorf("nodes did not survive: %+v", got.Document.Nodes)
	}
}
