package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/njfio/issuegraph/pkg/errors"
	"github.com/njfio/issuegraph/pkg/hierarchy"
)

// fixtureIssues mirrors a realistic export: a root, a two-level chain, an
// issue with no parent link, and an issue whose parent is absent.
const fixtureIssues = `[
  {"number": 1678, "title": "M21 Root Epic", "state": "open",
   "labels": [{"name": "epic"}]},
  {"number": 1761, "title": "Graph Task", "state": "open",
   "labels": [{"name": "task"}],
   "parent_issue_url": "https://api.github.com/repos/fixture/repo/issues/1678"},
  {"number": 1767, "title": "Extractor Subtask", "state": "closed",
   "labels": [{"name": "task"}],
   "parent_issue_url": "https://api.github.com/repos/fixture/repo/issues/1761"},
  {"number": 1999, "title": "Orphan Issue", "state": "open", "labels": []},
  {"number": 2000, "title": "Dangling Parent", "state": "open", "labels": [],
   "parent_issue_url": "https://api.github.com/repos/fixture/repo/issues/2999"},
  {"number": 3000, "title": "A Pull Request", "state": "open",
   "pull_request": {"url": "https://api.github.com/repos/fixture/repo/pulls/3000"}}
]`

func newTestCLI() *CLI {
	return New(io.Discard, log.ErrorLevel)
}

func extractFixture(t *testing.T, dir string) (*extractOpts, error) {
	t.Helper()

	input := filepath.Join(dir, "issues.json")
	if err := os.WriteFile(input, []byte(fixtureIssues), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	opts := &extractOpts{
		input:      input,
		repo:       "fixture/repo",
		rootIssue:  1678,
		outputJSON: filepath.Join(dir, "graph.json"),
		outputMD:   filepath.Join(dir, "outline.md"),
		quiet:      true,
	}
	return opts, newTestCLI().runExtract(context.Background(), defaultConfig(), opts)
}

func TestRunExtract(t *testing.T) {
	dir := t.TempDir()
	opts, err := extractFixture(t, dir)
	if err != nil {
		t.Fatalf("runExtract() error = %v", err)
	}

	doc, err := hierarchy.ReadDocumentFile(opts.outputJSON)
	if err != nil {
		t.Fatalf("ReadDocumentFile error: %v", err)
	}

	if doc.RootIssueNumber != 1678 {
		t.Errorf("RootIssueNumber = %d, want 1678", doc.RootIssueNumber)
	}
	if doc.Summary.InScopeNodes != 3 {
		t.Errorf("InScopeNodes = %d, want 3", doc.Summary.InScopeNodes)
	}
	if doc.Summary.InScopeEdges != 2 {
		t.Errorf("InScopeEdges = %d, want 2", doc.Summary.InScopeEdges)
	}
	if doc.Summary.MissingLinks != 2 {
		t.Errorf("MissingLinks = %d, want 2", doc.Summary.MissingLinks)
	}
	if doc.Summary.OrphanNodes != 2 {
		t.Errorf("OrphanNodes = %d, want 2", doc.Summary.OrphanNodes)
	}

	// The pull request must not appear anywhere.
	for _, n := range doc.Nodes {
		if n.Number == 3000 {
			t.Error("pull request leaked into in-scope nodes")
		}
	}
	for _, o := range doc.OrphanNodes {
		if o.Number == 3000 {
			t.Error("pull request leaked into orphans")
		}
	}

	outline, err := os.ReadFile(opts.outputMD)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	text := string(outline)
	if !strings.Contains(text, "# Issue Hierarchy Graph") {
		t.Error("outline missing heading")
	}
	if !strings.Contains(text, "#1678 [open] M21 Root Epic (epic)") {
		t.Errorf("outline missing root line:\n%s", text)
	}
	if !strings.Contains(text, "- #1999 Orphan Issue | reason=missing_parent_link | parent=none") {
		t.Errorf("outline missing orphan line:\n%s", text)
	}
}

func TestRunExtractIdempotent(t *testing.T) {
	dir := t.TempDir()
	opts, err := extractFixture(t, dir)
	if err != nil {
		t.Fatalf("runExtract() error = %v", err)
	}

	firstJSON, _ := os.ReadFile(opts.outputJSON)
	firstMD, _ := os.ReadFile(opts.outputMD)

	if err := newTestCLI().runExtract(context.Background(), defaultConfig(), opts); err != nil {
		t.Fatalf("second runExtract() error = %v", err)
	}

	secondJSON, _ := os.ReadFile(opts.outputJSON)
	secondMD, _ := os.ReadFile(opts.outputMD)

	if !bytes.Equal(firstJSON, secondJSON) {
		t.Error("graph document should be byte-identical across runs")
	}
	if !bytes.Equal(firstMD, secondMD) {
		t.Error("outline should be byte-identical across runs")
	}
}

func TestRunExtractRootAbsentWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "issues.json")
	if err := os.WriteFile(input, []byte(fixtureIssues), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	opts := &extractOpts{
		input:      input,
		repo:       "fixture/repo",
		rootIssue:  424242,
		outputJSON: filepath.Join(dir, "graph.json"),
		outputMD:   filepath.Join(dir, "outline.md"),
		quiet:      true,
	}

	err := newTestCLI().runExtract(context.Background(), defaultConfig(), opts)
	if err == nil {
		t.Fatal("runExtract() should fail when the root issue is absent")
	}
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("error code = %v, want configuration error", errors.GetCode(err))
	}

	if _, err := os.Stat(opts.outputJSON); !os.IsNotExist(err) {
		t.Error("no graph document should be written on a fatal error")
	}
	if _, err := os.Stat(opts.outputMD); !os.IsNotExist(err) {
		t.Error("no outline should be written on a fatal error")
	}
}

func TestRunExtractRejectsNonArrayPayload(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "issues.json")
	if err := os.WriteFile(input, []byte(`{"number": 1}`), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	opts := &extractOpts{
		input:      input,
		rootIssue:  1,
		outputJSON: filepath.Join(dir, "graph.json"),
		outputMD:   filepath.Join(dir, "outline.md"),
		quiet:      true,
	}

	err := newTestCLI().runExtract(context.Background(), defaultConfig(), opts)
	if err == nil {
		t.Fatal("runExtract() should fail on a non-array payload")
	}
	if !errors.Is(err, errors.ErrCodeDataShape) {
		t.Errorf("error code = %v, want data shape error", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "must decode to a JSON array") {
		t.Errorf("error = %q, should name the expected shape", err)
	}
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := defaultConfig()
	cfg.Repo = "njfio/Tau"
	cfg.RootIssue = 1678

	opts := &extractOpts{}
	applyConfigDefaults(opts, cfg)

	if opts.repo != "njfio/Tau" || opts.rootIssue != 1678 {
		t.Errorf("config defaults not applied: %+v", opts)
	}
	if opts.outputJSON != "hierarchy-graph.json" || opts.outputMD != "hierarchy-outline.md" {
		t.Errorf("output defaults not applied: %+v", opts)
	}

	// Flags win over config.
	opts = &extractOpts{repo: "other/repo", rootIssue: 9, outputJSON: "a.json", outputMD: "a.md"}
	applyConfigDefaults(opts, cfg)
	if opts.repo != "other/repo" || opts.rootIssue != 9 {
		t.Errorf("flags should win over config: %+v", opts)
	}
}
