package issues

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Issue types derived from label precedence.
const (
	TypeEpic    = "epic"
	TypeStory   = "story"
	TypeTask    = "task"
	TypeUnknown = "unknown"
)

// typePrecedence orders the labels that determine a node's type.
// The first matching label wins.
var typePrecedence = []string{TypeEpic, TypeStory, TypeTask}

// parentNumberRe matches a trailing /issues/<int> path segment in a
// parent-issue URL. Anything else means "no parent".
var parentNumberRe = regexp.MustCompile(`/issues/(\d+)$`)

// Options configures normalization.
type Options struct {
	// Repo is the owner/name slug used to synthesize canonical issue URLs
	// for records that lack html_url or url fields, so downstream rendering
	// never has missing links.
	Repo string
}

// Node is the canonical form of a valid issue record, keyed by Number.
type Node struct {
	Number         int      `json:"number" bson:"number"`
	Title          string   `json:"title" bson:"title"`
	State          string   `json:"state" bson:"state"`
	Labels         []string `json:"labels" bson:"labels"`
	Type           string   `json:"type" bson:"type"`
	HTMLURL        string   `json:"html_url" bson:"html_url"`
	APIURL         string   `json:"api_url" bson:"api_url"`
	ParentIssueURL string   `json:"parent_issue_url,omitempty" bson:"parent_issue_url,omitempty"`
	ParentNumber   *int     `json:"parent_number" bson:"parent_number"`
}

// HasParent reports whether the node carries a resolvable parent reference.
func (n Node) HasParent() bool { return n.ParentNumber != nil }

// Normalize converts raw records into canonical nodes.
//
// Records carrying a pull_request key or lacking an integer number are
// silently dropped. The function is pure: it never mutates its input and
// produces the same output for the same input.
func Normalize(records []RawRecord, opts Options) []Node {
	nodes := make([]Node, 0, len(records))
	for _, rec := range records {
		if rec.isPullRequest() {
			continue
		}
		number, ok := rec.number()
		if !ok {
			continue
		}

		labels := normalizeLabels(rec["labels"])
		node := Node{
			Number:         number,
			Title:          strings.TrimSpace(rec.stringField("title")),
			State:          strings.ToLower(strings.TrimSpace(rec.stringField("state"))),
			Labels:         labels,
			Type:           typeFromLabels(labels),
			HTMLURL:        rec.stringField("html_url"),
			APIURL:         rec.stringField("url"),
			ParentIssueURL: rec.stringField("parent_issue_url"),
		}
		if node.HTMLURL == "" {
			node.HTMLURL = fmt.Sprintf("https://github.com/%s/issues/%d", opts.Repo, number)
		}
		if node.APIURL == "" {
			node.APIURL = fmt.Sprintf("https://api.github.com/repos/%s/issues/%d", opts.Repo, number)
		}
		node.ParentNumber = parseParentNumber(node.ParentIssueURL)

		nodes = append(nodes, node)
	}
	return nodes
}

// NodeMap indexes nodes by issue number. When the input carries duplicate
// numbers the last record wins, matching map-insertion semantics.
func NodeMap(nodes []Node) map[int]Node {
	byNumber := make(map[int]Node, len(nodes))
	for _, n := range nodes {
		byNumber[n.Number] = n
	}
	return byNumber
}

// parseParentNumber extracts the numeric parent reference from a
// parent-issue URL. Absent or non-matching URLs yield nil; malformed URLs
// never raise errors, they simply mean "no parent".
func parseParentNumber(url string) *int {
	m := parentNumberRe.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// normalizeLabels accepts either bare strings or {name: string} objects,
// discards empty or whitespace-only entries, and returns a deduplicated,
// sorted label set for deterministic output.
func normalizeLabels(raw any) []string {
	entries, ok := raw.([]any)
	if !ok {
		return []string{}
	}

	seen := make(map[string]struct{}, len(entries))
	labels := make([]string, 0, len(entries))
	for _, entry := range entries {
		var name string
		switch v := entry.(type) {
		case string:
			name = v
		case map[string]any:
			name, _ = v["name"].(string)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		labels = append(labels, name)
	}

	slices.Sort(labels)
	return labels
}

// typeFromLabels derives a coarse issue type from label precedence
// epic > story > task, falling back to unknown.
func typeFromLabels(labels []string) string {
	for _, t := range typePrecedence {
		if slices.Contains(labels, t) {
			return t
		}
	}
	return TypeUnknown
}
