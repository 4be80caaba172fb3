// Package issues converts raw tracker-issue records into canonical nodes.
//
// Raw records arrive as loosely-shaped JSON objects, typically a GitHub
// issues export. The normalizer is deliberately lenient: records that are
// not issues (pull requests) or lack an integer number are dropped rather
// than rejected, label entries may be bare strings or {"name": ...} objects,
// and malformed parent URLs simply mean "no parent". The only hard failure
// in this package is an input payload that does not decode to a JSON array
// (or an object wrapping one under an "issues" key).
//
// # Usage
//
//	records, err := issues.DecodeRecords(f)
//	if err != nil {
//	    return err // DATA_SHAPE_ERROR
//	}
//	nodes := issues.Normalize(records, issues.Options{Repo: "njfio/Tau"})
//	byNumber := issues.NodeMap(nodes)
package issues
