package issues

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/njfio/issuegraph/pkg/errors"
)

// RawRecord is a raw tracker-issue record as exported by the tracker API.
// Keys beyond the ones the normalizer understands are carried but ignored.
type RawRecord map[string]any

// DecodeRecords reads raw issue records from r.
//
// The payload must decode to either a top-level JSON array of records or an
// object carrying the array under an "issues" key. Any other shape returns a
// DATA_SHAPE_ERROR. Non-object entries inside the array are dropped, matching
// the lenient per-record handling of the normalizer.
func DecodeRecords(r io.Reader) ([]RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataShape, err, "issues payload must decode to a JSON array")
	}

	switch v := payload.(type) {
	case []any:
		return coerceRecords(v), nil
	case map[string]any:
		inner, ok := v["issues"]
		if !ok {
			return nil, errors.New(errors.ErrCodeDataShape, "issues payload must decode to a JSON array or an object with an \"issues\" array")
		}
		arr, ok := inner.([]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeDataShape, "\"issues\" value must decode to a JSON array")
		}
		return coerceRecords(arr), nil
	default:
		return nil, errors.New(errors.ErrCodeDataShape, "issues payload must decode to a JSON array")
	}
}

// ReadRecordsFile reads raw issue records from a JSON file at path.
func ReadRecordsFile(path string) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return DecodeRecords(f)
}

func coerceRecords(items []any) []RawRecord {
	records := make([]RawRecord, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			records = append(records, RawRecord(m))
		}
	}
	return records
}

// number returns the record's issue number and whether it is a valid integer.
// JSON numbers may surface as json.Number (decoder with UseNumber), float64
// (plain decoding), or int (hand-built fixtures).
func (r RawRecord) number() (int, bool) {
	switch v := r["number"].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// isPullRequest reports whether the record represents a pull request.
// The mere presence of the key excludes the record; pull requests are a
// normal part of tracker exports, not an error condition.
func (r RawRecord) isPullRequest() bool {
	_, ok := r["pull_request"]
	return ok
}

// stringField returns the named field if it holds a non-empty string.
func (r RawRecord) stringField(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}
