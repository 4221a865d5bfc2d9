package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"shelftrack/internal/common"
	"shelftrack/internal/server/models"
)

// Indexes lists the fields a collection may be ordered by. Ordered queries
// on unlisted fields are rejected so clients can fall back to unordered
// retrieval.
type Indexes map[string][]string

// DefaultIndexes covers the ordered queries the reading tracker issues.
func DefaultIndexes() Indexes {
	return Indexes{
		"books": {"createdAt"},
	}
}

func (ix Indexes) Supports(collection, field string) bool {
	for _, f := range ix[collection] {
		if f == field {
			return true
		}
	}
	return false
}

// resolveTimestamps replaces sentinel values with the current server time.
func resolveTimestamps(fields map[string]any, now time.Time) map[string]any {
	stamp := now.UTC().Format(time.RFC3339Nano)
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok && s == common.TimestampSentinel {
			out[k] = stamp
			continue
		}
		out[k] = v
	}
	return out
}

// mergeFields overlays src onto dst, returning a new map.
func mergeFields(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}

func matchesFilters(fields map[string]any, filters []Filter) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return false, fmt.Errorf("failed to marshal document: %w", err)
	}
	for _, f := range filters {
		res := gjson.GetBytes(data, f.Field)
		if !res.Exists() {
			return false, nil
		}
		if !valueEqual(res, f.Value) {
			return false, nil
		}
	}
	return true, nil
}

func valueEqual(res gjson.Result, want any) bool {
	switch w := want.(type) {
	case string:
		return res.Type == gjson.String && res.Str == w
	case float64:
		return res.Type == gjson.Number && res.Num == w
	case int:
		return res.Type == gjson.Number && res.Num == float64(w)
	case bool:
		return res.IsBool() && res.Bool() == w
	case nil:
		return res.Type == gjson.Null
	default:
		return res.String() == fmt.Sprint(w)
	}
}

func sortDocs(docs []*models.Document, orderBy string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		a := fieldSortKey(docs[i].Fields[orderBy])
		b := fieldSortKey(docs[j].Fields[orderBy])
		if desc {
			return a > b
		}
		return a < b
	})
}

func fieldSortKey(v any) string {
	if v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		// Zero-padded so lexical order matches numeric order.
		return fmt.Sprintf("%020.6f", f)
	}
	return fmt.Sprint(v)
}
