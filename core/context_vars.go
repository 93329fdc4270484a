package core

import (
	"encoding/json"
	"sort"
)

// ContextVars is the run-scoped key/value state threaded through turns.
//
// A run owns its ContextVars exclusively. Tools never receive a shared
// reference: each invocation gets an independent clone and contributes
// changes back as a delta, merged by the run loop after the whole batch
// completed. Within one batch the later call in call order wins on
// conflicting keys, regardless of completion order.
type ContextVars map[string]any

// Clone returns a deep copy. Nested maps, slices and byte slices are copied
// so a holder of the clone cannot reach the original's values.
func (c ContextVars) Clone() ContextVars {
	out := make(ContextVars, len(c))
	for k, v := range c {
		out[k] = copyValue(v)
	}
	return out
}

// Merge returns a copy of c with delta applied on top. The receiver is left
// unchanged; delta values are copied in.
func (c ContextVars) Merge(delta ContextVars) ContextVars {
	out := c.Clone()
	for k, v := range delta {
		out[k] = copyValue(v)
	}
	return out
}

// Get returns the value for key and whether it was present.
func (c ContextVars) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// Set stores a value under key. Intended for building initial state; during a
// run, tools report changes through deltas instead.
func (c ContextVars) Set(key string, value any) {
	c[key] = value
}

// String returns the value for key as a string.
func (c ContextVars) String(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the value for key as an int. JSON decoded numbers arrive as
// float64 and are converted.
func (c ContextVars) Int(key string) (int, bool) {
	v, ok := c[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// Bool returns the value for key as a bool.
func (c ContextVars) Bool(key string) (bool, bool) {
	v, ok := c[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Keys returns the keys in sorted order.
func (c ContextVars) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// copyValue deep-copies container values so snapshots do not alias the
// originals. If the value is a json.RawMessage or []byte, a fresh slice is
// returned to prevent callers from mutating the stored bytes.
func copyValue(v any) any {
	switch tv := v.(type) {
	case json.RawMessage:
		cp := make(json.RawMessage, len(tv))
		copy(cp, tv)
		return cp
	case []byte:
		cp := make([]byte, len(tv))
		copy(cp, tv)
		return cp
	case ContextVars:
		return tv.Clone()
	case map[string]any:
		cp := make(map[string]any, len(tv))
		for k, e := range tv {
			cp[k] = copyValue(e)
		}
		return cp
	case []any:
		cp := make([]any, len(tv))
		for i, e := range tv {
			cp[i] = copyValue(e)
		}
		return cp
	default:
		return v
	}
}
