package ovsdb

import (
	"encoding/json"
	"fmt"
)

// OvsSet is the RFC 7047 §5.1 <set> notation. A set of exactly one element
// is permitted on the wire as the bare element itself (no "set" wrapper);
// NewOvsSet and UnmarshalJSON both account for that shorthand.
type OvsSet struct {
	GoSet []interface{}
}

// NewOvsSet builds an OvsSet from a native Go []interface{}, used as-is:
// elements are not converted or inspected. An OvsSet or *OvsSet is
// returned unchanged; any other input, including slices of other element
// types, is wrapped as a single-element set.
func NewOvsSet(data interface{}) (*OvsSet, error) {
	switch v := data.(type) {
	case []interface{}:
		return &OvsSet{GoSet: v}, nil
	case OvsSet:
		return &v, nil
	case *OvsSet:
		return v, nil
	default:
		return &OvsSet{GoSet: []interface{}{data}}, nil
	}
}

// MarshalJSON renders s as its wire notation: `["set", [<value>...]]`,
// except that a single-element set is permitted to (and here does) render
// as the bare element, matching what OVSDB itself emits.
func (s OvsSet) MarshalJSON() ([]byte, error) {
	if len(s.GoSet) == 1 {
		return json.Marshal(s.GoSet[0])
	}
	return json.Marshal([2]interface{}{"set", s.GoSet})
}

// UnmarshalJSON parses s from either wire form: the two-element
// `["set", [...]]` array, or a bare single value standing in for a
// one-element set.
func (s *OvsSet) UnmarshalJSON(b []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(b, &pair); err == nil {
		var tag string
		if err := json.Unmarshal(pair[0], &tag); err == nil && tag == "set" {
			var elems []interface{}
			if err := json.Unmarshal(pair[1], &elems); err != nil {
				return err
			}
			s.GoSet = elems
			return nil
		}
	}
	var single interface{}
	if err := json.Unmarshal(b, &single); err != nil {
		return fmt.Errorf("ovsdb: invalid set notation: %w", err)
	}
	s.GoSet = []interface{}{single}
	return nil
}
