package ovsdb

import (
	"encoding/json"
	"fmt"
)

// OvsMap is the RFC 7047 §5.1 <map> notation:
// `["map", [[<key>,<value>]...]]`. On the wire it's a list of pairs, not
// a JSON object, because keys are arbitrary JSON values (including
// UUIDs), not necessarily strings; GoMap keys that decode to notation
// (e.g. a <uuid>) are converted to their comparable typed form (UUID)
// before insertion so they're usable as Go map keys.
type OvsMap struct {
	GoMap map[interface{}]interface{}
}

// NewOvsMap builds an OvsMap from a native Go map.
func NewOvsMap(data interface{}) (*OvsMap, error) {
	m, ok := data.(map[interface{}]interface{})
	if !ok {
		return nil, fmt.Errorf("ovsdb: NewOvsMap: expected map[interface{}]interface{}, got %T", data)
	}
	return &OvsMap{GoMap: m}, nil
}

// MarshalJSON renders m as its wire notation.
func (m OvsMap) MarshalJSON() ([]byte, error) {
	pairs := make([][2]interface{}, 0, len(m.GoMap))
	for k, v := range m.GoMap {
		pairs = append(pairs, [2]interface{}{k, v})
	}
	return json.Marshal([2]interface{}{"map", pairs})
}

// UnmarshalJSON parses m from its wire notation.
func (m *OvsMap) UnmarshalJSON(b []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("ovsdb: invalid map notation: %w", err)
	}
	var tag string
	if err := json.Unmarshal(pair[0], &tag); err != nil || tag != "map" {
		return fmt.Errorf("ovsdb: not a map notation: %s", string(b))
	}
	var rawPairs [][2]interface{}
	if err := json.Unmarshal(pair[1], &rawPairs); err != nil {
		return err
	}
	out := make(map[interface{}]interface{}, len(rawPairs))
	for _, kv := range rawPairs {
		// A key may itself be notation (e.g. <uuid>), which decodes to a
		// non-comparable []interface{}; convert it to its typed, comparable
		// form (UUID) before using it as a Go map key.
		key, err := ovsValueToNative(kv[0])
		if err != nil {
			return err
		}
		out[key] = kv[1]
	}
	m.GoMap = out
	return nil
}
