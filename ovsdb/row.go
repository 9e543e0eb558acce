package ovsdb

import "encoding/json"

// Row is a table row in native Go form. Values keep their typed shape
// (UUID/OvsSet/OvsMap) rather than collapsing further, since the column's
// schema — needed to know, e.g., whether a single uuid means a scalar
// reference or a one-element set — lives with the caller, not here.
type Row map[string]interface{}

// OvsRow is a table row exactly as it arrives on the wire, before notation
// conversion.
type OvsRow map[string]interface{}

// UnmarshalJSON decodes b into r's fields, converting each value out of
// RFC 7047 §5.1 notation.
func (r *OvsRow) UnmarshalJSON(b []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(map[string]interface{}, len(raw))
	for key, val := range raw {
		converted, err := ovsValueToNative(val)
		if err != nil {
			return err
		}
		out[key] = converted
	}
	*r = out
	return nil
}

// Data returns r with every field converted out of wire notation.
func (r OvsRow) Data() (Row, error) {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out, nil
}

// OvsResultRow is a row as returned by a `select` Operation's result.
type OvsResultRow map[string]interface{}

// UnmarshalJSON decodes b into r's fields, converting each value out of
// RFC 7047 §5.1 notation.
func (r *OvsResultRow) UnmarshalJSON(b []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(map[string]interface{}, len(raw))
	for key, val := range raw {
		converted, err := ovsValueToNative(val)
		if err != nil {
			return err
		}
		out[key] = converted
	}
	*r = out
	return nil
}
