package ovsdb

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UUID is the RFC 7047 §5.1 <uuid> notation: a two-element JSON array
// `["uuid", "<uuid-string>"]`. The type itself was not present in the
// teacher's retrieved snapshot (see DESIGN.md); its shape is reconstructed
// from the call sites in notation.go/row.go/schema.go that reference it.
type UUID struct {
	GoUUID string
}

// MarshalJSON renders u as its wire notation.
func (u UUID) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{"uuid", u.GoUUID})
}

// UnmarshalJSON parses u from its wire notation.
func (u *UUID) UnmarshalJSON(b []byte) error {
	var pair [2]interface{}
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	tag, _ := pair[0].(string)
	if tag != "uuid" {
		return fmt.Errorf("ovsdb: not a uuid notation: %s", string(b))
	}
	s, ok := pair[1].(string)
	if !ok {
		return fmt.Errorf("ovsdb: uuid notation missing string value: %s", string(b))
	}
	u.GoUUID = s
	return nil
}

func (u UUID) String() string {
	return u.GoUUID
}

// NewNamedUUID generates a fresh random identifier suitable for an
// Operation's uuid-name field: RFC 7047 §5.2.1 lets an `insert` operation
// tag its not-yet-assigned row with an arbitrary name so later operations
// in the same transaction can reference it before it exists in the
// database. The name itself never appears on the wire as a <uuid>, so a
// plain random string (rather than the UUID type above) is all that is
// required; google/uuid is used rather than hand-rolling one.
func NewNamedUUID() string {
	return uuid.NewString()
}
