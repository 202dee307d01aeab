package farmer

import "encoding/json"

type (
	CreateRequest struct {
		FullName  string  `json:"fullName" validate:"required,max=200"`
		CPF       string  `json:"cpf" validate:"required,max=32"`
		BirthDate *string `json:"birthDate" validate:"omitempty,isodate"`
		Phone     *string `json:"phone" validate:"omitempty,max=32"`
	}
	// UpdateRequest carries no cpf member; one sent by a client is ignored.
	UpdateRequest struct {
		FullName  *string        `json:"fullName" validate:"omitempty,max=200"`
		BirthDate *string        `json:"birthDate" validate:"omitempty,isodate"`
		Phone     NullableString `json:"phone" validate:"omitempty,max=32"`
		Active    *bool          `json:"active"`
	}

	// NullableString tells an absent member (Set false) from an explicit
	// null (Set true, Value nil).
	NullableString struct {
		Set   bool
		Value *string
	}
)

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n.Value = &s

	return nil
}

// Patch returns nil when the member was absent and "" for an explicit null.
func (n NullableString) Patch() *string {
	if !n.Set {
		return nil
	}
	if n.Value == nil {
		empty := ""
		return &empty
	}
	v := *n.Value
	return &v
}
