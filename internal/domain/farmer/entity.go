package farmer

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// MaxListResults caps every List result.
const MaxListResults = 200

type (
	ID     = string
	Farmer struct {
		ID        ID
		FullName  string
		CPF       CPF
		BirthDate *time.Time
		Phone     *string
		Active    bool

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Farmers []*Farmer

	// Profile is what a Store needs to create a Farmer.
	Profile struct {
		FullName  string
		CPF       CPF
		BirthDate *time.Time
		Phone     *string
		Active    bool
	}

	// Patch holds the updatable attributes; nil means "leave as is".
	// A non-nil empty Phone clears the stored phone.
	// There is no CPF: it never changes after creation.
	Patch struct {
		FullName  *string
		BirthDate *time.Time
		Phone     *string
		Active    *bool
	}

	// Filter narrows List. Zero values are ignored.
	Filter struct {
		// Name is matched case-insensitively as a substring of FullName.
		Name string
		// CPF is digits only: 11 digits match exactly, fewer match as a prefix.
		CPF    string
		Active *bool
	}
)

func (f *Farmer) CanDelete() bool { return !f.Active }

func (f *Farmer) Activate() { f.Active = true }

func (f *Farmer) Deactivate() { f.Active = false }

// NormalizeFullName trims and NFC-normalizes a name.
func NormalizeFullName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizePhone trims a phone; blank becomes nil.
func NormalizePhone(s *string) *string {
	if s == nil {
		return nil
	}
	p := strings.TrimSpace(*s)
	if p == "" {
		return nil
	}
	return &p
}

func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.BirthDate == nil && p.Phone == nil && p.Active == nil
}
