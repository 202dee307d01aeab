package farmer

import (
	"time"
)

type (
	Farmer struct {
		ID        string
		FullName  string
		CPF       string
		BirthDate *time.Time
		Phone     *string
		Active    bool

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Farmers []*Farmer
)

func (f *Farmer) scanDest() []any {
	return []any{
		&f.ID,
		&f.FullName,
		&f.CPF,
		&f.BirthDate,
		&f.Phone,
		&f.Active,

		&f.CreatedAt,
		&f.UpdatedAt,
	}
}
