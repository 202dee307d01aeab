package farmer

import (
	"errors"
	"strings"
	"time"

	domain "agri-registry-api/internal/domain/farmer"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid birthDate format, want YYYY-MM-DD")

func ToResponseFarmer(fDomain domain.Farmer) Farmer {
	var f = Farmer{
		ID:        fDomain.ID,
		FullName:  fDomain.FullName,
		CPF:       fDomain.CPF.String(),
		Phone:     fDomain.Phone,
		Active:    fDomain.Active,
		CreatedAt: fDomain.CreatedAt,
		UpdatedAt: fDomain.UpdatedAt,
	}
	if fDomain.BirthDate != nil {
		d := fDomain.BirthDate.Format(DateLayout)
		f.BirthDate = &d
	}

	return f
}

func ToResponseFarmers(fsDomain domain.Farmers) Farmers {
	fs := make(Farmers, len(fsDomain))
	for idx, f := range fsDomain {
		fs[idx] = ToResponseFarmer(*f)
	}

	return fs
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and keeps only the calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseOptionalDate maps nil or blank to nil.
func ParseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}

	return &d, nil
}
