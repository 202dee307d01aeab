// Package farmer is an in-process farmer store. It backs STORE_DRIVER=memory
// and the end-to-end tests of the farmer use cases.
package farmer

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	domain "agri-registry-api/internal/domain/farmer"
)

type Repository struct {
	mu      sync.RWMutex
	byID    map[domain.ID]*domain.Farmer
	byCPF   map[string]domain.ID
	nowFunc func() time.Time
}

type Option func(*Repository)

// WithNowFunc overrides the clock. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(r *Repository) {
		r.nowFunc = nowFunc
	}
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		byID:    make(map[domain.ID]*domain.Farmer),
		byCPF:   make(map[string]domain.ID),
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Repository) CreateFarmer(_ context.Context, p domain.Profile) (*domain.Farmer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byCPF[p.CPF.String()]; taken {
		return nil, domain.ErrDuplicateCPF
	}

	now := r.nowFunc()
	f := &domain.Farmer{
		ID:        uuid.NewString(),
		FullName:  p.FullName,
		CPF:       p.CPF,
		BirthDate: copyTime(p.BirthDate),
		Phone:     copyString(p.Phone),
		Active:    p.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byID[f.ID] = f
	r.byCPF[p.CPF.String()] = f.ID

	return clone(f), nil
}

func (r *Repository) FetchFarmerByID(_ context.Context, id domain.ID) (*domain.Farmer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return nil, nil
	}

	return clone(f), nil
}

func (r *Repository) FetchFarmerByCPF(_ context.Context, cpf domain.CPF) (*domain.Farmer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCPF[cpf.String()]
	if !ok {
		return nil, nil
	}

	return clone(r.byID[id]), nil
}

func (r *Repository) UpdateFarmer(_ context.Context, id domain.ID, p domain.Patch) (*domain.Farmer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.byID[id]
	if !ok {
		return nil, nil
	}

	if p.FullName != nil {
		f.FullName = *p.FullName
	}
	if p.BirthDate != nil {
		f.BirthDate = copyTime(p.BirthDate)
	}
	if p.Phone != nil {
		f.Phone = domain.NormalizePhone(p.Phone)
	}
	if p.Active != nil {
		f.Active = *p.Active
	}
	f.UpdatedAt = r.nowFunc()

	return clone(f), nil
}

func (r *Repository) DeleteFarmer(_ context.Context, id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.byID[id]; ok {
		delete(r.byCPF, f.CPF.String())
		delete(r.byID, id)
	}

	return nil
}

func (r *Repository) FetchFarmers(_ context.Context, filter domain.Filter) (domain.Farmers, error) {
	r.mu.RLock()
	out := make(domain.Farmers, 0, len(r.byID))
	for _, f := range r.byID {
		if matches(f, filter) {
			out = append(out, clone(f))
		}
	}
	r.mu.RUnlock()

	// a Collator is not safe for concurrent use
	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		if c := col.CompareString(out[i].FullName, out[j].FullName); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})

	if len(out) > domain.MaxListResults {
		out = out[:domain.MaxListResults]
	}

	return out, nil
}

func matches(f *domain.Farmer, filter domain.Filter) bool {
	if filter.Name != "" &&
		!strings.Contains(strings.ToLower(f.FullName), strings.ToLower(filter.Name)) {
		return false
	}
	if filter.CPF != "" {
		cpf := f.CPF.String()
		if len(filter.CPF) >= len(cpf) {
			if cpf != filter.CPF {
				return false
			}
		} else if !strings.HasPrefix(cpf, filter.CPF) {
			return false
		}
	}
	if filter.Active != nil && f.Active != *filter.Active {
		return false
	}

	return true
}

func clone(f *domain.Farmer) *domain.Farmer {
	c := *f
	c.BirthDate = copyTime(f.BirthDate)
	c.Phone = copyString(f.Phone)
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
