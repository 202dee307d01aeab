package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	domain "agri-registry-api/internal/domain/farmer"
)

const keyPrefix = "agriregistry:farmer:"

type (
	// FarmerRepository caches FetchFarmerByID in front of another Repository.
	// Writes through it drop the cached entry.
	FarmerRepository struct {
		domain.Repository
		backend  Backend
		ttl      time.Duration
		log      *zap.Logger
		mCounter *prometheus.CounterVec
	}
	record struct {
		ID        string     `json:"id"`
		FullName  string     `json:"full_name"`
		CPF       string     `json:"cpf"`
		BirthDate *time.Time `json:"birth_date,omitempty"`
		Phone     *string    `json:"phone,omitempty"`
		Active    bool       `json:"active"`
		CreatedAt time.Time  `json:"created_at"`
		UpdatedAt time.Time  `json:"updated_at"`
	}
)

var _ domain.Repository = (*FarmerRepository)(nil)

func NewFarmerRepository(
	next domain.Repository,
	backend Backend,
	ttl time.Duration,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) *FarmerRepository {
	return &FarmerRepository{
		Repository: next,
		backend:    backend,
		ttl:        ttl,
		log:        logger,
		mCounter:   mCounter,
	}
}

// Unwrap returns the repository behind the cache.
func (r *FarmerRepository) Unwrap() domain.Repository { return r.Repository }

func key(id domain.ID) string { return keyPrefix + id }

func (r *FarmerRepository) FetchFarmerByID(ctx context.Context, id domain.ID) (*domain.Farmer, error) {
	if f := r.lookup(ctx, id); f != nil {
		r.mCounter.WithLabelValues("cache_hit_total").Inc()
		return f, nil
	}
	r.mCounter.WithLabelValues("cache_miss_total").Inc()

	f, err := r.Repository.FetchFarmerByID(ctx, id)
	if err != nil || f == nil {
		return f, err
	}
	r.store(ctx, f)

	return f, nil
}

func (r *FarmerRepository) UpdateFarmer(ctx context.Context, id domain.ID, p domain.Patch) (*domain.Farmer, error) {
	f, err := r.Repository.UpdateFarmer(ctx, id, p)
	r.invalidate(ctx, id)
	return f, err
}

func (r *FarmerRepository) DeleteFarmer(ctx context.Context, id domain.ID) error {
	err := r.Repository.DeleteFarmer(ctx, id)
	r.invalidate(ctx, id)
	return err
}

// cache failures degrade to the underlying repository
func (r *FarmerRepository) lookup(ctx context.Context, id domain.ID) *domain.Farmer {
	b, ok, err := r.backend.Get(ctx, key(id))
	if err != nil {
		r.log.Warn("cache get failed", zap.String("farmer_id", id), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var rec record
	if err = json.Unmarshal(b, &rec); err != nil {
		r.log.Warn("cache entry corrupted", zap.String("farmer_id", id), zap.Error(err))
		return nil
	}
	f, err := rec.toFarmer()
	if err != nil {
		r.log.Warn("cache entry corrupted", zap.String("farmer_id", id), zap.Error(err))
		return nil
	}

	return f
}

func (r *FarmerRepository) store(ctx context.Context, f *domain.Farmer) {
	b, err := json.Marshal(toRecord(f))
	if err != nil {
		r.log.Warn("cache encode failed", zap.String("farmer_id", f.ID), zap.Error(err))
		return
	}
	if err = r.backend.Set(ctx, key(f.ID), b, r.ttl); err != nil {
		r.log.Warn("cache set failed", zap.String("farmer_id", f.ID), zap.Error(err))
	}
}

func (r *FarmerRepository) invalidate(ctx context.Context, id domain.ID) {
	if err := r.backend.Delete(ctx, key(id)); err != nil {
		r.log.Warn("cache delete failed", zap.String("farmer_id", id), zap.Error(err))
	}
}

func toRecord(f *domain.Farmer) record {
	return record{
		ID:        f.ID,
		FullName:  f.FullName,
		CPF:       f.CPF.String(),
		BirthDate: f.BirthDate,
		Phone:     f.Phone,
		Active:    f.Active,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (rec record) toFarmer() (*domain.Farmer, error) {
	cpf, err := domain.RestoreCPF(rec.CPF)
	if err != nil {
		return nil, err
	}

	return &domain.Farmer{
		ID:        rec.ID,
		FullName:  rec.FullName,
		CPF:       cpf,
		BirthDate: rec.BirthDate,
		Phone:     rec.Phone,
		Active:    rec.Active,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}
