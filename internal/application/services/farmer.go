package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"agri-registry-api/internal/application/ports"
	domain "agri-registry-api/internal/domain/farmer"
	"agri-registry-api/internal/infrastructure/mq"
	"agri-registry-api/internal/interface/api/rest/dto/farmer"
)

type FarmerService struct {
	farmerRepository domain.Repository
	events           ports.EventPublisher
	mCounter         *prometheus.CounterVec
}

// NewFarmerService builds the farmer use cases. events may be nil when
// publishing is disabled.
func NewFarmerService(
	farmerRepository domain.Repository,
	events ports.EventPublisher,
	mCounter *prometheus.CounterVec,
) ports.FarmerService {
	return &FarmerService{
		farmerRepository: farmerRepository,
		events:           events,
		mCounter:         mCounter,
	}
}

func (fs *FarmerService) CreateFarmer(ctx context.Context, in ports.CreateFarmerInput) (*domain.Farmer, error) {
	fullName := domain.NormalizeFullName(in.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: fullName is required", domain.ErrValidation)
	}

	cpf, err := domain.NewCPF(in.CPF)
	if err != nil {
		return nil, err
	}

	// Cheap early rejection only; the store's unique constraint is authoritative.
	existing, err := fs.farmerRepository.FetchFarmerByCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		fs.mCounter.WithLabelValues("farmer_duplicate_cpf_total").Inc()
		return nil, domain.ErrDuplicateCPF
	}

	f, err := fs.farmerRepository.CreateFarmer(ctx, domain.Profile{
		FullName:  fullName,
		CPF:       cpf,
		BirthDate: in.BirthDate,
		Phone:     domain.NormalizePhone(in.Phone),
		Active:    true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateCPF) {
			fs.mCounter.WithLabelValues("farmer_duplicate_cpf_total").Inc()
		}
		return nil, err
	}

	fs.publish(mq.ActionFarmerCreated, f)
	fs.mCounter.WithLabelValues("farmer_created_total").Inc()

	return f, nil
}

func (fs *FarmerService) FindFarmerByID(ctx context.Context, id domain.ID) (*domain.Farmer, error) {
	f, err := fs.farmerRepository.FetchFarmerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}

	return f, nil
}

func (fs *FarmerService) FindFarmerByCPF(ctx context.Context, rawCPF string) (*domain.Farmer, error) {
	cpf, err := domain.NewCPF(rawCPF)
	if err != nil {
		return nil, err
	}

	f, err := fs.farmerRepository.FetchFarmerByCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}

	return f, nil
}

func (fs *FarmerService) FindFarmers(ctx context.Context, in ports.ListFarmersInput) (domain.Farmers, error) {
	return fs.farmerRepository.FetchFarmers(ctx, domain.Filter{
		Name:   domain.NormalizeFullName(in.Name),
		CPF:    domain.NormalizeCPF(in.CPF),
		Active: in.Active,
	})
}

func (fs *FarmerService) UpdateFarmer(ctx context.Context, id domain.ID, in ports.UpdateFarmerInput) (*domain.Farmer, error) {
	patch := domain.Patch{
		BirthDate: in.BirthDate,
		Active:    in.Active,
	}
	if in.FullName != nil {
		name := domain.NormalizeFullName(*in.FullName)
		if name == "" {
			return nil, fmt.Errorf("%w: fullName must not be empty", domain.ErrValidation)
		}
		patch.FullName = &name
	}
	if in.Phone != nil {
		// empty clears the stored phone
		phone := ""
		if p := domain.NormalizePhone(in.Phone); p != nil {
			phone = *p
		}
		patch.Phone = &phone
	}

	if patch.IsEmpty() {
		return fs.FindFarmerByID(ctx, id)
	}

	f, err := fs.farmerRepository.UpdateFarmer(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}

	fs.publish(mq.ActionFarmerUpdated, f)
	fs.mCounter.WithLabelValues("farmer_updated_total").Inc()

	return f, nil
}

func (fs *FarmerService) ActivateFarmer(ctx context.Context, id domain.ID) (*domain.Farmer, error) {
	return fs.setActive(ctx, id, (*domain.Farmer).Activate, "farmer_activated_total")
}

func (fs *FarmerService) DeactivateFarmer(ctx context.Context, id domain.ID) (*domain.Farmer, error) {
	return fs.setActive(ctx, id, (*domain.Farmer).Deactivate, "farmer_deactivated_total")
}

func (fs *FarmerService) setActive(
	ctx context.Context,
	id domain.ID,
	transition func(*domain.Farmer),
	counter string,
) (*domain.Farmer, error) {
	f, err := fs.FindFarmerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	transition(f)
	active := f.Active

	updated, err := fs.farmerRepository.UpdateFarmer(ctx, id, domain.Patch{Active: &active})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	fs.publish(mq.ActionFarmerUpdated, updated)
	fs.mCounter.WithLabelValues(counter).Inc()

	return updated, nil
}

func (fs *FarmerService) DeleteFarmer(ctx context.Context, id domain.ID) error {
	// the deletion gate must see the stored state, never a cached copy
	f, err := store(fs.farmerRepository).FetchFarmerByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return domain.ErrNotFound
	}
	if !f.CanDelete() {
		return domain.ErrDeletionNotAllowed
	}

	if err = fs.farmerRepository.DeleteFarmer(ctx, id); err != nil {
		return err
	}

	fs.publish(mq.ActionFarmerDeleted, f)
	fs.mCounter.WithLabelValues("farmer_deleted_total").Inc()

	return nil
}

// store peels off read decorators such as the cache.
func store(repo domain.Repository) domain.Repository {
	for {
		u, ok := repo.(interface{ Unwrap() domain.Repository })
		if !ok {
			return repo
		}
		repo = u.Unwrap()
	}
}

func (fs *FarmerService) ValidateCPF(rawCPF string) ports.CPFValidation {
	digits := domain.NormalizeCPF(rawCPF)
	return ports.CPFValidation{
		CPF:   digits,
		Valid: domain.IsValidCPF(digits),
	}
}

func (fs *FarmerService) publish(action string, f *domain.Farmer) {
	if fs.events == nil {
		return
	}
	if !fs.events.Publish(mq.NewEvent(action, farmer.ToResponseFarmer(*f))) {
		fs.mCounter.WithLabelValues("farmer_event_dropped_total").Inc()
	}
}
