package ports

import (
	"context"
	"time"

	"agri-registry-api/internal/domain/farmer"
)

type (
	CreateFarmerInput struct {
		FullName  string
		CPF       string
		BirthDate *time.Time
		Phone     *string
	}
	// UpdateFarmerInput has no CPF: the identifier is immutable.
	UpdateFarmerInput struct {
		FullName  *string
		BirthDate *time.Time
		Phone     *string
		Active    *bool
	}
	ListFarmersInput struct {
		Name   string
		CPF    string
		Active *bool
	}
	CPFValidation struct {
		CPF   string
		Valid bool
	}
)

type FarmerService interface {
	CreateFarmer(ctx context.Context, in CreateFarmerInput) (*farmer.Farmer, error)
	FindFarmerByID(ctx context.Context, id farmer.ID) (*farmer.Farmer, error)
	FindFarmerByCPF(ctx context.Context, rawCPF string) (*farmer.Farmer, error)
	FindFarmers(ctx context.Context, in ListFarmersInput) (farmer.Farmers, error)
	UpdateFarmer(ctx context.Context, id farmer.ID, in UpdateFarmerInput) (*farmer.Farmer, error)
	ActivateFarmer(ctx context.Context, id farmer.ID) (*farmer.Farmer, error)
	DeactivateFarmer(ctx context.Context, id farmer.ID) (*farmer.Farmer, error)
	DeleteFarmer(ctx context.Context, id farmer.ID) error
	ValidateCPF(rawCPF string) CPFValidation
}
