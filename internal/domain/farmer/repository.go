package farmer

import (
	"context"
)

//go:generate mockgen -source=repository.go -destination=mocks/repository_mock.go -package=mocks

// Repository is the persistence capability the farmer use cases depend on.
//
// Lookups return (nil, nil) when nothing matches. Create must enforce cpf
// uniqueness atomically and report a violation as ErrDuplicateCPF. Delete is
// unconditional; deletion gating belongs to the caller.
type Repository interface {
	CreateFarmer(ctx context.Context, p Profile) (*Farmer, error)
	FetchFarmerByID(ctx context.Context, id ID) (*Farmer, error)
	FetchFarmerByCPF(ctx context.Context, cpf CPF) (*Farmer, error)
	UpdateFarmer(ctx context.Context, id ID, p Patch) (*Farmer, error)
	DeleteFarmer(ctx context.Context, id ID) error
	FetchFarmers(ctx context.Context, f Filter) (Farmers, error)
}
