package farmer

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	domain "agri-registry-api/internal/domain/farmer"
)

type farmerDB struct {
	ID        primitive.ObjectID `bson:"_id"`
	FullName  string             `bson:"fullName"`
	CPF       string             `bson:"cpf"`
	BirthDate *time.Time         `bson:"birthDate,omitempty"`
	Phone     *string            `bson:"phone,omitempty"`
	Active    bool               `bson:"active"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func fromDBModel(m *farmerDB) (*domain.Farmer, error) {
	cpf, err := domain.RestoreCPF(m.CPF)
	if err != nil {
		return nil, err
	}

	return &domain.Farmer{
		ID:        m.ID.Hex(),
		FullName:  m.FullName,
		CPF:       cpf,
		BirthDate: m.BirthDate,
		Phone:     m.Phone,
		Active:    m.Active,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func fromDBModels(ms []*farmerDB) (domain.Farmers, error) {
	fs := make(domain.Farmers, len(ms))
	for i, m := range ms {
		f, err := fromDBModel(m)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}

	return fs, nil
}
