package farmer

import (
	domain "agri-registry-api/internal/domain/farmer"
)

func fromDBModel(model *Farmer) (*domain.Farmer, error) {
	cpf, err := domain.RestoreCPF(model.CPF)
	if err != nil {
		return nil, err
	}

	var f = &domain.Farmer{
		ID:        model.ID,
		FullName:  model.FullName,
		CPF:       cpf,
		BirthDate: model.BirthDate,
		Phone:     model.Phone,
		Active:    model.Active,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	return f, nil
}

func fromDBModels(models Farmers) (domain.Farmers, error) {
	fs := make(domain.Farmers, len(models))
	for idx, m := range models {
		f, err := fromDBModel(m)
		if err != nil {
			return nil, err
		}
		fs[idx] = f
	}

	return fs, nil
}
