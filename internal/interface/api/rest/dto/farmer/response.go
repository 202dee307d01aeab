package farmer

import "time"

type (
	Farmer struct {
		ID        string    `json:"id"`
		FullName  string    `json:"fullName"`
		CPF       string    `json:"cpf"`
		BirthDate *string   `json:"birthDate"`
		Phone     *string   `json:"phone"`
		Active    bool      `json:"active"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	Farmers      []Farmer
	ResponseData struct {
		Data Farmers `json:"data"`
	}
	CPFValidation struct {
		CPF       string `json:"cpf"`
		Valid     bool   `json:"valid"`
		Formatted string `json:"formatted,omitempty"`
	}
)
