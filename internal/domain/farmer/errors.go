package farmer

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCPF         = errors.New("invalid cpf")
	ErrDuplicateCPF       = errors.New("a farmer with this cpf already exists")
	ErrNotFound           = errors.New("farmer not found")
	ErrDeletionNotAllowed = errors.New("only inactive farmers can be removed")
)
