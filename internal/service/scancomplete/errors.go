package scancomplete

import "errors"

var (
	// ErrInvalidParameters возвращается при отрицательных входных параметрах
	ErrInvalidParameters = errors.New("service.scancomplete: invalid parameters")
)
