package domain

import "errors"

// Ошибки бизнес-логики. Хендлеры мапят их на HTTP-статусы через errors.Is.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrForbidden       = errors.New("user not authorized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmailTaken      = errors.New("email already registered")
	ErrBadCredentials  = errors.New("invalid email or password")
)
