package service

import "errors"

var (
	// ErrUserNotFound is returned when a referenced user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrExpenseNotFound is returned when a referenced expense does not exist
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrInvalidCredentials is returned when login fails; it deliberately
	// does not distinguish unknown email from wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
)
