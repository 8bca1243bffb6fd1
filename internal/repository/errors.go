package repository

import "errors"

var (
	ErrNotFound = errors.New("transaction not found")
	ErrConflict = errors.New("transaction already exists")
)
