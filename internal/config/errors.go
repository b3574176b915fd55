package config

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no stored source matches the lookup.
	ErrNotFound = errors.New("source not found")

	// ErrSourceExists is returned when a source name is already taken.
	ErrSourceExists = errors.New("source already exists")
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
