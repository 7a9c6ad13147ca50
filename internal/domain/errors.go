package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrIngestionFailed = errors.New("ingestion failed")
)

var (
	ErrDuplicateEmail     = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrDuplicateSourceURL = fmt.Errorf("%w: source url already exists", ErrConflict)
)

// Token failures all satisfy errors.Is(err, ErrUnauthorized).
var (
	ErrTokenMalformed = fmt.Errorf("%w: malformed token", ErrUnauthorized)
	ErrTokenExpired   = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrTokenWrongType = fmt.Errorf("%w: wrong token type", ErrUnauthorized)
)
