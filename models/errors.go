package models

import (
	"errors"

	"github.com/palette-peek/api/colorconv"
)

// Errors surfaced to the user at the boundary nearest the action.
var (
	ErrInvalidFormat      = colorconv.ErrInvalidFormat
	ErrOutOfRange         = colorconv.ErrOutOfRange
	ErrUnauthenticated    = errors.New("no active session")
	ErrEmptyPalette       = errors.New("cannot save an empty palette")
	ErrDuplicateIdentity  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
