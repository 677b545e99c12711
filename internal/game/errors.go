package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrNotFound           = errors.New("not_found")
	ErrTableFull          = errors.New("table_full")
	ErrSeatTaken          = errors.New("seat_taken")
	ErrTournamentFull     = errors.New("tournament_full")
	ErrRegistrationClosed = errors.New("registration_closed")
	ErrBetOutOfRange      = errors.New("bet_out_of_range")
	ErrNotSeated          = errors.New("not_seated")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
