package profile

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no profile exists for the requested user.
var ErrNotFound = errors.New("profile not found")

type Repo interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
}
