// Package accounts is the server side of the account service: storage of
// account records and the operations exposed over gRPC and HTTP.
package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
)

// Record is a stored account: the public profile plus password material.
type Record struct {
	Profile account.Profile
	Salt    []byte
	Hash    []byte
}

// Repository stores account records. Lookups of unknown accounts return
// account.ErrAccountNotFound.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Record, error)
	GetByID(ctx context.Context, id int64) (*Record, error)
	Update(ctx context.Context, p account.Profile) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
