package user

import (
	"context"
	"errors"
)

var (
	ErrAddressMismatch = errors.New("provided address does not match the user's stored address")
)

// ErrNoAddressOnFile is the validator-facing name for a missing stored address.
var ErrNoAddressOnFile = ErrNoAddress

// AddressValidator checks a submitted shipping address against the user's
// stored address. Exact structural equality only: no fuzzy matching, no
// partial acceptance.
type AddressValidator struct {
	repo Repository
}

func NewAddressValidator(repo Repository) *AddressValidator {
	return &AddressValidator{repo: repo}
}

func (v *AddressValidator) Validate(ctx context.Context, userID string, submitted Address) error {
	stored, err := v.repo.GetAddress(ctx, userID)
	if err != nil {
		return err
	}
	if *stored != submitted {
		return ErrAddressMismatch
	}
	return nil
}
