package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals a malformed request.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrRejected signals a local rejection: nothing was sent to the order backend.
	ErrRejected = errors.New("order mutation rejected")
	// ErrMutationInFlight is wrapped by ErrRejected while another mutation for the same order runs.
	ErrMutationInFlight = errors.New("another mutation for this order is in flight")
	// ErrMutationFailed signals that the backend call failed and the cache was resynced.
	ErrMutationFailed = errors.New("order mutation failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrIllegalTransition) ||
		errors.Is(err, domain.ErrPaymentLocked) {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	if errors.Is(err, domain.ErrUnknownStatus) ||
		errors.Is(err, domain.ErrEmptyOrderID) ||
		errors.Is(err, domain.ErrNegativeTaxRate) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// mutationFailed keeps the backend cause and any resync failure visible to errors.Is.
func mutationFailed(cause, refreshErr error) error {
	err := fmt.Errorf("%w: %w", ErrMutationFailed, cause)
	if refreshErr != nil {
		return errors.Join(err, fmt.Errorf("resync after failed mutation: %w", refreshErr))
	}
	return err
}
