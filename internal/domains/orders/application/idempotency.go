package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

type normalizedMutation struct {
	OrderID string  `json:"orderId"`
	Status  *string `json:"status,omitempty"`
	Payment *bool   `json:"payment,omitempty"`
}

// FingerprintMutation builds a deterministic hash of a mutation (excluding the idempotency key).
func FingerprintMutation(orderID string, patch types.OrderPatch) (string, error) {
	normalized := normalizedMutation{OrderID: orderID, Payment: patch.Payment}
	if patch.Status != nil {
		status := string(*patch.Status)
		normalized.Status = &status
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// replayed reports whether key already applied this exact mutation. A key reused for another
// mutation is rejected. The returned hash is empty when no key was supplied.
func (s *Service) replayed(ctx context.Context, key, orderID string, patch types.OrderPatch) (string, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" || s.idempotency == nil {
		return "", false, nil
	}
	hash, err := FingerprintMutation(orderID, patch)
	if err != nil {
		return "", false, fmt.Errorf("fingerprint mutation: %w", err)
	}
	record, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("lookup idempotency key: %w", err)
	}
	if record == nil {
		return hash, false, nil
	}
	if record.RequestHash != hash || record.OrderID != orderID {
		return "", false, fmt.Errorf("%w: %w: %s", ErrRejected, ports.ErrIdempotencyConflict, key)
	}
	return hash, true, nil
}

// remember stores key after the backend accepted the mutation. Failure only costs a future replay.
func (s *Service) remember(ctx context.Context, key, orderID, hash string) {
	if hash == "" || s.idempotency == nil {
		return
	}
	_, err := s.idempotency.Save(context.WithoutCancel(ctx), ports.IdempotencyRecord{
		Key:         strings.TrimSpace(key),
		RequestHash: hash,
		OrderID:     orderID,
	})
	if err != nil && !errors.Is(err, ports.ErrIdempotencyConflict) {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to store idempotency key",
			slog.String("order.id", orderID),
			slog.String("error", err.Error()))
	}
}
