package api

import (
	"encoding/json"
	"fmt"

	"github.com/shoestore/storefront/internal/domain/shared"
)

// errorBody is the error envelope the platform API returns.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// wrapTransport wraps a transport-level failure (connection refused, timeout,
// context cancellation) in the NetworkError sentinel.
func wrapTransport(err error) error {
	return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
}

// mapStatusError maps an HTTP error status onto the domain taxonomy,
// preserving the server's message when one is present.
func mapStatusError(status int, body []byte) error {
	msg := serverMessage(body)

	var sentinel *shared.DomainError
	switch {
	case status == 401:
		sentinel = shared.ErrUnauthorized
	case status == 403:
		sentinel = shared.ErrForbidden
	case status == 404:
		sentinel = shared.ErrNotFound
	case status == 409:
		sentinel = shared.ErrStockConflict
	case status == 400 || status == 422:
		sentinel = shared.ErrValidation
	case status >= 500:
		sentinel = shared.ErrNetwork
	default:
		sentinel = shared.ErrValidation
	}

	if msg != "" {
		return fmt.Errorf("%w: %s", sentinel, msg)
	}
	return fmt.Errorf("%w: HTTP %d", sentinel, status)
}

func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Error != "" {
		return eb.Error
	}
	return eb.Message
}
