package picker

import (
	"errors"
	"fmt"
)

var (
	// ErrNilGateway is returned by New when no gateway is supplied.
	ErrNilGateway = errors.New("picker: gateway is required")

	// ErrTokenClientNotReady is returned when a token is requested before the
	// client library has loaded.
	ErrTokenClientNotReady = errors.New("picker: token client not initialised")
)

// TokenError reports a token response that carried an error field.
type TokenError struct {
	Code        string
	Description string
	URI         string
}

func (e *TokenError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("token request failed: %s: %s", e.Code, e.Description)
	}
	return "token request failed: " + e.Code
}

func tokenError(resp TokenResponse) error {
	if resp.Error == "" {
		return nil
	}
	return &TokenError{Code: resp.Error, Description: resp.ErrorDescription, URI: resp.ErrorURI}
}
