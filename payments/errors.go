package payments

import (
	"errors"
	"fmt"
)

const (
	errTokenCreation = "token creation failed"
	errTransaction   = "transaction failed"
	errMalformed     = "malformed gateway response"
	errUnavailable   = "gateway unavailable"
)

// GatewayError reports a failed exchange with the payment processor. Message
// is safe to log; it never contains card data.
type GatewayError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error { return e.Err }

func IsGatewayError(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr)
}
