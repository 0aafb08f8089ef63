package session

import "errors"

var (
	// ErrStorage marks a credential store read, write or remove that did not complete.
	ErrStorage = errors.New("credential storage failure")

	// ErrMalformedRecord marks a persisted profile that does not decode.
	ErrMalformedRecord = errors.New("malformed credential record")

	// ErrContractViolation marks an operation invoked in a state that does not allow it.
	ErrContractViolation = errors.New("session contract violation")
)
