// Package errors defines the error taxonomy shared by the portfolio engine.
//
// Every operation boundary surfaces exactly one of these categories:
// validation failures (rejected before any backend call), backend failures
// (persistence call failed, state unchanged), fetch failures (price provider
// unreachable), and not-found (provider answered but has no entry).
package errors

import (
	"errors"
	"fmt"
)

// ErrValidation reports input rejected before any backend call was made.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// ErrBackend reports a failed persistence call. The in-memory state is left
// unchanged when this is returned.
type ErrBackend struct {
	Op  string
	Err error
}

func (e *ErrBackend) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *ErrBackend) Unwrap() error { return e.Err }

// ErrFetch reports that the price provider was unreachable or errored.
// The price cache is left unchanged.
type ErrFetch struct {
	Asset string
	Err   error
}

func (e *ErrFetch) Error() string {
	return fmt.Sprintf("fetch price for %s: %v", e.Asset, e.Err)
}

func (e *ErrFetch) Unwrap() error { return e.Err }

// ErrPriceNotFound reports that the provider responded but has no entry for
// the asset. Distinguished from ErrFetch: the transport worked, the key is
// simply unknown to the provider.
type ErrPriceNotFound struct {
	Asset string
}

func (e *ErrPriceNotFound) Error() string {
	return fmt.Sprintf("price not found for %s: make sure the name is a valid CoinGecko id", e.Asset)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ErrValidation
	return errors.As(err, &ve)
}

// IsBackend reports whether err is a backend error.
func IsBackend(err error) bool {
	var be *ErrBackend
	return errors.As(err, &be)
}

// IsFetch reports whether err is a price fetch transport error.
func IsFetch(err error) bool {
	var fe *ErrFetch
	return errors.As(err, &fe)
}

// IsPriceNotFound reports whether err is a provider not-found response.
func IsPriceNotFound(err error) bool {
	var ne *ErrPriceNotFound
	return errors.As(err, &ne)
}
