// Package errors provides structured error handling for rusby.
// It defines the closed error taxonomy shared by every layer of the wallet
// core, exit codes for the CLI, and helpers for adding context, structured
// details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
)

// Exit codes for the CLI.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input
	ExitAuth       = 3 // Authentication failed
	ExitNotFound   = 4 // Resource not found
	ExitPermission = 5 // Permission denied or insufficient funds
)

// WalletError is the structured error type for rusby.
type WalletError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *WalletError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *WalletError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for WalletError.
func (e *WalletError) Is(target error) bool {
	var t *WalletError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Error codes of the closed taxonomy.
const (
	CodeGeneral            = "GENERAL_ERROR"
	CodeFormat             = "FORMAT_ERROR"
	CodeChecksum           = "CHECKSUM_ERROR"
	CodeCrypto             = "CRYPTO_ERROR"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeUnsupportedChain   = "UNSUPPORTED_CHAIN"
	CodePassword           = "PASSWORD_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidAddress     = "INVALID_ADDRESS"
	CodeInvalidTransaction = "INVALID_TRANSACTION"
	CodeUnsupportedVersion = "UNSUPPORTED_VERSION"
	CodeNotFound           = "NOT_FOUND"
	CodeConfigInvalid      = "CONFIG_INVALID"
)

// Sentinel errors.
var (
	ErrGeneral = &WalletError{
		Code:     CodeGeneral,
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	// ErrFormat covers invalid hex, Base58, Bech32, Base32, Base64 and JSON input.
	ErrFormat = &WalletError{
		Code:     CodeFormat,
		Message:  "invalid format",
		ExitCode: ExitInput,
	}

	// ErrChecksum covers Base58Check, Bech32, StrKey and CRC16 mismatches.
	ErrChecksum = &WalletError{
		Code:     CodeChecksum,
		Message:  "checksum mismatch",
		ExitCode: ExitInput,
	}

	// ErrCrypto covers HMAC, key construction, signing and AEAD failures.
	ErrCrypto = &WalletError{
		Code:     CodeCrypto,
		Message:  "cryptographic operation failed",
		ExitCode: ExitGeneral,
	}

	ErrInsufficientFunds = &WalletError{
		Code:     CodeInsufficientFunds,
		Message:  "insufficient funds for transaction",
		ExitCode: ExitPermission,
	}

	ErrUnsupportedChain = &WalletError{
		Code:     CodeUnsupportedChain,
		Message:  "unsupported chain",
		ExitCode: ExitInput,
	}

	// ErrPassword is deliberately opaque: a wrong password and a corrupted
	// ciphertext produce the same error with no cause attached.
	ErrPassword = &WalletError{
		Code:     CodePassword,
		Message:  "decryption failed - wrong password or corrupted data",
		ExitCode: ExitAuth,
	}

	ErrInvalidInput = &WalletError{
		Code:     CodeInvalidInput,
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrInvalidAddress = &WalletError{
		Code:     CodeInvalidAddress,
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidTransaction = &WalletError{
		Code:     CodeInvalidTransaction,
		Message:  "invalid transaction",
		ExitCode: ExitInput,
	}

	ErrUnsupportedVersion = &WalletError{
		Code:     CodeUnsupportedVersion,
		Message:  "unsupported version",
		ExitCode: ExitInput,
	}

	ErrNotFound = &WalletError{
		Code:     CodeNotFound,
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &WalletError{
		Code:     CodeConfigInvalid,
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}
)

// New creates a new WalletError with the given code and message.
func New(code, message string) *WalletError {
	return &WalletError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var we *WalletError
	if errors.As(err, &we) {
		return &WalletError{
			Code:       we.Code,
			Message:    fmt.Sprintf("%s: %s", msg, we.Message),
			Details:    we.Details,
			Suggestion: we.Suggestion,
			Cause:      err,
			ExitCode:   we.ExitCode,
		}
	}

	return &WalletError{
		Code:     CodeGeneral,
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var we *WalletError
	if errors.As(err, &we) {
		return &WalletError{
			Code:       we.Code,
			Message:    we.Message,
			Details:    details,
			Suggestion: we.Suggestion,
			Cause:      we.Cause,
			ExitCode:   we.ExitCode,
		}
	}

	return &WalletError{
		Code:     CodeGeneral,
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var we *WalletError
	if errors.As(err, &we) {
		return &WalletError{
			Code:       we.Code,
			Message:    we.Message,
			Details:    we.Details,
			Suggestion: suggestion,
			Cause:      we.Cause,
			ExitCode:   we.ExitCode,
		}
	}

	return &WalletError{
		Code:       CodeGeneral,
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// WithCause attaches an underlying cause to a sentinel, keeping its code.
func WithCause(sentinel, cause error) error {
	if sentinel == nil {
		return cause
	}

	var we *WalletError
	if !errors.As(sentinel, &we) {
		return fmt.Errorf("%w: %w", sentinel, cause)
	}

	return &WalletError{
		Code:       we.Code,
		Message:    we.Message,
		Details:    we.Details,
		Suggestion: we.Suggestion,
		Cause:      cause,
		ExitCode:   we.ExitCode,
	}
}

// InsufficientFunds reports the amount a transaction needs against what is available.
func InsufficientFunds(required, available uint64) error {
	return WithDetails(ErrInsufficientFunds, map[string]string{
		"required":  strconv.FormatUint(required, 10),
		"available": strconv.FormatUint(available, 10),
	})
}

// InsufficientFundsBig is InsufficientFunds for amounts wider than 64 bits.
func InsufficientFundsBig(required, available *big.Int) error {
	return WithDetails(ErrInsufficientFunds, map[string]string{
		"required":  required.String(),
		"available": available.String(),
	})
}

// LengthMismatch reports a buffer whose length differs from the expected one.
func LengthMismatch(sentinel error, field string, expected, actual int) error {
	return WithDetails(sentinel, map[string]string{
		"field":    field,
		"expected": strconv.Itoa(expected),
		"actual":   strconv.Itoa(actual),
	})
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var we *WalletError
	if errors.As(err, &we) {
		return we.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var we *WalletError
	if errors.As(err, &we) {
		return we.Code
	}
	return CodeGeneral
}

// Detail returns a single detail value carried by err, if any.
func Detail(err error, key string) (string, bool) {
	var we *WalletError
	if !errors.As(err, &we) || we.Details == nil {
		return "", false
	}
	v, ok := we.Details[key]
	return v, ok
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
