package satchel

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownType indicates the document names an item type the catalog does not know.
	ErrUnknownType = errors.New("unknown item type")

	// ErrUnknownEnchantment indicates an enchantment entry names an unknown enchantment.
	ErrUnknownEnchantment = errors.New("unknown enchantment")

	// ErrUnknownPotionEffect indicates a custom effect entry names an unknown effect type.
	ErrUnknownPotionEffect = errors.New("unknown potion effect")

	// ErrMissingField indicates a required key is absent.
	ErrMissingField = errors.New("missing field")

	// ErrMalformedDocument indicates the input is not a well formed item document.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// ParseError is returned for every decode failure.
// Message is the human readable description; Err is one of the sentinel
// errors above and Cause, when set, is the underlying failure.
type ParseError struct {
	Err     error
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal failure.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func parseErrorf(sentinel error, format string, args ...any) error {
	return &ParseError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// wrapParseError converts any error into a *ParseError. Parse errors pass
// through unchanged; anything else becomes ErrMalformedDocument carrying
// the original message.
func wrapParseError(err error) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return &ParseError{
		Err:     ErrMalformedDocument,
		Message: err.Error(),
		Cause:   err,
	}
}

func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
