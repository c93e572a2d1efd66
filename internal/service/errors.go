package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the quiz services. Handlers translate these to
// HTTP statuses with errors.Is; anything not listed here is a storage failure
// and is surfaced unmodified.
var (
	// ErrQuizNotFound indicates the referenced quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrResultNotFound indicates the referenced attempt does not exist.
	ErrResultNotFound = errors.New("result not found")
	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidInput marks caller mistakes: malformed answers, foreign
	// question references, bad page sizes, missing paid-quiz amounts.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataIntegrity marks an internal invariant violation. It is never
	// coerced into a valid-looking result.
	ErrDataIntegrity = errors.New("data integrity violation")
	// ErrPaymentRequired gates submissions to paid quizzes without a
	// completed payment.
	ErrPaymentRequired = errors.New("payment required")
	// ErrQuizNotReady indicates the quiz's question set does not match its
	// configured question count yet.
	ErrQuizNotReady = errors.New("quiz question set incomplete")
)

func invalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func integrityErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDataIntegrity, fmt.Sprintf(format, args...))
}
