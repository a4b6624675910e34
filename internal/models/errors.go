package models

import (
	"errors"
	"fmt"
)

// ErrorKind tags a bot failure.
type ErrorKind string

const (
	KindRetrieval  ErrorKind = "retrieval"
	KindFetch      ErrorKind = "fetch"
	KindSizeLimit  ErrorKind = "size_limit"
	KindEmbed      ErrorKind = "embed"
	KindUnexpected ErrorKind = "unexpected"
)

// genericDetail is shown to users for failures that carry no safe detail.
const genericDetail = "kutilmagan xatolik"

// BotError is a failure of a single user operation.
// Detail is safe to show to the user; Err is the internal cause and is only logged.
type BotError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Detail)
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// NewError creates a new bot error.
func NewError(kind ErrorKind, detail string, err error) *BotError {
	return &BotError{
		Kind:   kind,
		Detail: detail,
		Err:    err,
	}
}

func RetrievalError(detail string, err error) *BotError {
	return NewError(KindRetrieval, detail, err)
}

func FetchError(detail string, err error) *BotError {
	return NewError(KindFetch, detail, err)
}

func SizeLimitError(detail string, err error) *BotError {
	return NewError(KindSizeLimit, detail, err)
}

func EmbedError(detail string, err error) *BotError {
	return NewError(KindEmbed, detail, err)
}

func UnexpectedError(detail string, err error) *BotError {
	return NewError(KindUnexpected, detail, err)
}

// KindOf reports the kind of err. Errors outside the taxonomy are unexpected.
func KindOf(err error) ErrorKind {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.Kind
	}
	return KindUnexpected
}

// UserDetail returns the user-facing part of err.
func UserDetail(err error) string {
	var botErr *BotError
	if errors.As(err, &botErr) && botErr.Detail != "" {
		return botErr.Detail
	}
	return genericDetail
}
