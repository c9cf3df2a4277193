package types

import (
	"errors"
	"fmt"
)

// ErrorKind tags an error with the class the HTTP layer translates to a status code.
type ErrorKind string

const (
	KindUnknown    ErrorKind = "unknown"
	KindValidation ErrorKind = "validation"
	KindTooLarge   ErrorKind = "too_large"
	KindDecode     ErrorKind = "decode"
	KindInference  ErrorKind = "inference"
	KindCleanup    ErrorKind = "cleanup"
)

// Error is the tagged error passed between ingestion, the model provider
// and the handlers. Op names the failing step, e.g. "transcribe".
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind) + " error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindDecode}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func TooLarge(limit int64) error {
	return &Error{Kind: KindTooLarge, Msg: fmt.Sprintf("file too large (limit %d bytes)", limit)}
}

func Decode(err error) error {
	return &Error{Kind: KindDecode, Op: "decode", Err: err}
}

func Inference(op string, err error) error {
	return &Error{Kind: KindInference, Op: op, Err: err}
}

func Cleanup(path string, err error) error {
	return &Error{Kind: KindCleanup, Op: "cleanup", Msg: "remove " + path, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnknown
}
