package handlers

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Failure kinds. Every kind is reported to the caller the same way; the
// kind only drives logging.
var (
	ErrInvalidInput = stderrors.New("InvalidInput")
	ErrParse        = stderrors.New("ParseError")
	ErrStorage      = stderrors.New("StorageError")
)

// HandlerError is a classified operation failure
type HandlerError struct {
	Kind error
	Msg  string
	Err  error
}

func (e *HandlerError) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

func (e *HandlerError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidInput(msg string) error {
	return errors.WithStack(&HandlerError{Kind: ErrInvalidInput, Msg: msg})
}

func parseError(err error) error {
	return errors.WithStack(&HandlerError{Kind: ErrParse, Msg: "Invalid JSON body", Err: err})
}

func storageError(err error) error {
	return errors.WithStack(&HandlerError{Kind: ErrStorage, Err: err})
}

// kindOf names the failure kind for logs
func kindOf(err error) string {
	for _, kind := range []error{ErrInvalidInput, ErrParse, ErrStorage} {
		if stderrors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "Unknown"
}
