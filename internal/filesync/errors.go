package filesync

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
)

var (
	ErrLocalFileMissing = errors.New("filesync: local file missing")
	ErrNotMasterFile    = errors.New("filesync: not a master file")
	ErrNoFileID         = errors.New("filesync: file has no remote id")
	ErrRetriesExhausted = errors.New("filesync: request timed out too many times")
)

// ErrorKind splits transport failures into the ones worth retrying and the rest.
type ErrorKind int

const (
	ErrorKindOther ErrorKind = iota
	ErrorKindTimeout
)

func (k ErrorKind) String() string {
	if k == ErrorKindTimeout {
		return "timeout"
	}
	return "other"
}

// TransportError lets a transport state the kind of a failure explicitly.
type TransportError struct {
	Kind ErrorKind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTimeoutError wraps err as a retryable timeout.
func NewTimeoutError(err error) error {
	return &TransportError{Kind: ErrorKindTimeout, Err: err}
}

// ClassifyError returns ErrorKindTimeout for connect/read timeouts and ErrorKindOther
// for everything else, including malformed responses.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorKindOther
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrorKindTimeout
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrorKindTimeout
	}

	return ErrorKindOther
}
