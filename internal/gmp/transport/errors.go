package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Reason classifies why a GMP request failed.
type Reason string

const (
	ReasonError        Reason = "error"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonTimeout      Reason = "timeout"
	ReasonCancel       Reason = "cancel"
)

// Rejection is returned for every failed GMP request.
type Rejection struct {
	Reason Reason
	// Command is the cmd parameter of the failed request.
	Command string
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	// Status is the status attribute of the GMP response element, if any.
	Status  int
	Message string
	Err     error
}

func (r *Rejection) Error() string {
	msg := r.Message
	if msg == "" && r.Err != nil {
		msg = r.Err.Error()
	}
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("gmp %s: %s: %s", r.Command, r.Reason, msg)
}

func (r *Rejection) Unwrap() error { return r.Err }

// ReasonOf returns the reason of a wrapped Rejection, or "" for other errors.
func ReasonOf(err error) Reason {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return ""
}

// IsUnauthorized reports whether err means the gsad session is gone.
func IsUnauthorized(err error) bool { return ReasonOf(err) == ReasonUnauthorized }

func requestRejection(cmd string, err error) *Rejection {
	rej := &Rejection{Reason: ReasonError, Command: cmd, Err: err}

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		rej.Reason = ReasonCancel
	case errors.Is(err, context.DeadlineExceeded):
		rej.Reason = ReasonTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		rej.Reason = ReasonTimeout
	}
	return rej
}
