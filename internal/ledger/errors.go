package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies a ledger failure for the caller. The service never retries
// on its own: a state-changing call is not safe to resubmit blindly.
type Kind int

const (
	// KindUnavailable: the transport to the ledger node could not be
	// established or the node did not accept the call.
	KindUnavailable Kind = iota
	// KindRejected: the node accepted the call but the history program
	// refused it (endorsement failure or invalidated transaction).
	KindRejected
	// KindTimeout: the transaction was submitted but confirmation did not
	// arrive within the bounded wait.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "ledger unavailable"
	case KindRejected:
		return "ledger rejected"
	case KindTimeout:
		return "ledger timeout"
	}
	return "unknown"
}

// Error wraps a ledger node failure with its classification and the
// operation that produced it. The wrapped message may carry ledger node
// diagnostic text but never key material.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("ledger: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a ledger error of the given kind.
func IsKind(err error, kind Kind) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == kind
}

// classify maps gateway and gRPC failures onto the error taxonomy.
func classify(op string, err error) *Error {
	var (
		endorse      *client.EndorseError
		submit       *client.SubmitError
		commitStatus *client.CommitStatusError
	)

	switch {
	case errors.As(err, &endorse):
		// Endorsement simulates the call; anything other than a transport
		// fault means the program itself refused the input.
		if status.Code(endorse) == codes.Unavailable {
			return &Error{Kind: KindUnavailable, Op: op, Err: err}
		}
		return &Error{Kind: KindRejected, Op: op, Err: err}
	case errors.As(err, &submit):
		return &Error{Kind: KindUnavailable, Op: op, Err: err}
	case errors.As(err, &commitStatus):
		if errors.Is(err, context.DeadlineExceeded) || status.Code(commitStatus) == codes.DeadlineExceeded {
			return &Error{Kind: KindTimeout, Op: op, Err: err}
		}
		return &Error{Kind: KindUnavailable, Op: op, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) || status.Code(err) == codes.DeadlineExceeded {
		return &Error{Kind: KindTimeout, Op: op, Err: err}
	}
	return &Error{Kind: KindUnavailable, Op: op, Err: err}
}
