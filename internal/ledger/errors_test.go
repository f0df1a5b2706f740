package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyTransportFailures(t *testing.T) {
	err := classify("queryHistory", status.Error(codes.Unavailable, "connection refused"))
	if err.Kind != KindUnavailable {
		t.Errorf("expected unavailable for grpc Unavailable, got %v", err.Kind)
	}

	err = classify("recordEntry/commit", status.Error(codes.DeadlineExceeded, "deadline exceeded"))
	if err.Kind != KindTimeout {
		t.Errorf("expected timeout for grpc DeadlineExceeded, got %v", err.Kind)
	}

	err = classify("recordEntry/commit", fmt.Errorf("waiting: %w", context.DeadlineExceeded))
	if err.Kind != KindTimeout {
		t.Errorf("expected timeout for context deadline, got %v", err.Kind)
	}

	err = classify("queryHistory", errors.New("socket closed"))
	if err.Kind != KindUnavailable {
		t.Errorf("expected unavailable for unclassified error, got %v", err.Kind)
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("handler: %w", &Error{Kind: KindRejected, Op: "recordEntry"})
	if !IsKind(err, KindRejected) {
		t.Error("expected wrapped ledger error to match its kind")
	}
	if IsKind(err, KindTimeout) {
		t.Error("kind match must be exact")
	}
	if IsKind(errors.New("plain"), KindRejected) {
		t.Error("plain errors are not ledger errors")
	}
}
