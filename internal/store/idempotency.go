package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// Submission is the recorded state of one prescription write keyed by its
// idempotency token. A completed submission holds the ledger transaction id
// so a duplicate request can be answered without a second ledger call.
type Submission struct {
	Key           string
	SubjectID     string
	RequestHash   string
	TransactionID string
	Status        string
	ExpiresAt     time.Time
}

const (
	SubmissionPending   = "pending"
	SubmissionCompleted = "completed"
	SubmissionFailed    = "failed"

	submissionTTL = 24 * time.Hour
)

// HashRequest fingerprints a request body so the same idempotency key
// cannot be reused for different content.
func HashRequest(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// BeginSubmission claims the idempotency key for this request. When a live
// prior submission exists it is returned and the caller decides; failed and
// expired records are reclaimed in place.
func (s *Store) BeginSubmission(ctx context.Context, key, subjectID, requestHash string) (*Submission, error) {
	prior, err := s.lookupSubmission(ctx, key)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		if prior.Status != SubmissionFailed && time.Now().Before(prior.ExpiresAt) {
			return prior, nil
		}
		// Reclaim: the earlier attempt failed or the record expired.
		_, err = s.db.ExecContext(ctx,
			`UPDATE prescription_submissions
			 SET subject_id = $2, request_hash = $3, transaction_id = NULL, status = $4, created_at = CURRENT_TIMESTAMP, expires_at = $5
			 WHERE key = $1`,
			key, subjectID, requestHash, SubmissionPending, time.Now().Add(submissionTTL),
		)
		if err != nil {
			return nil, fmt.Errorf("reclaiming submission %s: %v", key, err)
		}
		return nil, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO prescription_submissions (key, subject_id, request_hash, status, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		key, subjectID, requestHash, SubmissionPending, time.Now().Add(submissionTTL),
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race to a concurrent duplicate.
			return s.lookupSubmission(ctx, key)
		}
		return nil, fmt.Errorf("storing submission %s: %v", key, err)
	}
	return nil, nil
}

// CompleteSubmission records the committed transaction id for the key.
func (s *Store) CompleteSubmission(ctx context.Context, key, transactionID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE prescription_submissions SET status = $2, transaction_id = $3 WHERE key = $1",
		key, SubmissionCompleted, transactionID,
	)
	if err != nil {
		return fmt.Errorf("completing submission %s: %v", key, err)
	}
	return nil
}

// FailSubmission marks the key reclaimable after a ledger failure.
func (s *Store) FailSubmission(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE prescription_submissions SET status = $2 WHERE key = $1",
		key, SubmissionFailed,
	)
	if err != nil {
		return fmt.Errorf("failing submission %s: %v", key, err)
	}
	return nil
}

func (s *Store) lookupSubmission(ctx context.Context, key string) (*Submission, error) {
	var sub Submission
	var transactionID sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT key, subject_id, request_hash, transaction_id, status, expires_at FROM prescription_submissions WHERE key = $1",
		key,
	).Scan(&sub.Key, &sub.SubjectID, &sub.RequestHash, &transactionID, &sub.Status, &sub.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up submission %s: %v", key, err)
	}
	sub.TransactionID = transactionID.String
	return &sub, nil
}
