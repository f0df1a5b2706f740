package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/clinicbackend/internal/ledger"
	"github.com/clinicbackend/internal/models"
	"github.com/clinicbackend/internal/store"
)

// PrescriptionRequest is the typed input schema for POST /api/prescription.
// The doctor's name is never taken from the body; it comes from the
// authenticated principal.
type PrescriptionRequest struct {
	PatientID      string `json:"patientId"`
	Disease        string `json:"disease"`
	Content        string `json:"content"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type PrescriptionResponse struct {
	TransactionID string `json:"transaction_id"`
}

// HandlePrescription serves POST /api/prescription: gate, role check,
// validation, idempotency claim, then exactly one ledger write. Validation
// failures never reach the ledger.
func (a *App) HandlePrescription(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	principal, reject := a.authenticate(request, models.RoleDoctor)
	if reject != nil {
		return *reject, nil
	}

	var req PrescriptionRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(400, "INVALID_REQUEST", "invalid JSON in request body"), nil
	}
	for name, value := range map[string]string{
		"patientId": req.PatientID,
		"disease":   req.Disease,
		"content":   req.Content,
	} {
		if value == "" {
			return errorResponse(400, "VALIDATION_ERROR", fmt.Sprintf("%s is required", name)), nil
		}
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	requestHash := store.HashRequest(req.PatientID, req.Disease, req.Content)

	prior, err := a.Submissions.BeginSubmission(ctx, key, principal.SubjectID, requestHash)
	if err != nil {
		log.Printf("prescription: begin submission: %v", err)
		return errorResponse(500, "PERSISTENCE_ERROR", "error recording submission"), nil
	}
	if prior != nil {
		if prior.RequestHash != requestHash {
			return errorResponse(409, "IDEMPOTENCY_CONFLICT", "idempotency key was already used for a different request"), nil
		}
		if prior.Status == store.SubmissionCompleted {
			return jsonResponse(200, PrescriptionResponse{TransactionID: prior.TransactionID}), nil
		}
		return errorResponse(409, "IN_PROGRESS", "request is already being processed"), nil
	}

	receipt, err := a.Ledger.RecordEntry(ctx, ledger.WriteRequest{
		PatientID:  req.PatientID,
		DoctorName: principal.DisplayName,
		Disease:    req.Disease,
		Content:    req.Content,
		EntryID:    key,
	})
	if err != nil {
		log.Printf("prescription: record entry for patient %s: %v", req.PatientID, err)
		if failErr := a.Submissions.FailSubmission(ctx, key); failErr != nil {
			log.Printf("prescription: fail submission %s: %v", key, failErr)
		}
		return errorResponse(500, ledgerCode(err), "prescription could not be recorded"), nil
	}

	if err := a.Submissions.CompleteSubmission(ctx, key, receipt.TransactionID); err != nil {
		// The write is already committed; the receipt still goes back.
		log.Printf("prescription: complete submission %s: %v", key, err)
	}

	return jsonResponse(200, PrescriptionResponse{TransactionID: receipt.TransactionID}), nil
}

func ledgerCode(err error) string {
	switch {
	case ledger.IsKind(err, ledger.KindRejected):
		return "LEDGER_REJECTED"
	case ledger.IsKind(err, ledger.KindTimeout):
		return "LEDGER_TIMEOUT"
	default:
		return "LEDGER_UNAVAILABLE"
	}
}
