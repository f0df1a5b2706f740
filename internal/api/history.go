package api

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clinicbackend/internal/models"
)

// HandleHistory serves GET /api/history/{patientId}. Doctors may read any
// patient's history; a patient may only read their own. On ledger failure
// nothing partial or cached is returned.
func (a *App) HandleHistory(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	principal, reject := a.authenticate(request, models.RoleDoctor, models.RolePatient)
	if reject != nil {
		return *reject, nil
	}

	patientID := request.PathParameters["patientId"]
	if patientID == "" {
		return errorResponse(400, "VALIDATION_ERROR", "patientId is required"), nil
	}
	if principal.Role == models.RolePatient && principal.SubjectID != patientID {
		return errorResponse(403, "FORBIDDEN", "patients may only read their own history"), nil
	}

	entries, err := a.Ledger.QueryHistory(ctx, patientID)
	if err != nil {
		log.Printf("history: query for patient %s: %v", patientID, err)
		return errorResponse(500, ledgerCode(err), "history could not be read"), nil
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	return jsonResponse(200, entries), nil
}
