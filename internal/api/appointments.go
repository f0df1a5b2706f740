package api

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clinicbackend/internal/models"
	"github.com/clinicbackend/internal/store"
)

type BookAppointmentRequest struct {
	DoctorID        string `json:"doctorId"`
	AppointmentTime string `json:"appointmentTime"` // RFC 3339
}

type ReviewAppointmentRequest struct {
	AppointmentID string `json:"appointmentId"`
	Status        string `json:"status"` // Approved or Rejected
}

// HandleBookAppointment serves POST /api/appointment for patients. The
// booking is relational only; nothing here touches the ledger.
func (a *App) HandleBookAppointment(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	principal, reject := a.authenticate(request, models.RolePatient)
	if reject != nil {
		return *reject, nil
	}

	var req BookAppointmentRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(400, "INVALID_REQUEST", "invalid JSON in request body"), nil
	}
	if req.DoctorID == "" {
		return errorResponse(400, "VALIDATION_ERROR", "doctorId is required"), nil
	}
	at, err := time.Parse(time.RFC3339, req.AppointmentTime)
	if err != nil {
		return errorResponse(400, "VALIDATION_ERROR", "appointmentTime must be RFC 3339"), nil
	}

	appt, err := a.Appointments.BookAppointment(ctx, principal.SubjectID, req.DoctorID, at)
	if err != nil {
		log.Printf("appointments: book for patient %s: %v", principal.SubjectID, err)
		return errorResponse(500, "PERSISTENCE_ERROR", "error booking appointment"), nil
	}

	return jsonResponse(201, appt), nil
}

// HandleReviewAppointment serves POST /api/appointment/review for hospitals.
func (a *App) HandleReviewAppointment(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	_, reject := a.authenticate(request, models.RoleHospital)
	if reject != nil {
		return *reject, nil
	}

	var req ReviewAppointmentRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(400, "INVALID_REQUEST", "invalid JSON in request body"), nil
	}
	if req.AppointmentID == "" {
		return errorResponse(400, "VALIDATION_ERROR", "appointmentId is required"), nil
	}
	status := models.AppointmentStatus(req.Status)
	if status != models.AppointmentApproved && status != models.AppointmentRejected {
		return errorResponse(400, "VALIDATION_ERROR", "status must be Approved or Rejected"), nil
	}

	if err := a.Appointments.ReviewAppointment(ctx, req.AppointmentID, status); err != nil {
		if err == store.ErrNotFound {
			return errorResponse(404, "NOT_FOUND", "appointment not found"), nil
		}
		log.Printf("appointments: review %s: %v", req.AppointmentID, err)
		return errorResponse(500, "PERSISTENCE_ERROR", "error updating appointment"), nil
	}

	return jsonResponse(200, map[string]string{"status": req.Status}), nil
}

// HandleListAppointments serves GET /api/appointments for doctors: their
// approved appointments, soonest first.
func (a *App) HandleListAppointments(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	principal, reject := a.authenticate(request, models.RoleDoctor)
	if reject != nil {
		return *reject, nil
	}

	appointments, err := a.Appointments.AppointmentsForDoctor(ctx, principal.SubjectID)
	if err != nil {
		log.Printf("appointments: list for doctor %s: %v", principal.SubjectID, err)
		return errorResponse(500, "PERSISTENCE_ERROR", "error listing appointments"), nil
	}
	if appointments == nil {
		appointments = []models.Appointment{}
	}

	return jsonResponse(200, appointments), nil
}
