package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicbackend/internal/models"
	"github.com/clinicbackend/internal/store"
)

// RegisterRequest is the typed input schema for POST /api/{role}/register.
// Which profile fields are required depends on the role in the path; no
// field is ever silently defaulted or coerced.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	ContactNumber string `json:"contact_number,omitempty"`
	Address       string `json:"address,omitempty"`
	Gender        string `json:"gender,omitempty"`
	DateOfBirth   string `json:"dob,omitempty"`

	Specialization     string `json:"specialization,omitempty"`
	AvailabilityStatus string `json:"availability_status,omitempty"`
}

type RegisterResponse struct {
	ID string `json:"id"`
}

// requiredProfileFields names the per-role fields beyond name/email/password.
func requiredProfileFields(role models.Role, req RegisterRequest) map[string]string {
	switch role {
	case models.RolePatient:
		return map[string]string{
			"contact_number": req.ContactNumber,
			"address":        req.Address,
			"gender":         req.Gender,
			"dob":            req.DateOfBirth,
		}
	case models.RoleDoctor:
		return map[string]string{
			"contact_number":      req.ContactNumber,
			"specialization":      req.Specialization,
			"availability_status": req.AvailabilityStatus,
		}
	case models.RoleHospital:
		return map[string]string{
			"contact_number": req.ContactNumber,
			"address":        req.Address,
		}
	}
	return nil
}

// HandleRegister serves POST /api/{role}/register for all three roles
// through one parameterized flow.
func (a *App) HandleRegister(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role, err := models.ParseRole(request.PathParameters["role"])
	if err != nil {
		return errorResponse(400, "VALIDATION_ERROR", "unknown account role"), nil
	}

	var req RegisterRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(400, "INVALID_REQUEST", "invalid JSON in request body"), nil
	}

	fields := map[string]string{"name": req.Name, "email": req.Email, "password": req.Password}
	for name, value := range requiredProfileFields(role, req) {
		fields[name] = value
	}
	for name, value := range fields {
		if value == "" {
			return errorResponse(400, "VALIDATION_ERROR", fmt.Sprintf("%s is required", name)), nil
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errorResponse(500, "INTERNAL_ERROR", "error processing password"), nil
	}

	id, err := a.Accounts.CreateAccount(ctx, role, store.Registration{
		Name:               req.Name,
		Email:              req.Email,
		PasswordHash:       string(hashed),
		ContactNumber:      req.ContactNumber,
		Address:            req.Address,
		Gender:             req.Gender,
		DateOfBirth:        req.DateOfBirth,
		Specialization:     req.Specialization,
		AvailabilityStatus: req.AvailabilityStatus,
	})
	if err != nil {
		if err == store.ErrDuplicate {
			return errorResponse(409, "DUPLICATE", "an account with this email already exists"), nil
		}
		log.Printf("register %s: %v", role, err)
		return errorResponse(500, "PERSISTENCE_ERROR", "error creating account"), nil
	}

	return jsonResponse(201, RegisterResponse{ID: id}), nil
}
