package api

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicbackend/internal/models"
	"github.com/clinicbackend/internal/store"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// HandleLogin serves POST /api/{role}/login. A wrong password and an
// unknown email produce the same 401.
func (a *App) HandleLogin(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	role, err := models.ParseRole(request.PathParameters["role"])
	if err != nil {
		return errorResponse(400, "VALIDATION_ERROR", "unknown account role"), nil
	}

	var req LoginRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(400, "INVALID_REQUEST", "invalid JSON in request body"), nil
	}
	if req.Email == "" || req.Password == "" {
		return errorResponse(400, "VALIDATION_ERROR", "email and password are required"), nil
	}

	creds, err := a.Accounts.LookupCredentials(ctx, role, req.Email)
	if err != nil {
		if err == store.ErrNotFound {
			return errorResponse(401, "UNAUTHORIZED", "invalid credentials"), nil
		}
		log.Printf("login %s: %v", role, err)
		return errorResponse(500, "PERSISTENCE_ERROR", "error verifying credentials"), nil
	}

	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)) != nil {
		return errorResponse(401, "UNAUTHORIZED", "invalid credentials"), nil
	}

	token, err := a.Tokens.Issue(creds.ID, creds.Name, role)
	if err != nil {
		log.Printf("login %s: issuing token: %v", role, err)
		return errorResponse(500, "INTERNAL_ERROR", "error issuing session token"), nil
	}

	return jsonResponse(200, LoginResponse{
		Token:     token,
		ExpiresIn: int64(a.TokenTTL.Seconds()),
	}), nil
}
