package api

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clinicbackend/internal/auth"
	"github.com/clinicbackend/internal/ledger"
	"github.com/clinicbackend/internal/models"
	"github.com/clinicbackend/internal/store"
)

// Ledger is the slice of the ledger client the handlers use; tests install
// a counting double here.
type Ledger interface {
	RecordEntry(ctx context.Context, req ledger.WriteRequest) (ledger.Receipt, error)
	QueryHistory(ctx context.Context, patientID string) ([]models.HistoryEntry, error)
}

// AccountStore backs registration and login.
type AccountStore interface {
	CreateAccount(ctx context.Context, role models.Role, reg store.Registration) (string, error)
	LookupCredentials(ctx context.Context, role models.Role, email string) (store.Credentials, error)
}

// AppointmentStore backs the scheduling routes.
type AppointmentStore interface {
	BookAppointment(ctx context.Context, patientID, doctorID string, at time.Time) (models.Appointment, error)
	ReviewAppointment(ctx context.Context, appointmentID string, status models.AppointmentStatus) error
	AppointmentsForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
}

// SubmissionStore tracks prescription writes by idempotency key.
type SubmissionStore interface {
	BeginSubmission(ctx context.Context, key, subjectID, requestHash string) (*store.Submission, error)
	CompleteSubmission(ctx context.Context, key, transactionID string) error
	FailSubmission(ctx context.Context, key string) error
}

// App carries the process-wide dependencies into the route handlers. One
// App serves any number of concurrent requests; per-request state lives on
// the stack of each handler invocation.
type App struct {
	Tokens       *auth.Codec
	TokenTTL     time.Duration
	Accounts     AccountStore
	Appointments AppointmentStore
	Submissions  SubmissionStore
	Ledger       Ledger
}

// authenticate resolves the bearer token into a Principal and, when roles
// are given, enforces them. Both checks run before any domain logic; the
// returned response short-circuits the handler on failure. Missing
// credentials are 401; invalid and expired tokens share one 403 so callers
// cannot probe which of the two it was.
func (a *App) authenticate(req events.APIGatewayProxyRequest, roles ...models.Role) (models.Principal, *events.APIGatewayProxyResponse) {
	principal, err := a.Tokens.Authenticate(req.Headers)
	if err != nil {
		if auth.IsKind(err, auth.TokenMissing) {
			resp := errorResponse(401, "UNAUTHORIZED", "missing bearer token")
			return models.Principal{}, &resp
		}
		resp := errorResponse(403, "FORBIDDEN", "bearer token not accepted")
		return models.Principal{}, &resp
	}

	if len(roles) > 0 {
		if err := auth.RequireRole(principal, roles...); err != nil {
			resp := errorResponse(403, "FORBIDDEN", "role not permitted")
			return models.Principal{}, &resp
		}
	}
	return principal, nil
}
