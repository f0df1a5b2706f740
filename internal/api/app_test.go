package api

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/clinicbackend/internal/auth"
	"github.com/clinicbackend/internal/ledger"
	"github.com/clinicbackend/internal/models"
	"github.com/clinicbackend/internal/store"
)

type fakeLedger struct {
	recordCalls int
	lastWrite   ledger.WriteRequest
	recordErr   error
	receipt     ledger.Receipt

	queryCalls int
	history    []models.HistoryEntry
	historyErr error
}

func (f *fakeLedger) RecordEntry(ctx context.Context, req ledger.WriteRequest) (ledger.Receipt, error) {
	f.recordCalls++
	f.lastWrite = req
	if f.recordErr != nil {
		return ledger.Receipt{}, f.recordErr
	}
	return f.receipt, nil
}

func (f *fakeLedger) QueryHistory(ctx context.Context, patientID string) ([]models.HistoryEntry, error) {
	f.queryCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

type fakeSubmissions struct {
	prior       *store.Submission
	beginErr    error
	completed   map[string]string
	failedKeys  []string
	lastBegun   string
	lastSubject string
}

func (f *fakeSubmissions) BeginSubmission(ctx context.Context, key, subjectID, requestHash string) (*store.Submission, error) {
	f.lastBegun = key
	f.lastSubject = subjectID
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.prior, nil
}

func (f *fakeSubmissions) CompleteSubmission(ctx context.Context, key, transactionID string) error {
	if f.completed == nil {
		f.completed = map[string]string{}
	}
	f.completed[key] = transactionID
	return nil
}

func (f *fakeSubmissions) FailSubmission(ctx context.Context, key string) error {
	f.failedKeys = append(f.failedKeys, key)
	return nil
}

type fakeAccounts struct {
	createdID   string
	createErr   error
	creds       store.Credentials
	credsErr    error
	lastRole    models.Role
	lastReg     store.Registration
	lastEmail   string
	createCalls int
}

func (f *fakeAccounts) CreateAccount(ctx context.Context, role models.Role, reg store.Registration) (string, error) {
	f.createCalls++
	f.lastRole = role
	f.lastReg = reg
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createdID, nil
}

func (f *fakeAccounts) LookupCredentials(ctx context.Context, role models.Role, email string) (store.Credentials, error) {
	f.lastRole = role
	f.lastEmail = email
	if f.credsErr != nil {
		return store.Credentials{}, f.credsErr
	}
	return f.creds, nil
}

func newTestApp() *App {
	return &App{
		Tokens:   auth.NewCodec("test-secret", time.Hour),
		TokenTTL: time.Hour,
	}
}

func bearerHeaders(t *testing.T, app *App, subjectID, displayName string, role models.Role) map[string]string {
	t.Helper()
	token, err := app.Tokens.Issue(subjectID, displayName, role)
	if err != nil {
		t.Fatalf("issuing test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

func request(headers map[string]string, pathParams map[string]string, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		Headers:        headers,
		PathParameters: pathParams,
		Body:           body,
	}
}
