package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/clinicbackend/internal/models"
)

// Registration is the typed profile for a new account. Which fields are
// required depends on the account kind; validation happens at the API
// boundary before this struct reaches the store.
type Registration struct {
	Name         string
	Email        string
	PasswordHash string

	// Patient profile.
	ContactNumber string
	Address       string
	Gender        string
	DateOfBirth   string

	// Doctor profile.
	Specialization     string
	AvailabilityStatus string
}

// Credentials is what login needs to verify a password and issue a token.
type Credentials struct {
	ID           string
	Name         string
	PasswordHash string
}

// accountKind drives the one parameterized register/login flow for all
// three actor roles instead of three copies of the same handler.
type accountKind struct {
	table   string
	columns []string
	values  func(reg Registration) []interface{}
}

var accountKinds = map[models.Role]accountKind{
	models.RolePatient: {
		table:   "patients",
		columns: []string{"name", "email", "password", "contact_number", "address", "gender", "dob"},
		values: func(reg Registration) []interface{} {
			return []interface{}{reg.Name, reg.Email, reg.PasswordHash, reg.ContactNumber, reg.Address, reg.Gender, reg.DateOfBirth}
		},
	},
	models.RoleDoctor: {
		table:   "doctors",
		columns: []string{"name", "email", "password", "contact_number", "specialization", "availability_status"},
		values: func(reg Registration) []interface{} {
			return []interface{}{reg.Name, reg.Email, reg.PasswordHash, reg.ContactNumber, reg.Specialization, reg.AvailabilityStatus}
		},
	},
	models.RoleHospital: {
		table:   "hospitals",
		columns: []string{"name", "email", "password", "contact_number", "address"},
		values: func(reg Registration) []interface{} {
			return []interface{}{reg.Name, reg.Email, reg.PasswordHash, reg.ContactNumber, reg.Address}
		},
	},
}

// CreateAccount inserts a new identity row for the role's table and returns
// the generated id. A taken email yields ErrDuplicate.
func (s *Store) CreateAccount(ctx context.Context, role models.Role, reg Registration) (string, error) {
	kind, ok := accountKinds[role]
	if !ok {
		return "", fmt.Errorf("store: no account kind for role %q", role)
	}

	placeholders := make([]string, len(kind.columns))
	for i := range kind.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		kind.table,
		strings.Join(kind.columns, ", "),
		strings.Join(placeholders, ", "),
	)

	var id string
	err := s.db.QueryRowContext(ctx, query, kind.values(reg)...).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicate
		}
		return "", fmt.Errorf("creating %s account: %v", role, err)
	}
	return id, nil
}

// LookupCredentials fetches the stored password hash for a login attempt.
func (s *Store) LookupCredentials(ctx context.Context, role models.Role, email string) (Credentials, error) {
	kind, ok := accountKinds[role]
	if !ok {
		return Credentials{}, fmt.Errorf("store: no account kind for role %q", role)
	}

	var creds Credentials
	query := fmt.Sprintf("SELECT id, name, password FROM %s WHERE email = $1", kind.table)
	err := s.db.QueryRowContext(ctx, query, email).Scan(&creds.ID, &creds.Name, &creds.PasswordHash)
	if err == sql.ErrNoRows {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("looking up %s credentials: %v", role, err)
	}
	return creds, nil
}
