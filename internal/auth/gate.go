package auth

import (
	"errors"
	"strings"

	"github.com/clinicbackend/internal/models"
)

// ErrRoleForbidden is returned by RequireRole when the principal's role is
// not in the permitted set.
var ErrRoleForbidden = errors.New("auth: role not permitted for this operation")

// Authenticate resolves the Authorization header of a request into a
// Principal. It runs fully before any handler logic; a failure means the
// handler never executes.
func (c *Codec) Authenticate(headers map[string]string) (models.Principal, error) {
	header := headers["Authorization"]
	if header == "" {
		// API Gateway may lowercase header names.
		header = headers["authorization"]
	}
	if header == "" {
		return models.Principal{}, &Error{Kind: TokenMissing}
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return models.Principal{}, &Error{Kind: TokenMissing, Err: errors.New("authorization header is not a bearer credential")}
	}

	return c.Verify(token)
}

// RequireRole is the handler-local authorization check: a handler declares
// the roles permitted to invoke it and rejects everything else.
func RequireRole(p models.Principal, roles ...models.Role) error {
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return ErrRoleForbidden
}
