package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicbackend/internal/models"
)

// ErrorKind classifies why a bearer credential was not accepted.
type ErrorKind int

const (
	TokenMissing ErrorKind = iota
	TokenInvalid
	TokenExpired
)

func (k ErrorKind) String() string {
	switch k {
	case TokenMissing:
		return "token missing"
	case TokenInvalid:
		return "token invalid"
	case TokenExpired:
		return "token expired"
	}
	return "unknown"
}

// Error is returned by Verify and Authenticate. The kind, not the message,
// drives the HTTP status the caller responds with.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
	}
	return "auth: " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an auth error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

type sessionClaims struct {
	DisplayName string `json:"name"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed session tokens. It is a pure function of
// the token, the current time and the process-wide signing secret; there is
// no server-side session table.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a self-contained token for the subject. The token is
// immutable once issued and expires ttl after issuance.
func (c *Codec) Issue(subjectID, displayName string, role models.Role) (string, error) {
	issuedAt := c.now()
	claims := sessionClaims{
		DisplayName: displayName,
		Role:        string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %v", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and rebuilds the Principal the
// token was issued for.
func (c *Codec) Verify(tokenString string) (models.Principal, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Principal{}, &Error{Kind: TokenExpired, Err: err}
		}
		return models.Principal{}, &Error{Kind: TokenInvalid, Err: err}
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return models.Principal{}, &Error{Kind: TokenInvalid, Err: err}
	}
	if claims.Subject == "" {
		return models.Principal{}, &Error{Kind: TokenInvalid, Err: errors.New("token has no subject")}
	}

	return models.Principal{
		SubjectID:   claims.Subject,
		DisplayName: claims.DisplayName,
		Role:        role,
	}, nil
}
