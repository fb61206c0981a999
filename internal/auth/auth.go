// Package auth handles credentials and access tokens.
//
// Passwords are stored as bcrypt hashes. Access tokens are HS256 JWTs
// carrying the user ID and a session ID; the session is checked on every
// request so revocation takes effect before the token expires.
package auth

import (
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/maajidpp/linkza/pkg/errors"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User account statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// User is an account record. PasswordHash never leaves the server; the
// json tag keeps it out of API responses rendered from this struct.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Username     string    `json:"username,omitempty" bson:"username,omitempty"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash,omitempty"`
	Role         string    `json:"role" bson:"role"`
	Status       string    `json:"status" bson:"status"`
	LastLogin    time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsSuspended reports whether the account is suspended.
func (u *User) IsSuspended() bool { return u.Status == StatusSuspended }

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// HashPassword returns the bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"password must be at least %d characters", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash password")
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Claims are the JWT claims carried by an access token.
type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Tokens issues and validates access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token issuer. A zero ttl falls back to seven days,
// the session lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token binding userID to sessionID.
func (t *Tokens) Issue(userID, sessionID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "sign token")
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims.
func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(errors.ErrCodeUnauthorized, "unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if stderrors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, errors.Wrap(errors.ErrCodeSessionExpired, err, "token expired")
		}
		return nil, errors.Wrap(errors.ErrCodeUnauthorized, err, "invalid token")
	}
	if !token.Valid || claims.UserID == "" || claims.SessionID == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
