package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuslf/reclaim/internal/model"
)

// Claims represents the session token claims. Building is the scoping unit
// for everything the token holder may see or mutate.
type Claims struct {
	Email      string `json:"email"`
	Building   string `json:"building"`
	LoggedInAt int64  `json:"logged_in_at"`
	jwt.RegisteredClaims
}

// TokenExpiry is the default session lifetime.
const TokenExpiry = 12 * time.Hour

// GenerateToken creates a new session token for a staff member with a
// unique JTI.
func GenerateToken(secret, email, building string, loggedInAt time.Time) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", fmt.Errorf("generating JTI: %w", err)
	}

	claims := Claims{
		Email:      email,
		Building:   building,
		LoggedInAt: loggedInAt.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(loggedInAt.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(loggedInAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a session token, returning the session
// it carries.
func ValidateToken(secret, tokenStr string) (*model.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return &model.Session{
		Email:      claims.Email,
		Building:   claims.Building,
		LoggedInAt: time.Unix(claims.LoggedInAt, 0),
	}, nil
}

// generateJTI creates a random token ID.
func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
