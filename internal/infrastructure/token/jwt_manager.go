package token

import (
	"errors"
	"time"

	domain "wellness/portal/internal/domain/auth"
	usecase "wellness/portal/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager signs session cookies as JWTs.
type JWTManager struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTManager constructs a manager with the provided secret and expiration.
func NewJWTManager(secret string, expiration time.Duration, issuer string) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
	}
}

// Ensure JWTManager implements the TokenManager interface.
var _ usecase.TokenManager = (*JWTManager)(nil)

// Claims represents session claims.
type Claims struct {
	UserID string       `json:"uid"`
	Stage  domain.Stage `json:"stage"`
	jwt.RegisteredClaims
}

// Generate creates a signed session for the user at the given login stage.
func (m *JWTManager) Generate(userID string, stage domain.Stage) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		Stage:  stage,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and validates the session returning its user and stage.
func (m *JWTManager) Validate(tokenString string) (domain.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		return domain.Session{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return domain.Session{}, errors.New("invalid session claims")
	}
	return domain.Session{UserID: claims.UserID, Stage: claims.Stage}, nil
}
