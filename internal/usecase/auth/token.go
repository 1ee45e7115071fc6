package auth

import domain "wellness/portal/internal/domain/auth"

// TokenManager abstracts session issuance and verification.
type TokenManager interface {
	Generate(userID string, stage domain.Stage) (string, error)
	Validate(token string) (domain.Session, error)
}
