package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Service issues bearer tokens and answers revocation/expiry queries. A
// token is only considered valid once its AuthToken record is persisted, so
// IssueToken writes the record before returning.
type Service struct {
	tokens TokenRepository
	signer *Signer
	logger *zap.Logger
	now    func() time.Time
}

func NewService(tokens TokenRepository, signer *Signer, logger *zap.Logger) *Service {
	return &Service{tokens: tokens, signer: signer, logger: logger, now: time.Now}
}

func (s *Service) IssueToken(ctx context.Context, customerID int, role string) (IssuedToken, error) {
	issued, err := s.signer.Sign(customerID, role)
	if err != nil {
		return IssuedToken{}, err
	}

	record := AuthToken{
		JTI:        issued.JTI,
		CustomerID: customerID,
		Token:      issued.Token,
		ExpiresAt:  issued.ExpiresAt,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return IssuedToken{}, err
	}

	return issued, nil
}

// IsRevokedOrExpired reports true when the jti has no record (revoked or
// never issued) or when the record has expired. A store failure is treated
// as revoked: authenticating on a lookup we could not perform would defeat
// the revocation list.
func (s *Service) IsRevokedOrExpired(ctx context.Context, jti string) bool {
	t, err := s.tokens.FindByJTI(ctx, jti)
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) {
			s.logger.Error("token lookup failed", zap.String("jti", jti), zap.Error(err))
		}
		return true
	}
	return !s.now().Before(t.ExpiresAt)
}

// Revoke deletes the token record. Idempotent; reports whether a record was
// actually removed.
func (s *Service) Revoke(ctx context.Context, jti string) (bool, error) {
	return s.tokens.DeleteByJTI(ctx, jti)
}
