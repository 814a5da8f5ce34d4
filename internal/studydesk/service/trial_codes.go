package service

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/domain"
	"github.com/google/uuid"
)

// NewTrialCode returns the prefix plus 16 uppercase hex characters taken
// from the random bits of a v4 UUID.
func NewTrialCode() string {
	u := uuid.New()
	// Bytes 6 and 8 carry the version and variant, skip them.
	raw := make([]byte, 0, TrialCodeHexChars/2)
	raw = append(raw, u[0:6]...)
	raw = append(raw, u[9:11]...)
	return domain.TrialCodePrefix + strings.ToUpper(hex.EncodeToString(raw))
}

func (s *AdminService) TrialCodes(ctx context.Context) ([]domain.TrialCode, error) {
	return s.Store.TrialCodes().ListRecent(ctx, TrialCodesLimit)
}

// GenerateTrialCode creates an unused code valid for days once redeemed.
// A collision surfaces as store.ErrAlreadyExists; there is no retry.
func (s *AdminService) GenerateTrialCode(ctx context.Context, actor Principal, days, expiresInDays int) (domain.TrialCode, error) {
	if days < 0 {
		return domain.TrialCode{}, invalid("days must be >= 0")
	}
	if expiresInDays < 0 {
		return domain.TrialCode{}, invalid("expires_in_days must be >= 0")
	}

	now := s.now()
	tc := domain.TrialCode{
		Code:         NewTrialCode(),
		DurationDays: days,
		CreatedAt:    now,
	}
	if expiresInDays > 0 {
		exp := now.Add(time.Duration(expiresInDays) * 24 * time.Hour)
		tc.ExpiresAt = &exp
	}

	if err := s.Store.TrialCodes().Create(ctx, tc); err != nil {
		return domain.TrialCode{}, err
	}

	s.Audit.Record(ctx, actor, domain.ActionGenerateTrialCode, "", tc.Code, map[string]any{
		"days":            days,
		"expires_in_days": expiresInDays,
	})
	return tc, nil
}

// ExportCodes returns the codes for the CSV/XLSX export.
func (s *AdminService) ExportCodes(ctx context.Context) ([]domain.TrialCode, error) {
	return s.Store.TrialCodes().ListRecent(ctx, ExportCodesLimit)
}
