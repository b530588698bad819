package service

import (
	"context"
	"errors"

	"scent-store/internal/domain"
	"scent-store/internal/session"

	"go.uber.org/zap"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

// AdminService gates the back office with the key stored in the session
type AdminService interface {
	Login(ctx context.Context, s *session.Session, key string) error
	Logout(ctx context.Context, s *session.Session) error
	IsAuthorized(ctx context.Context, s *session.Session) bool
}

type adminService struct {
	logger *zap.Logger
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(logger *zap.Logger) AdminService {
	return &adminService{logger: logger}
}

// Login compares key with the stored secret exactly. A mismatch leaves the
// session untouched.
func (s *adminService) Login(ctx context.Context, sess *session.Session, key string) error {
	matched := false
	_, err := sess.UpdateAdmin(ctx, func(admin domain.AdminState) (domain.AdminState, bool) {
		if key != admin.Key {
			return admin, false
		}
		matched = true
		admin.LoggedIn = true
		return admin, true
	})
	if !matched {
		s.logger.Debug("Rejected admin key", zap.String("session_id", sess.ID()))
		return ErrInvalidAdminKey
	}
	if err != nil {
		// The flag holds for this process even when it could not be saved
		s.logger.Warn("Admin login not persisted", zap.String("session_id", sess.ID()), zap.Error(err))
	}

	s.logger.Info("Admin logged in", zap.String("session_id", sess.ID()))
	return nil
}

// Logout clears the admin flag
func (s *adminService) Logout(ctx context.Context, sess *session.Session) error {
	_, err := sess.UpdateAdmin(ctx, func(admin domain.AdminState) (domain.AdminState, bool) {
		admin.LoggedIn = false
		return admin, true
	})
	return err
}

// IsAuthorized reports whether the session is logged in to the back office
func (s *adminService) IsAuthorized(ctx context.Context, sess *session.Session) bool {
	return sess.Envelope(ctx).Admin.LoggedIn
}
