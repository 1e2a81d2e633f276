package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"hagere-admin/internal/backend"
	"hagere-admin/internal/config"
	"hagere-admin/internal/store"

	"github.com/rs/zerolog/log"
)

// Service issues and resolves gateway sessions. A login is exchanged
// against the settlement backend for a bearer token, which is kept
// server-side under a gateway session token; browsers only ever hold
// the gateway token.
type Service struct {
	store   *store.Store
	backend *backend.Client
	cfg     config.ServerConfig
}

func NewService(st *store.Store, bc *backend.Client, cfg config.ServerConfig) *Service {
	return &Service{store: st, backend: bc, cfg: cfg}
}

func (s *Service) sessionTTL() time.Duration {
	hours := s.cfg.SessionTTLHours
	if hours <= 0 {
		hours = 12
	}
	return time.Duration(hours) * time.Hour
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResponse, error) {
	phone := strings.TrimSpace(in.Phone)
	if phone == "" || in.Password == "" {
		return nil, ErrInvalidRequest
	}

	backendToken, err := s.backend.Login(ctx, phone, in.Password)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token := store.NewSessionToken()
	expiresAt := time.Now().Add(s.sessionTTL())
	err = s.store.CreateStaffSession(ctx, store.StaffSession{
		TokenHash:    store.HashToken(token),
		Phone:        phone,
		BackendToken: backendToken,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("phone", phone).Time("expires_at", expiresAt).Msg("staff login")
	return &LoginResponse{Token: token, Phone: phone, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a gateway token to its session. Expired or
// unknown tokens come back as ErrSessionNotFound.
func (s *Service) Authenticate(ctx context.Context, token string) (*store.StaffSession, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	sess, err := s.store.GetStaffSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.store.DeleteStaffSession(ctx, token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// ForceLogout drops a session whose backend token stopped working. The
// row may already be gone; that is fine.
func (s *Service) ForceLogout(ctx context.Context, token string) {
	if err := s.store.DeleteStaffSession(ctx, token); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Msg("forced logout failed")
	}
}

// StartJanitor sweeps expired sessions in the background until ctx is
// canceled.
func (s *Service) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.store.DeleteExpiredStaffSessions(ctx)
				if err != nil {
					log.Error().Err(err).Msg("session sweep failed")
					continue
				}
				if n > 0 {
					log.Info().Int64("sessions", n).Msg("swept expired sessions")
				}
			}
		}
	}()
}
