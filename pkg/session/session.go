// Package session owns login state: tokens, the authenticated profile and
// the account-lifecycle operations around them.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jpmoralesv/finanzas-cli/pkg/api"
	"github.com/jpmoralesv/finanzas-cli/pkg/model"
	"github.com/jpmoralesv/finanzas-cli/pkg/storage"
)

// Session is the auth store. All methods are safe for concurrent use.
type Session struct {
	client *api.Client
	store  storage.Store
	logger *slog.Logger

	mu      sync.Mutex
	user    *model.User
	loading bool
	lastErr string
}

// New creates a session over the given API client and token store.
func New(client *api.Client, store storage.Store, logger *slog.Logger) *Session {
	return &Session{client: client, store: store, logger: logger}
}

// User returns the cached profile, nil when not logged in.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a profile is loaded.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Loading reports whether an operation is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the user-facing message of the last failure.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Contact resolves the outbound-email recipient for the current user.
// Empty when nobody is logged in.
func (s *Session) Contact() (email, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return "", ""
	}
	return s.user.Email, s.user.ContactName()
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	if v {
		s.lastErr = ""
	}
	s.mu.Unlock()
}

func (s *Session) fail(err error, fallback string) error {
	msg := api.Message(err, fallback)
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	return err
}

// Login authenticates, persists both tokens and loads the profile.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	err := s.client.Post(ctx, "/auth/login/", map[string]string{
		"email":    email,
		"password": password,
	}, &tokens)
	if err != nil {
		return s.fail(err, "Error al iniciar sesión")
	}

	if err := s.storeTokens(ctx, tokens.Access, tokens.Refresh); err != nil {
		return s.fail(err, "Error al iniciar sesión")
	}
	return s.FetchProfile(ctx)
}

// Register creates an account, persists the issued tokens and caches the
// returned profile.
func (s *Session) Register(ctx context.Context, payload map[string]any) error {
	s.setLoading(true)
	defer s.setLoading(false)

	var resp struct {
		User   model.User `json:"user"`
		Tokens struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
	}
	if err := s.client.Post(ctx, "/auth/register/", payload, &resp); err != nil {
		return s.fail(err, "Error al registrarse")
	}
	if err := s.storeTokens(ctx, resp.Tokens.Access, resp.Tokens.Refresh); err != nil {
		return s.fail(err, "Error al registrarse")
	}

	s.mu.Lock()
	s.user = &resp.User
	s.mu.Unlock()
	return nil
}

// FetchProfile loads the authenticated profile. A failure tears the
// session down, matching the fatal-auth-expiry contract.
func (s *Session) FetchProfile(ctx context.Context) error {
	var user model.User
	if err := s.client.Get(ctx, "/auth/profile/", nil, &user); err != nil {
		s.Logout(ctx)
		return s.fail(err, "Error al cargar perfil")
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// UpdateProfile patches profile fields and refreshes the cache.
func (s *Session) UpdateProfile(ctx context.Context, fields map[string]any) (model.User, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	var user model.User
	if err := s.client.Patch(ctx, "/auth/profile/", fields, &user); err != nil {
		return model.User{}, s.fail(err, "Error al actualizar perfil")
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return user, nil
}

// ChangePassword replaces the account password.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	err := s.client.Put(ctx, "/auth/change-password/", map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}, nil)
	if err != nil {
		return s.fail(err, "Error al cambiar contraseña")
	}
	return nil
}

// Logout revokes the refresh token server-side (best effort) and always
// clears local tokens and the cached profile.
func (s *Session) Logout(ctx context.Context) {
	refresh, ok, err := s.store.Get(ctx, storage.KeyRefreshToken)
	if err == nil && ok && refresh != "" {
		if err := s.client.Post(ctx, "/auth/logout/", map[string]string{"refresh": refresh}, nil); err != nil {
			s.logger.Debug("server logout failed", "error", err)
		}
	}

	if err := s.store.Delete(ctx, storage.KeyAccessToken); err != nil {
		s.logger.Error("clear access token", "error", err)
	}
	if err := s.store.Delete(ctx, storage.KeyRefreshToken); err != nil {
		s.logger.Error("clear refresh token", "error", err)
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// CheckAuth loads the profile when a stored access token exists. It is the
// startup path: no token means no session, not an error.
func (s *Session) CheckAuth(ctx context.Context) error {
	token, ok, err := s.store.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}
	if !ok || token == "" {
		return nil
	}
	return s.FetchProfile(ctx)
}

func (s *Session) storeTokens(ctx context.Context, access, refresh string) error {
	if err := s.store.Set(ctx, storage.KeyAccessToken, access); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyRefreshToken, refresh); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}
