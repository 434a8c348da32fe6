package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stepclass/stepclass-hub/internal/domain/shared"
	"github.com/stepclass/stepclass-hub/internal/domain/student"
	"github.com/stepclass/stepclass-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN COMMAND
// Verifies credentials, issues a signed token and registers the session so
// it can be revoked before the token expires.
// ══════════════════════════════════════════════════════════════════════════════

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string, role string, ttl time.Duration) (token string, err error)
}

// SessionStore tracks live sessions keyed by token so logout can revoke
// a token before its expiry.
type SessionStore interface {
	Put(ctx context.Context, token, userID string, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// LoginCommand carries the credentials.
type LoginCommand struct {
	Username string
	Password string
}

// Validate validates the command.
func (c LoginCommand) Validate() error {
	if c.Username == "" || c.Password == "" {
		return errors.New("login: username and password are required")
	}
	return nil
}

// LoginResult contains the issued token and the user's profile.
type LoginResult struct {
	Token   string
	User    *student.Student
	Expires time.Time
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	students student.Repository
	tokens   TokenIssuer
	sessions SessionStore
	tokenTTL time.Duration
	log      *logger.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(
	students student.Repository,
	tokens TokenIssuer,
	sessions SessionStore,
	tokenTTL time.Duration,
	log *logger.Logger,
) *LoginHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &LoginHandler{
		students: students,
		tokens:   tokens,
		sessions: sessions,
		tokenTTL: tokenTTL,
		log:      log.With(logger.Component("login")),
	}
}

// Handle executes the login command. Unknown username and wrong password
// produce the same error so the response does not leak which part failed.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	user, err := h.students.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	token, err := h.tokens.Issue(user.ID, user.Role.String(), h.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	if err := h.sessions.Put(ctx, token, user.ID, h.tokenTTL); err != nil {
		return nil, fmt.Errorf("login: register session: %w", err)
	}

	h.log.Info("user logged in", logger.String("username", cmd.Username))
	return &LoginResult{
		Token:   token,
		User:    user,
		Expires: time.Now().Add(h.tokenTTL),
	}, nil
}

// Logout revokes a session token.
func (h *LoginHandler) Logout(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("login: token is required")
	}
	return h.sessions.Delete(ctx, token)
}
