package staff

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gatepass/internal/audit"
	dErrors "gatepass/pkg/domainerrors"
)

// Service implements staff account management and login.
type Service struct {
	store  Store
	tokens *TokenService
	audit  *audit.Publisher
	logger *slog.Logger
}

func NewService(store Store, tokens *TokenService, auditPub *audit.Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, tokens: tokens, audit: auditPub, logger: logger}
}

// Register creates a staff account. Only admins reach this; the handler
// enforces the role.
func (s *Service) Register(ctx context.Context, input RegisterInput, actor string) (*Staff, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		input.Password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Missing required fields")
	}
	if input.Role != RoleAdmin && input.Role != RoleSecurity {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Role must be admin or security")
	}
	if len(input.Password) < 8 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to hash password", err)
	}

	st := &Staff{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Role:          input.Role,
		AllowedEvents: input.AllowedEvents,
		PasswordHash:  string(hash),
	}
	if err := s.store.Create(ctx, st); err != nil {
		return nil, err
	}

	s.emit(audit.Event{Action: audit.ActionStaffRegistered, Actor: actor, SubjectID: st.ID})
	return st, nil
}

// Bootstrap creates the initial admin account when it does not exist yet.
// Without it a fresh deployment has nobody who can log in.
func (s *Service) Bootstrap(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil
	}
	_, err := s.Register(ctx, RegisterInput{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     RoleAdmin,
	}, "bootstrap")
	return err
}

// Login verifies credentials and mints an access token. Bad email and bad
// password return the same detail so the endpoint does not leak which
// accounts exist.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	st, err := s.store.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(input.Password)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Incorrect email or password")
	}

	token, err := s.tokens.Mint(st.ID, st.Role)
	if err != nil {
		return nil, err
	}

	s.emit(audit.Event{Action: audit.ActionStaffLogin, Actor: st.ID})
	return &LoginResult{AccessToken: token, TokenType: "bearer", User: st}, nil
}

// List returns every staff account.
func (s *Service) List(ctx context.Context) ([]Staff, error) {
	return s.store.List(ctx)
}

// UpdateAllowedEvents replaces a security staffer's event allowlist.
func (s *Service) UpdateAllowedEvents(ctx context.Context, id string, events []int64, actor string) (*Staff, error) {
	st, err := s.store.UpdateAllowedEvents(ctx, id, events)
	if err != nil {
		return nil, err
	}
	s.emit(audit.Event{Action: audit.ActionStaffUpdated, Actor: actor, SubjectID: id})
	return st, nil
}

// Delete removes a staff account.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(audit.Event{Action: audit.ActionStaffDeleted, Actor: actor, SubjectID: id})
	return nil
}

// AllowedEvents reports which events the staffer may work. Admins may work
// any event, so callers should check the role first.
func (s *Service) AllowedEvents(ctx context.Context, id string) ([]int64, error) {
	st, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return st.AllowedEvents, nil
}

func (s *Service) emit(e audit.Event) {
	if s.audit == nil {
		return
	}
	if !s.audit.Emit(e) {
		s.logger.Warn("audit queue full, event dropped", "action", e.Action)
	}
}
