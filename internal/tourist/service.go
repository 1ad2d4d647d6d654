package tourist

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gatepass/internal/audit"
	"gatepass/internal/card"
	"gatepass/internal/event"
	"gatepass/internal/files"
	"gatepass/internal/filetoken"
	"gatepass/internal/platform/metrics"
	dErrors "gatepass/pkg/domainerrors"
)

// EventChecker resolves the event a registration targets.
type EventChecker interface {
	Check(ctx context.Context, id int64) (*event.Event, error)
}

// CardRenderer produces the visitor card PNG.
type CardRenderer interface {
	Generate(d card.Details, photoPath string) (string, error)
}

// Mailer sends the post-registration notification. Delivery failures are
// logged and otherwise ignored.
type Mailer interface {
	SendCardReady(ctx context.Context, to, name string) error
}

// EntryStatusProvider reports whether a tourist is currently inside the
// venue, for the staff-facing listings.
type EntryStatusProvider interface {
	IsInside(ctx context.Context, touristID string, eventID int64) (bool, error)
}

// Service implements tourist registration and card delivery.
type Service struct {
	store      Store
	events     EventChecker
	cards      CardRenderer
	tokens     *filetoken.Service
	entries    EntryStatusProvider
	mailer     Mailer
	audit      *audit.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	uploadsDir string
}

type ServiceParams struct {
	Store      Store
	Events     EventChecker
	Cards      CardRenderer
	Tokens     *filetoken.Service
	Entries    EntryStatusProvider
	Mailer     Mailer
	Audit      *audit.Publisher
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	UploadsDir string
}

func NewService(p ServiceParams) *Service {
	return &Service{
		store:      p.Store,
		events:     p.Events,
		cards:      p.Cards,
		tokens:     p.Tokens,
		entries:    p.Entries,
		mailer:     p.Mailer,
		audit:      p.Audit,
		metrics:    p.Metrics,
		logger:     p.Logger,
		uploadsDir: p.UploadsDir,
	}
}

// Register validates the form, stores the tourist and renders the visitor
// card. Card rendering failures degrade to a null visitor_card_url rather
// than failing the registration.
func (s *Service) Register(ctx context.Context, input RegistrationInput) (*RegistrationResult, error) {
	if input.Photo == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Image file is required")
	}
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.IDType) == "" ||
		strings.TrimSpace(input.IDNumber) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Missing required fields")
	}
	if input.GroupCount < 1 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "group_count must be ≥ 1")
	}
	if input.IsGroup && input.GroupCount < 2 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "group_count must be ≥ 2 for groups")
	}

	ev, err := s.events.Check(ctx, input.EventID)
	if err != nil || !ev.IsActive {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Invalid or inactive event")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := s.store.ExistsByEmail(ctx, input.EventID, email)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "internal server error", err)
	}
	if exists {
		return nil, dErrors.New(dErrors.CodeConflict, "User with this email is already registered for the event")
	}

	photoPath, err := files.SaveUpload(s.uploadsDir, "user", input.PhotoFilename, input.Photo)
	if err != nil {
		return nil, err
	}

	t := &Tourist{
		ID:         uuid.NewString(),
		EventID:    input.EventID,
		Name:       strings.TrimSpace(input.Name),
		Email:      email,
		IDType:     input.IDType,
		IDNumber:   input.IDNumber,
		IsGroup:    input.IsGroup,
		GroupCount: input.GroupCount,
		PhotoPath:  photoPath,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Create(ctx, t); err != nil {
		_ = files.Delete(photoPath)
		return nil, dErrors.Wrap(dErrors.CodeInternal, "internal server error", err)
	}

	s.metrics.RecordRegistration()
	s.emit(audit.Event{
		Action:    audit.ActionTouristRegistered,
		Actor:     "public",
		SubjectID: t.ID,
		EventID:   formatEventID(t.EventID),
	})

	meta := &Meta{
		TouristID:    t.ID,
		QRPayload:    "TOURIST-" + t.ID,
		ImagePath:    photoPath,
		RegisteredAt: t.CreatedAt,
	}

	result := &RegistrationResult{
		Message: "Tourist registered successfully",
		Tourist: t,
		Meta:    meta,
	}

	cardPath, err := s.cards.Generate(card.Details{
		TouristID: t.ID,
		Name:      t.Name,
		Email:     t.Email,
		IDType:    t.IDType,
		IDNumber:  t.IDNumber,
		ValidFrom: ev.StartDate,
		ValidTo:   ev.EndDate,
	}, photoPath)
	if err != nil {
		s.metrics.RecordCardFailure()
		s.emit(audit.Event{Action: audit.ActionCardFailed, Actor: "system", SubjectID: t.ID})
		s.logger.ErrorContext(ctx, "visitor card generation failed",
			"tourist_id", t.ID,
			"error", err,
		)
		s.notify(t)
		return result, nil
	}

	if err := s.store.SetCardPath(ctx, t.ID, cardPath); err != nil {
		s.logger.ErrorContext(ctx, "failed to record card path",
			"tourist_id", t.ID,
			"error", err,
		)
	}
	t.CardPath = cardPath
	s.metrics.RecordCardGenerated()
	s.emit(audit.Event{Action: audit.ActionCardGenerated, Actor: "system", SubjectID: t.ID})

	token, err := s.tokens.MintVisitorCard(cardPath, t.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to mint card token",
			"tourist_id", t.ID,
			"error", err,
		)
		s.notify(t)
		return result, nil
	}
	url := "/tourists/visitor-card/" + token
	result.VisitorCardURL = &url

	s.notify(t)
	return result, nil
}

// ResolveCard verifies a card token and returns the file to serve.
func (s *Service) ResolveCard(token string) (string, error) {
	claims, err := s.tokens.Verify(token, filetoken.TypeVisitorCard)
	if err != nil {
		return "", err
	}
	if err := filetoken.ValidatePath(claims.FilePath, "static"); err != nil {
		return "", err
	}
	return claims.FilePath, nil
}

// ResolveImage verifies a profile photo token and returns the file to serve.
func (s *Service) ResolveImage(token string) (string, error) {
	claims, err := s.tokens.Verify(token, filetoken.TypeUserImage)
	if err != nil {
		return "", err
	}
	if err := filetoken.ValidatePath(claims.FilePath, "static"); err != nil {
		return "", err
	}
	return claims.FilePath, nil
}

// TouristWithStatus decorates a tourist with their current gate status.
type TouristWithStatus struct {
	Tourist
	Inside bool `json:"inside"`
}

// ListByEvent returns an event's tourists with gate status for staff views.
func (s *Service) ListByEvent(ctx context.Context, eventID int64) ([]TouristWithStatus, error) {
	if _, err := s.events.Check(ctx, eventID); err != nil {
		return nil, err
	}
	tourists, err := s.store.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "internal server error", err)
	}
	out := make([]TouristWithStatus, 0, len(tourists))
	for _, t := range tourists {
		ts := TouristWithStatus{Tourist: t}
		if s.entries != nil {
			inside, err := s.entries.IsInside(ctx, t.ID, eventID)
			if err == nil {
				ts.Inside = inside
			}
		}
		out = append(out, ts)
	}
	return out, nil
}

// Detail is the staff-facing view of a single tourist: the record, the gate
// status, and a fresh token-gated URL for the stored profile photo.
type Detail struct {
	Tourist
	Inside       bool    `json:"inside"`
	UserImageURL *string `json:"user_image_url"`
}

// GetByID returns a single tourist with gate status and a photo link.
func (s *Service) GetByID(ctx context.Context, id string) (*Detail, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{Tourist: *t}
	if s.entries != nil {
		if inside, err := s.entries.IsInside(ctx, t.ID, t.EventID); err == nil {
			d.Inside = inside
		}
	}
	if t.PhotoPath != "" {
		token, err := s.tokens.MintUserImage(t.PhotoPath)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to mint image token",
				"tourist_id", t.ID,
				"error", err,
			)
		} else {
			url := "/tourists/user-image/" + token
			d.UserImageURL = &url
		}
	}
	return d, nil
}

// EventOf names the event a tourist registered for. The gate scanner uses it
// to reject scans at the wrong event.
func (s *Service) EventOf(ctx context.Context, id string) (int64, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return t.EventID, nil
}

func (s *Service) notify(t *Tourist) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mailer.SendCardReady(ctx, t.Email, t.Name); err != nil {
			s.logger.Warn("registration email failed",
				"tourist_id", t.ID,
				"error", err,
			)
		}
	}()
}

func (s *Service) emit(e audit.Event) {
	if s.audit == nil {
		return
	}
	if !s.audit.Emit(e) {
		s.logger.Warn("audit queue full, event dropped", "action", e.Action)
	}
}

func formatEventID(id int64) string {
	return strconv.FormatInt(id, 10)
}
