package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
	"github.com/yigit/vacantes/internal/pkg/metrics"
	"github.com/yigit/vacantes/internal/pkg/validation"
)

// SendInput carries a message to send. Either ApplicationID or the explicit
// recipient (RecipientID + RecipientRole) must be supplied.
type SendInput struct {
	RecipientID   *int64
	RecipientRole *string
	ApplicationID *int64
	Subject       string
	Body          string
}

// MessageService gates correspondence between students and vacancy owners
// on their application history.
type MessageService interface {
	Authorize(ctx context.Context, sender models.AccountRef, recipient *models.AccountRef, applicationID *int64) (models.AccountRef, *models.Application, error)
	Send(ctx context.Context, sender models.AccountRef, in SendInput) (*models.Message, error)
	Get(ctx context.Context, id int64, requester models.AccountRef) (*models.Message, error)
	MarkRead(ctx context.Context, id int64, requester models.AccountRef) (*models.Message, error)
	Delete(ctx context.Context, id int64, requester models.AccountRef) error
	Inbox(ctx context.Context, requester models.AccountRef, unreadOnly bool) ([]*models.Message, error)
	Sent(ctx context.Context, requester models.AccountRef) ([]*models.Message, error)
	UnreadCount(ctx context.Context, requester models.AccountRef) (int64, error)
}

type messageServiceImpl struct {
	messages     MessageStore
	applications ApplicationStore
	vacancies    VacancyStore
	directory    DirectoryService
	now          Clock
	logger       zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messages MessageStore,
	applications ApplicationStore,
	vacancies VacancyStore,
	directory DirectoryService,
	logger zerolog.Logger,
) MessageService {
	return &messageServiceImpl{
		messages:     messages,
		applications: applications,
		vacancies:    vacancies,
		directory:    directory,
		now:          time.Now,
		logger:       logger,
	}
}

func validPairing(a, b models.AccountRef) bool {
	return a.Kind.CanApply() != b.Kind.CanApply()
}

// Authorize resolves the final recipient and the application that links the
// two parties.
func (s *messageServiceImpl) Authorize(
	ctx context.Context,
	sender models.AccountRef,
	recipient *models.AccountRef,
	applicationID *int64,
) (models.AccountRef, *models.Application, error) {
	if !sender.Kind.Valid() {
		return models.AccountRef{}, nil, apperrors.ErrUnknownAccountKind
	}
	if recipient != nil && !validPairing(sender, *recipient) {
		return models.AccountRef{}, nil, apperrors.NewCustomError(apperrors.ErrInvalidPairing, "messages flow only between a student and a vacancy owner")
	}

	var (
		target models.AccountRef
		app    *models.Application
	)

	if applicationID != nil {
		a, err := s.applications.GetByID(ctx, *applicationID)
		if err != nil {
			return models.AccountRef{}, nil, err
		}
		v, err := s.vacancies.GetByID(ctx, a.VacancyID)
		if err != nil {
			return models.AccountRef{}, nil, err
		}

		switch {
		case sender.Same(a.StudentRef()):
			target = v.Owner
		case sender.Same(v.Owner):
			target = a.StudentRef()
		default:
			return models.AccountRef{}, nil, apperrors.NewForbiddenError("sender is not a party to this application")
		}
		if recipient != nil && !recipient.Same(target) {
			return models.AccountRef{}, nil, apperrors.NewForbiddenError("recipient is not the counterparty of this application")
		}
		app = a
	} else {
		if recipient == nil {
			return models.AccountRef{}, nil, apperrors.NewValidationError("a recipient or an application id is required")
		}
		target = *recipient

		student, owner := sender, target
		if !sender.Kind.CanApply() {
			student, owner = target, sender
		}
		a, err := s.applications.FindLatestBetween(ctx, student.ID, owner)
		if err != nil {
			return models.AccountRef{}, nil, err
		}
		if a == nil {
			return models.AccountRef{}, nil, apperrors.ErrNoRelationshipExists
		}
		app = a
	}

	if target.Same(sender) {
		return models.AccountRef{}, nil, apperrors.NewCustomError(apperrors.ErrInvalidPairing, "cannot message yourself")
	}
	return target, app, nil
}

// Send authorizes and persists a message with snapshotted display names
func (s *messageServiceImpl) Send(ctx context.Context, sender models.AccountRef, in SendInput) (msg *models.Message, err error) {
	defer func() {
		metrics.RecordMessageSend(apperrors.KindOf(err))
		if err != nil && !apperrors.IsDomain(err) {
			s.logger.Error().Err(err).Str("sender", sender.String()).Msg("Failed to send message")
		}
	}()

	subject := strings.TrimSpace(in.Subject)
	body := strings.TrimSpace(in.Body)
	switch {
	case subject == "":
		return nil, apperrors.NewValidationError("subject is required")
	case body == "":
		return nil, apperrors.NewValidationError("body is required")
	case utf8.RuneCountInString(subject) > validation.SubjectMaxLength:
		return nil, apperrors.NewValidationError("subject is too long")
	case utf8.RuneCountInString(body) > validation.BodyMaxLength:
		return nil, apperrors.NewValidationError("body is too long")
	}

	var recipient *models.AccountRef
	if in.RecipientID != nil {
		if in.RecipientRole == nil {
			return nil, apperrors.NewValidationError("recipientRole is required with recipientId")
		}
		kind, err := models.ParseRoleType(*in.RecipientRole)
		if err != nil {
			return nil, err
		}
		recipient = &models.AccountRef{ID: *in.RecipientID, Kind: kind}
	}

	target, app, err := s.Authorize(ctx, sender, recipient, in.ApplicationID)
	if err != nil {
		return nil, err
	}

	from, err := s.directory.Resolve(ctx, sender)
	if err != nil {
		return nil, err
	}
	to, err := s.directory.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	appID := app.ID
	msg = &models.Message{
		Sender:        sender,
		SenderName:    from.DisplayName(),
		Recipient:     target,
		RecipientName: to.DisplayName(),
		Subject:       subject,
		Body:          body,
		ApplicationID: &appID,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("messageID", msg.ID).
		Str("sender", sender.String()).
		Str("recipient", target.String()).
		Int64("applicationID", appID).
		Msg("Message sent")
	return msg, nil
}

func (s *messageServiceImpl) load(ctx context.Context, id int64, requester models.AccountRef) (*models.Message, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsParty(requester) {
		return nil, apperrors.NewForbiddenError("message belongs to other accounts")
	}
	return m, nil
}

// Get returns the message to either party. The recipient's first fetch marks it read.
func (s *messageServiceImpl) Get(ctx context.Context, id int64, requester models.AccountRef) (*models.Message, error) {
	m, err := s.load(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	if m.Leido || !m.Recipient.Same(requester) {
		return m, nil
	}
	return s.markRead(ctx, m)
}

// MarkRead is allowed to the recipient only
func (s *messageServiceImpl) MarkRead(ctx context.Context, id int64, requester models.AccountRef) (*models.Message, error) {
	m, err := s.load(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	if !m.Recipient.Same(requester) {
		return nil, apperrors.NewForbiddenError("only the recipient can mark a message read")
	}
	if m.Leido {
		return m, nil
	}
	return s.markRead(ctx, m)
}

func (s *messageServiceImpl) markRead(ctx context.Context, m *models.Message) (*models.Message, error) {
	flipped, err := s.messages.MarkReadIfUnread(ctx, m.ID, s.now())
	if err != nil {
		s.logger.Error().Err(err).Int64("messageID", m.ID).Msg("Failed to mark message read")
		return nil, err
	}
	if flipped {
		s.logger.Debug().Int64("messageID", m.ID).Msg("Message marked read")
	}
	return s.messages.GetByID(ctx, m.ID)
}

// Delete removes the message for both parties; either party may delete it
func (s *messageServiceImpl) Delete(ctx context.Context, id int64, requester models.AccountRef) error {
	if _, err := s.load(ctx, id, requester); err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("messageID", id).Str("requester", requester.String()).Msg("Message deleted")
	return nil
}

func (s *messageServiceImpl) Inbox(ctx context.Context, requester models.AccountRef, unreadOnly bool) ([]*models.Message, error) {
	return s.messages.ListInbox(ctx, requester, unreadOnly)
}

func (s *messageServiceImpl) Sent(ctx context.Context, requester models.AccountRef) ([]*models.Message, error) {
	return s.messages.ListSent(ctx, requester)
}

func (s *messageServiceImpl) UnreadCount(ctx context.Context, requester models.AccountRef) (int64, error) {
	return s.messages.CountUnread(ctx, requester)
}
