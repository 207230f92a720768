package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/db"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

var messageColumns = []string{
	"id", "sender_kind", "sender_id", "sender_name", "recipient_kind", "recipient_id", "recipient_name",
	"subject", "body", "application_id", "leido", "created_at", "read_at",
}

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db db.ConnProvider
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(conn db.ConnProvider) *MessageRepository {
	return &MessageRepository{db: conn}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	m := &models.Message{}
	err := row.Scan(
		&m.ID, &m.Sender.Kind, &m.Sender.ID, &m.SenderName, &m.Recipient.Kind, &m.Recipient.ID, &m.RecipientName,
		&m.Subject, &m.Body, &m.ApplicationID, &m.Leido, &m.CreatedAt, &m.ReadAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MessageRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Message, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list messages query: %w", err)
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create inserts an unread message and fills its generated fields.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	sql, args, err := psql.Insert("messages").
		Columns("sender_kind", "sender_id", "sender_name", "recipient_kind", "recipient_id", "recipient_name",
			"subject", "body", "application_id", "leido").
		Values(m.Sender.Kind, m.Sender.ID, m.SenderName, m.Recipient.Kind, m.Recipient.ID, m.RecipientName,
			m.Subject, m.Body, m.ApplicationID, false).
		Suffix("RETURNING id, leido, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create message query: %w", err)
	}

	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&m.ID, &m.Leido, &m.CreatedAt); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	sql, args, err := psql.Select(messageColumns...).From("messages").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get message query: %w", err)
	}

	m, err := scanMessage(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrMessageNotFound) {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, err
}

// MarkReadIfUnread flips leido to true only while it is still false. It
// reports whether this call performed the flip.
func (r *MessageRepository) MarkReadIfUnread(ctx context.Context, id int64, at time.Time) (bool, error) {
	sql, args, err := psql.Update("messages").
		Set("leido", true).
		Set("read_at", at).
		Where(squirrel.Eq{"id": id, "leido": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build mark read query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("mark message read: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes a message
func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("messages").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete message query: %w", err)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

// ListInbox returns messages addressed to recipient, newest first.
func (r *MessageRepository) ListInbox(ctx context.Context, recipient models.AccountRef, unreadOnly bool) ([]*models.Message, error) {
	q := psql.Select(messageColumns...).
		From("messages").
		Where(squirrel.Eq{"recipient_kind": recipient.Kind, "recipient_id": recipient.ID}).
		OrderBy("created_at DESC", "id DESC")
	if unreadOnly {
		q = q.Where(squirrel.Eq{"leido": false})
	}
	return r.list(ctx, q)
}

// ListSent returns messages written by sender, newest first.
func (r *MessageRepository) ListSent(ctx context.Context, sender models.AccountRef) ([]*models.Message, error) {
	q := psql.Select(messageColumns...).
		From("messages").
		Where(squirrel.Eq{"sender_kind": sender.Kind, "sender_id": sender.ID}).
		OrderBy("created_at DESC", "id DESC")
	return r.list(ctx, q)
}

// CountUnread counts unread messages addressed to recipient.
func (r *MessageRepository) CountUnread(ctx context.Context, recipient models.AccountRef) (int64, error) {
	sql, args, err := psql.Select("count(*)").
		From("messages").
		Where(squirrel.Eq{"recipient_kind": recipient.Kind, "recipient_id": recipient.ID, "leido": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count unread query: %w", err)
	}

	var n int64
	if err := r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}
