package postgres

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
)

type chatRepository struct {
	tx  pgx.Tx
	t   tables
	now func() time.Time
}

// timestamps are truncated to what timestamptz keeps
func (r *chatRepository) stamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func (r *chatRepository) AddUser(ctx context.Context, name string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, fmt.Errorf("%w: empty user name", errors.ErrRepositoryRequest)
	}
	user := domain.User{ID: uuid.New(), Name: name}
	_, err := r.tx.Exec(ctx,
		`INSERT INTO `+r.t.users+` (id, name, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.Name, r.stamp())
	if err != nil {
		return domain.User{}, dbErr(err, "add user")
	}
	return user, nil
}

// GetUsers fails with ErrNotFound when any of the ids is unknown.
func (r *chatRepository) GetUsers(ctx context.Context, ids []domain.UserID) ([]domain.UserSummary, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return []domain.UserSummary{}, nil
	}
	rows, err := r.tx.Query(ctx,
		`SELECT id, name FROM `+r.t.users+` WHERE id = ANY($1::uuid[])`, uuidStrings(ids))
	if err != nil {
		return nil, dbErr(err, "get users")
	}
	found, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, fmt.Errorf("%w: %w: %d of %d users", errors.ErrRepositoryRequest, errors.ErrNotFound, len(found), len(ids))
	}
	byID := lo.KeyBy(found, func(u domain.UserSummary) domain.UserID { return u.ID })
	return lo.Map(ids, func(id domain.UserID, _ int) domain.UserSummary { return byID[id] }), nil
}

func (r *chatRepository) GetUserList(ctx context.Context, nameFilter string, limit, offset *int) ([]domain.UserSummary, error) {
	filter := strings.ToLower(strings.TrimSpace(nameFilter))
	rows, err := r.tx.Query(ctx,
		`SELECT id, name FROM `+r.t.users+`
		 WHERE $1 = '' OR strpos(lower(name), $1) > 0
		 ORDER BY lower(name), id::text
		 LIMIT $2 OFFSET $3`,
		filter, domain.PageLimit(limit), domain.PageOffset(offset))
	if err != nil {
		return nil, dbErr(err, "get user list")
	}
	return collectUsers(rows)
}

func (r *chatRepository) AddChat(ctx context.Context, newChat domain.NewChat) (domain.Chat, error) {
	if err := r.requireUser(ctx, newChat.OwnerID); err != nil {
		return domain.Chat{}, err
	}
	chat := domain.Chat{ID: uuid.New(), Title: newChat.Title, OwnerID: newChat.OwnerID, CreatedAt: r.stamp()}
	_, err := r.tx.Exec(ctx,
		`INSERT INTO `+r.t.chats+` (id, title, owner_id, created_at) VALUES ($1, $2, $3, $4)`,
		chat.ID, chat.Title, chat.OwnerID, chat.CreatedAt)
	if err != nil {
		return domain.Chat{}, dbErr(err, "add chat")
	}
	return chat, nil
}

func (r *chatRepository) GetChat(ctx context.Context, chatID domain.ChatID) (domain.Chat, error) {
	var chat domain.Chat
	err := r.tx.QueryRow(ctx,
		`SELECT id, title, owner_id, created_at FROM `+r.t.chats+` WHERE id = $1`, chatID).
		Scan(&chat.ID, &chat.Title, &chat.OwnerID, &chat.CreatedAt)
	if err != nil {
		return domain.Chat{}, dbErr(err, fmt.Sprintf("chat %s", chatID))
	}
	chat.CreatedAt = chat.CreatedAt.UTC()
	return chat, nil
}

func (r *chatRepository) GetOwnedChats(ctx context.Context, userID domain.UserID) ([]domain.Chat, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT id, title, owner_id, created_at FROM `+r.t.chats+`
		 WHERE owner_id = $1 ORDER BY created_at, id::text`, userID)
	if err != nil {
		return nil, dbErr(err, "get owned chats")
	}
	chats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Chat, error) {
		var chat domain.Chat
		err := row.Scan(&chat.ID, &chat.Title, &chat.OwnerID, &chat.CreatedAt)
		chat.CreatedAt = chat.CreatedAt.UTC()
		return chat, err
	})
	if err != nil {
		return nil, dbErr(err, "get owned chats")
	}
	return chats, nil
}

func (r *chatRepository) GetJoinedChatIDs(ctx context.Context, userID domain.UserID) ([]domain.ChatID, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT chat_id FROM `+r.t.members+` WHERE user_id = $1 ORDER BY chat_id::text`, userID)
	if err != nil {
		return nil, dbErr(err, "get joined chats")
	}
	return collectIDs(rows)
}

func (r *chatRepository) GetJoinedChatList(ctx context.Context, userID domain.UserID) ([]domain.ChatSummary, error) {
	rows, err := r.tx.Query(ctx, r.summaryQuery(`c.id IN (SELECT chat_id FROM `+r.t.members+` WHERE user_id = $1)`)+
		` ORDER BY c.title, c.id::text`, userID)
	if err != nil {
		return nil, dbErr(err, "get joined chat list")
	}
	summaries, err := pgx.CollectRows(rows, scanSummary)
	if err != nil {
		return nil, dbErr(err, "get joined chat list")
	}
	return summaries, nil
}

func (r *chatRepository) GetChatSummary(ctx context.Context, chatID domain.ChatID) (domain.ChatSummary, error) {
	rows, err := r.tx.Query(ctx, r.summaryQuery(`c.id = $1`), chatID)
	if err != nil {
		return domain.ChatSummary{}, dbErr(err, "get chat summary")
	}
	summary, err := pgx.CollectExactlyOneRow(rows, scanSummary)
	if err != nil {
		return domain.ChatSummary{}, dbErr(err, fmt.Sprintf("chat %s", chatID))
	}
	return summary, nil
}

// summaryQuery selects id, title, member count and the text of the newest message.
func (r *chatRepository) summaryQuery(where string) string {
	return `SELECT c.id, c.title,
		(SELECT count(*) FROM ` + r.t.members + ` m WHERE m.chat_id = c.id),
		(SELECT text FROM ` + r.t.messages + ` msg WHERE msg.chat_id = c.id ORDER BY msg.id DESC LIMIT 1)
		FROM ` + r.t.chats + ` c WHERE ` + where
}

func scanSummary(row pgx.CollectableRow) (domain.ChatSummary, error) {
	var (
		s     domain.ChatSummary
		count int64
	)
	err := row.Scan(&s.ID, &s.Title, &count, &s.LastMessageText)
	s.MembersCount = int(count)
	return s, err
}

func (r *chatRepository) GetChatMemberIDs(ctx context.Context, chatIDs []domain.ChatID) ([]domain.UserID, error) {
	if len(chatIDs) == 0 {
		return []domain.UserID{}, nil
	}
	rows, err := r.tx.Query(ctx,
		`SELECT DISTINCT user_id FROM `+r.t.members+` WHERE chat_id = ANY($1::uuid[])`, uuidStrings(chatIDs))
	if err != nil {
		return nil, dbErr(err, "get chat members")
	}
	return collectIDs(rows)
}

func (r *chatRepository) AddUserToChat(ctx context.Context, chatID domain.ChatID, userID domain.UserID) error {
	if _, err := r.GetChat(ctx, chatID); err != nil {
		return err
	}
	if err := r.requireUser(ctx, userID); err != nil {
		return err
	}
	tag, err := r.tx.Exec(ctx,
		`INSERT INTO `+r.t.members+` (chat_id, user_id, joined_at) VALUES ($1, $2, $3)
		 ON CONFLICT (chat_id, user_id) DO NOTHING`,
		chatID, userID, r.stamp())
	if err != nil {
		return dbErr(err, "add member")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %w: user %s already in chat %s",
			errors.ErrRepositoryRequest, errors.ErrAlreadyExists, userID, chatID)
	}
	return nil
}

func (r *chatRepository) AddMessage(ctx context.Context, msg domain.NewMessage) (domain.Message, error) {
	if _, err := r.GetChat(ctx, msg.ChatID); err != nil {
		return domain.Message{}, err
	}
	return r.insertMessage(ctx, msg.ChatID, &msg.SenderID, msg.Text, false)
}

func (r *chatRepository) AddNotification(ctx context.Context, chatID domain.ChatID, text string) (domain.Notification, error) {
	if _, err := r.GetChat(ctx, chatID); err != nil {
		return domain.Notification{}, err
	}
	msg, err := r.insertMessage(ctx, chatID, nil, text, true)
	if err != nil {
		return domain.Notification{}, err
	}
	return domain.Notification{ID: msg.ID, ChatID: msg.ChatID, Text: msg.Text, At: msg.SentAt}, nil
}

func (r *chatRepository) insertMessage(ctx context.Context, chatID domain.ChatID, senderID *domain.UserID, text string, notification bool) (domain.Message, error) {
	rows, err := r.tx.Query(ctx,
		`INSERT INTO `+r.t.messages+` (chat_id, sender_id, text, is_notification, sent_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+messageColumns,
		chatID, senderID, text, notification, r.stamp())
	if err != nil {
		return domain.Message{}, dbErr(err, "add message")
	}
	msg, err := pgx.CollectExactlyOneRow(rows, scanMessage)
	if err != nil {
		return domain.Message{}, dbErr(err, "add message")
	}
	return msg, nil
}

func (r *chatRepository) GetMessage(ctx context.Context, messageID domain.MessageID) (domain.Message, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT `+messageColumns+` FROM `+r.t.messages+` WHERE id = $1`, int64(messageID))
	if err != nil {
		return domain.Message{}, dbErr(err, "get message")
	}
	msg, err := pgx.CollectExactlyOneRow(rows, scanMessage)
	if err != nil {
		return domain.Message{}, dbErr(err, fmt.Sprintf("message %d", messageID))
	}
	return msg, nil
}

func (r *chatRepository) EditMessage(ctx context.Context, messageID domain.MessageID, text string, at time.Time) (domain.Message, error) {
	rows, err := r.tx.Query(ctx,
		`UPDATE `+r.t.messages+` SET text = $2, edited_at = $3 WHERE id = $1 RETURNING `+messageColumns,
		int64(messageID), text, at.UTC().Truncate(time.Microsecond))
	if err != nil {
		return domain.Message{}, dbErr(err, "edit message")
	}
	msg, err := pgx.CollectExactlyOneRow(rows, scanMessage)
	if err != nil {
		return domain.Message{}, dbErr(err, fmt.Sprintf("message %d", messageID))
	}
	return msg, nil
}

// GetMessageList pages through a chat timeline. startID is exclusive, order defaults to newest first.
func (r *chatRepository) GetMessageList(ctx context.Context, chatID domain.ChatID, startID *domain.MessageID, orderDesc *bool, limit *int) ([]domain.Message, error) {
	var start *int64
	if startID != nil {
		start = lo.ToPtr(int64(*startID))
	}
	cmp, order := ">", "ASC"
	if domain.Descending(orderDesc) {
		cmp, order = "<", "DESC"
	}
	rows, err := r.tx.Query(ctx,
		`SELECT `+messageColumns+` FROM `+r.t.messages+`
		 WHERE chat_id = $1 AND ($2::bigint IS NULL OR id `+cmp+` $2)
		 ORDER BY id `+order+` LIMIT $3`,
		chatID, start, domain.PageLimit(limit))
	if err != nil {
		return nil, dbErr(err, "get message list")
	}
	messages, err := pgx.CollectRows(rows, scanMessage)
	if err != nil {
		return nil, dbErr(err, "get message list")
	}
	return messages, nil
}

const messageColumns = `id, chat_id, sender_id, text, is_notification, sent_at, edited_at`

func scanMessage(row pgx.CollectableRow) (domain.Message, error) {
	var (
		msg    domain.Message
		id     int64
		sender *uuid.UUID
	)
	if err := row.Scan(&id, &msg.ChatID, &sender, &msg.Text, &msg.IsNotification, &msg.SentAt, &msg.EditedAt); err != nil {
		return domain.Message{}, err
	}
	msg.ID = domain.MessageID(id)
	if sender != nil {
		msg.SenderID = *sender
	}
	msg.SentAt = msg.SentAt.UTC()
	if msg.EditedAt != nil {
		msg.EditedAt = lo.ToPtr(msg.EditedAt.UTC())
	}
	return msg, nil
}

func (r *chatRepository) requireUser(ctx context.Context, userID domain.UserID) error {
	var one int
	err := r.tx.QueryRow(ctx, `SELECT 1 FROM `+r.t.users+` WHERE id = $1`, userID).Scan(&one)
	return dbErr(err, fmt.Sprintf("user %s", userID))
}

func collectUsers(rows pgx.Rows) ([]domain.UserSummary, error) {
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.UserSummary, error) {
		var u domain.UserSummary
		err := row.Scan(&u.ID, &u.Name)
		return u, err
	})
	if err != nil {
		return nil, dbErr(err, "scan users")
	}
	return users, nil
}

func collectIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, dbErr(err, "scan ids")
	}
	return ids, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	return lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() })
}

// dbErr classifies driver errors: a missing row is a request error, anything else a database one.
func dbErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: %w: %s", errors.ErrRepositoryRequest, errors.ErrNotFound, what)
	default:
		return fmt.Errorf("%w: %s: %w", errors.ErrRepositoryDatabase, what, err)
	}
}
