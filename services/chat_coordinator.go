package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/observability"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

type IChatCoordinator interface {
	SubscribeForUpdates(ctx context.Context, userID domain.UserID) error
	CreateChat(ctx context.Context, currentUserID domain.UserID, newChat domain.NewChat) (domain.Chat, error)
	AddUserToChat(ctx context.Context, currentUserID, userID domain.UserID, chatID domain.ChatID) error
	SendMessage(ctx context.Context, currentUserID domain.UserID, msg domain.NewMessage) (domain.Message, error)
	EditMessage(ctx context.Context, currentUserID domain.UserID, messageID domain.MessageID, text string) (domain.Message, error)
	GetJoinedChatList(ctx context.Context, currentUserID domain.UserID) ([]domain.ChatSummary, error)
	GetMessageList(ctx context.Context, chatID domain.ChatID, startID *domain.MessageID, orderDesc *bool, limit *int) ([]domain.Message, error)
	GetUserList(ctx context.Context, nameFilter string, limit, offset *int) ([]domain.UserSummary, error)
	GetEvents(ctx context.Context, currentUserID domain.UserID, limit *int) ([]event.Event, error)
	AcknowledgeEvents(ctx context.Context, currentUserID domain.UserID) ([]event.Event, error)
	GetFirstCircleUserList(ctx context.Context, currentUserID domain.UserID, full bool) ([]domain.UserSummary, error)
}

// ChatCoordinator is the single entry point of chat mutations and queries.
// Writes commit before anything is published: a broker failure after a commit is reported
// as ErrEventBroker although the write is durable.
type ChatCoordinator struct {
	log       *slog.Logger
	uow       contract.IUnitOfWorkFactory
	broker    contract.IEventBroker
	moderator *moderation.Moderator
	metrics   *observability.Metrics
	now       func() time.Time
	circles   *firstCircle
}

type CoordinatorOption func(*ChatCoordinator)

// WithModerator censors message text before it is stored.
func WithModerator(m *moderation.Moderator) CoordinatorOption {
	return func(c *ChatCoordinator) { c.moderator = m }
}

func WithCoordinatorClock(now func() time.Time) CoordinatorOption {
	return func(c *ChatCoordinator) {
		if now != nil {
			c.now = now
		}
	}
}

func WithCoordinatorMetrics(m *observability.Metrics) CoordinatorOption {
	return func(c *ChatCoordinator) { c.metrics = m }
}

func NewChatCoordinator(log *slog.Logger, uow contract.IUnitOfWorkFactory, broker contract.IEventBroker, opts ...CoordinatorOption) *ChatCoordinator {
	c := &ChatCoordinator{
		log:     log,
		uow:     uow,
		broker:  broker,
		now:     time.Now,
		circles: newFirstCircle(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubscribeForUpdates subscribes the user to every joined chat and to their own channel in one call.
func (c *ChatCoordinator) SubscribeForUpdates(ctx context.Context, userID domain.UserID) error {
	var chatIDs []domain.ChatID
	err := c.read(ctx, func(repo contract.IChatRepository) (err error) {
		chatIDs, err = repo.GetJoinedChatIDs(ctx, userID)
		return repoErr(err)
	})
	if err != nil {
		return c.fail("subscribe_for_updates", err)
	}

	channels := lo.Map(chatIDs, func(id domain.ChatID, _ int) domain.Channel {
		return domain.ChatChannel(id)
	})
	channels = append(channels, domain.UserChannel(userID))
	if err := c.broker.SubscribeMany(channels, userID); err != nil {
		return c.fail("subscribe_for_updates", brokerErr(err))
	}
	c.log.Debug("coordinator.updates.subscribe", "user_id", userID, "chats", len(chatIDs))
	return nil
}

// CreateChat persists the chat then adds its owner as the first member.
func (c *ChatCoordinator) CreateChat(ctx context.Context, currentUserID domain.UserID, newChat domain.NewChat) (domain.Chat, error) {
	if newChat.OwnerID != currentUserID {
		return domain.Chat{}, c.fail("create_chat",
			fmt.Errorf("%w: user %s cannot create a chat owned by %s", errors.ErrUnauthorizedAction, currentUserID, newChat.OwnerID))
	}
	if err := newChat.Validate(); err != nil {
		return domain.Chat{}, c.fail("create_chat", fmt.Errorf("%w: %w", errors.ErrBadRequest, err))
	}

	var chat domain.Chat
	err := c.write(ctx, func(repo contract.IChatRepository) (err error) {
		chat, err = repo.AddChat(ctx, newChat)
		return notFoundAsBadRequest(err)
	})
	if err != nil {
		return domain.Chat{}, c.fail("create_chat", err)
	}
	c.log.Info("coordinator.chat.create", "chat_id", chat.ID, "owner_id", chat.OwnerID)

	if err := c.AddUserToChat(ctx, currentUserID, currentUserID, chat.ID); err != nil {
		return chat, err
	}
	return chat, nil
}

// AddUserToChat lets the chat owner add a member. The added user receives, in order, the join
// notification, their first-circle delta, and once both are acknowledged the refreshed chat entry.
func (c *ChatCoordinator) AddUserToChat(ctx context.Context, currentUserID, userID domain.UserID, chatID domain.ChatID) error {
	var notification domain.Notification
	err := c.write(ctx, func(repo contract.IChatRepository) error {
		chat, err := repo.GetChat(ctx, chatID)
		if err != nil {
			return notFoundAsBadRequest(err)
		}
		if chat.OwnerID != currentUserID {
			return fmt.Errorf("%w: user %s does not own chat %s", errors.ErrUnauthorizedAction, currentUserID, chatID)
		}
		users, err := repo.GetUsers(ctx, []domain.UserID{userID})
		if err != nil {
			return notFoundAsBadRequest(err)
		}
		if err := repo.AddUserToChat(ctx, chatID, userID); err != nil {
			return notFoundAsBadRequest(err)
		}
		notification, err = repo.AddNotification(ctx, chatID, fmt.Sprintf("%s joined the chat", users[0].Name))
		return repoErr(err)
	})
	if err != nil {
		return c.fail("add_user_to_chat", err)
	}
	c.log.Info("coordinator.chat.member.add", "chat_id", chatID, "user_id", userID, "added_by", currentUserID)

	chatChannel := domain.ChatChannel(chatID)
	if c.broker.HasSession(userID) {
		err := c.broker.Subscribe(chatChannel, userID)
		switch {
		case errors.Is(err, errors.ErrUsage):
			// the session closed since HasSession; the next SubscribeForUpdates picks the chat up
			c.log.Debug("coordinator.chat.member.offline", "chat_id", chatID, "user_id", userID)
		case err != nil:
			return c.fail("add_user_to_chat", brokerErr(err))
		}
	}
	joined := event.NewUserAddedToChatNotification(notification, userID, currentUserID)
	if err := c.broker.PostEvent(chatChannel, joined); err != nil {
		return c.fail("add_user_to_chat", brokerErr(err))
	}

	if _, err := c.GetFirstCircleUserList(ctx, userID, false); err != nil {
		return err
	}

	var summary domain.ChatSummary
	err = c.read(ctx, func(repo contract.IChatRepository) (err error) {
		summary, err = repo.GetChatSummary(ctx, chatID)
		return repoErr(err)
	})
	if err != nil {
		return c.fail("add_user_to_chat", err)
	}
	update := event.NewChatListUpdate(event.ChatListActionAdd, summary)
	if err := c.broker.PostEventAfterAck(domain.UserChannel(userID), update); err != nil {
		return c.fail("add_user_to_chat", brokerErr(err))
	}
	return nil
}

func (c *ChatCoordinator) SendMessage(ctx context.Context, currentUserID domain.UserID, msg domain.NewMessage) (domain.Message, error) {
	if msg.SenderID != currentUserID {
		return domain.Message{}, c.fail("send_message",
			fmt.Errorf("%w: user %s cannot send as %s", errors.ErrUnauthorizedAction, currentUserID, msg.SenderID))
	}
	if err := msg.Validate(); err != nil {
		return domain.Message{}, c.fail("send_message", fmt.Errorf("%w: %w", errors.ErrBadRequest, err))
	}
	msg.Text = c.censor(msg.Text)

	var stored domain.Message
	err := c.write(ctx, func(repo contract.IChatRepository) (err error) {
		stored, err = repo.AddMessage(ctx, msg)
		return notFoundAsBadRequest(err)
	})
	if err != nil {
		return domain.Message{}, c.fail("send_message", err)
	}

	if err := c.broker.PostEvent(domain.ChatChannel(stored.ChatID), event.NewChatMessageEvent(stored)); err != nil {
		return stored, c.fail("send_message", brokerErr(err))
	}
	return stored, nil
}

// EditMessage is allowed to the author only. The edit reaches every member, the editor included.
func (c *ChatCoordinator) EditMessage(ctx context.Context, currentUserID domain.UserID, messageID domain.MessageID, text string) (domain.Message, error) {
	if err := domain.ValidateText(text); err != nil {
		return domain.Message{}, c.fail("edit_message", fmt.Errorf("%w: %w", errors.ErrBadRequest, err))
	}
	text = c.censor(text)

	var edited domain.Message
	err := c.write(ctx, func(repo contract.IChatRepository) error {
		current, err := repo.GetMessage(ctx, messageID)
		if err != nil {
			return notFoundAsBadRequest(err)
		}
		if current.SenderID != currentUserID {
			return fmt.Errorf("%w: user %s is not the author of message %d", errors.ErrUnauthorizedAction, currentUserID, messageID)
		}
		edited, err = repo.EditMessage(ctx, messageID, text, c.now())
		return repoErr(err)
	})
	if err != nil {
		return domain.Message{}, c.fail("edit_message", err)
	}

	if err := c.broker.PostEvent(domain.ChatChannel(edited.ChatID), event.NewChatMessageEdited(edited)); err != nil {
		return edited, c.fail("edit_message", brokerErr(err))
	}
	return edited, nil
}

func (c *ChatCoordinator) GetJoinedChatList(ctx context.Context, currentUserID domain.UserID) ([]domain.ChatSummary, error) {
	var chats []domain.ChatSummary
	err := c.read(ctx, func(repo contract.IChatRepository) (err error) {
		chats, err = repo.GetJoinedChatList(ctx, currentUserID)
		return repoErr(err)
	})
	if err != nil {
		return nil, c.fail("get_joined_chat_list", err)
	}
	return chats, nil
}

// GetMessageList passes pagination through: ordering and the start boundary belong to the repository.
func (c *ChatCoordinator) GetMessageList(ctx context.Context, chatID domain.ChatID, startID *domain.MessageID, orderDesc *bool, limit *int) ([]domain.Message, error) {
	var messages []domain.Message
	err := c.read(ctx, func(repo contract.IChatRepository) (err error) {
		messages, err = repo.GetMessageList(ctx, chatID, startID, orderDesc, limit)
		return repoErr(err)
	})
	if err != nil {
		return nil, c.fail("get_message_list", err)
	}
	return messages, nil
}

func (c *ChatCoordinator) GetUserList(ctx context.Context, nameFilter string, limit, offset *int) ([]domain.UserSummary, error) {
	var users []domain.UserSummary
	err := c.read(ctx, func(repo contract.IChatRepository) (err error) {
		users, err = repo.GetUserList(ctx, nameFilter, limit, offset)
		return repoErr(err)
	})
	if err != nil {
		return nil, c.fail("get_user_list", err)
	}
	return users, nil
}

func (c *ChatCoordinator) GetEvents(_ context.Context, currentUserID domain.UserID, limit *int) ([]event.Event, error) {
	events, err := c.broker.GetEvents(currentUserID, limit)
	if err != nil {
		return nil, c.fail("get_events", brokerErr(err))
	}
	return events, nil
}

func (c *ChatCoordinator) AcknowledgeEvents(_ context.Context, currentUserID domain.UserID) ([]event.Event, error) {
	events, err := c.broker.AcknowledgeEvents(currentUserID)
	if err != nil {
		return nil, c.fail("acknowledge_events", brokerErr(err))
	}
	return events, nil
}

// GetFirstCircleUserList returns the users who started sharing a chat with currentUserID since
// the previous call, or all of them when full is set. A FirstCircleUserListUpdate is published
// to the user's channel only when the result is not empty.
func (c *ChatCoordinator) GetFirstCircleUserList(ctx context.Context, currentUserID domain.UserID, full bool) ([]domain.UserSummary, error) {
	snapshot := c.circles.lock(currentUserID)
	defer snapshot.unlock()

	var (
		added   []domain.UserSummary
		current []domain.UserID
	)
	err := c.read(ctx, func(repo contract.IChatRepository) error {
		chatIDs, err := repo.GetJoinedChatIDs(ctx, currentUserID)
		if err != nil {
			return repoErr(err)
		}
		if len(chatIDs) > 0 {
			if current, err = repo.GetChatMemberIDs(ctx, chatIDs); err != nil {
				return repoErr(err)
			}
		}
		entrants := snapshot.diff(current, full)
		if len(entrants) == 0 {
			return nil
		}
		added, err = repo.GetUsers(ctx, entrants)
		return repoErr(err)
	})
	if err != nil {
		return nil, c.fail("get_first_circle_user_list", err)
	}
	// entrants stay unreported until their profiles were read
	snapshot.replace(current)
	if len(added) == 0 {
		return []domain.UserSummary{}, nil
	}

	slices.SortFunc(added, func(a, b domain.UserSummary) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	update := event.NewFirstCircleUserListUpdate(full, added)
	if err := c.broker.PostEvent(domain.UserChannel(currentUserID), update); err != nil {
		return added, c.fail("get_first_circle_user_list", brokerErr(err))
	}
	c.log.Debug("coordinator.first_circle.update", "user_id", currentUserID, "added", len(added), "full", full)
	return added, nil
}

// write runs fn in a unit of work and commits it. Errors returned by fn are already classified.
func (c *ChatCoordinator) write(ctx context.Context, fn func(repo contract.IChatRepository) error) error {
	uow, err := c.uow.Begin(ctx)
	if err != nil {
		return repoErr(err)
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err := fn(uow.Chats()); err != nil {
		return err
	}
	return repoErr(uow.Commit(ctx))
}

// read runs fn in a unit of work that is always rolled back.
func (c *ChatCoordinator) read(ctx context.Context, fn func(repo contract.IChatRepository) error) error {
	uow, err := c.uow.Begin(ctx)
	if err != nil {
		return repoErr(err)
	}
	defer func() { _ = uow.Rollback(ctx) }()
	return fn(uow.Chats())
}

func (c *ChatCoordinator) censor(text string) string {
	if c.moderator == nil {
		return text
	}
	censored, words := c.moderator.Censor(text)
	if len(words) > 0 {
		c.log.Debug("coordinator.message.censor", "matches", len(words))
	}
	return censored
}

func (c *ChatCoordinator) fail(op string, err error) error {
	code := errors.Code(err)
	c.metrics.CoordinatorError(op, code)
	switch code {
	case "repository", "event_broker", "internal":
		c.log.Error("Coordinator operation failed", "op", op, "error", err)
	default:
		c.log.Debug("coordinator.request.reject", "op", op, "error", err)
	}
	return err
}

func repoErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errors.ErrRepository, err)
}

// notFoundAsBadRequest reports a missing referenced entity as a bad request.
func notFoundAsBadRequest(err error) error {
	if errors.Is(err, errors.ErrNotFound) {
		return fmt.Errorf("%w: %w", errors.ErrBadRequest, err)
	}
	return repoErr(err)
}

func brokerErr(err error) error {
	return fmt.Errorf("%w: %w", errors.ErrEventBroker, err)
}
