package services

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type coordinatorMocks struct {
	factory *mocks.MockIUnitOfWorkFactory
	uow     *mocks.MockIUnitOfWork
	repo    *mocks.MockIChatRepository
	broker  *mocks.MockIEventBroker
}

func newMockedCoordinator(t *testing.T) (*ChatCoordinator, coordinatorMocks) {
	ctrl := gomock.NewController(t)
	m := coordinatorMocks{
		factory: mocks.NewMockIUnitOfWorkFactory(ctrl),
		uow:     mocks.NewMockIUnitOfWork(ctrl),
		repo:    mocks.NewMockIChatRepository(ctrl),
		broker:  mocks.NewMockIEventBroker(ctrl),
	}
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return NewChatCoordinator(log, m.factory, m.broker), m
}

// expectUnitOfWork wires one Begin/Chats/Rollback cycle.
func (m coordinatorMocks) expectUnitOfWork() {
	m.factory.EXPECT().Begin(gomock.Any()).Return(m.uow, nil).Times(1)
	m.uow.EXPECT().Chats().Return(m.repo).Times(1)
	m.uow.EXPECT().Rollback(gomock.Any()).Return(nil).Times(1)
}

func TestChatCoordinator_SendMessage_As_Someone_Else(t *testing.T) {
	req := require.New(t)
	// No expectation: a single repository or broker call fails the test
	coordinator, _ := newMockedCoordinator(t)
	current := uuid.New()

	_, err := coordinator.SendMessage(context.Background(), current, domain.NewMessage{
		ChatID: uuid.New(), SenderID: uuid.New(), Text: "hi",
	})

	req.ErrorIs(err, errors.ErrUnauthorizedAction)
}

func TestChatCoordinator_SendMessage_Invalid_Text(t *testing.T) {
	req := require.New(t)
	coordinator, _ := newMockedCoordinator(t)
	current := uuid.New()

	_, err := coordinator.SendMessage(context.Background(), current, domain.NewMessage{
		ChatID: uuid.New(), SenderID: current, Text: "",
	})

	req.ErrorIs(err, errors.ErrBadRequest)
}

func TestChatCoordinator_AddUserToChat_By_Non_Owner(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	owner, intruder, target := uuid.New(), uuid.New(), uuid.New()
	chat := domain.Chat{ID: uuid.New(), Title: "private", OwnerID: owner}

	// Given the chat belongs to someone else
	m.expectUnitOfWork()
	m.repo.EXPECT().GetChat(ctx, chat.ID).Return(chat, nil).Times(1)
	// Then nothing is written, committed or published
	m.repo.EXPECT().AddUserToChat(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	m.repo.EXPECT().AddNotification(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	m.uow.EXPECT().Commit(gomock.Any()).Times(0)

	err := coordinator.AddUserToChat(ctx, intruder, target, chat.ID)

	req.ErrorIs(err, errors.ErrUnauthorizedAction)
}

func TestChatCoordinator_AddUserToChat_Unknown_Chat(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	chatID := uuid.New()

	m.expectUnitOfWork()
	m.repo.EXPECT().GetChat(ctx, chatID).
		Return(domain.Chat{}, fmt.Errorf("%w: %w: chat", errors.ErrRepositoryRequest, errors.ErrNotFound)).Times(1)

	err := coordinator.AddUserToChat(ctx, uuid.New(), uuid.New(), chatID)

	req.ErrorIs(err, errors.ErrBadRequest)
	req.False(errors.Is(err, errors.ErrUnauthorizedAction))
}

func TestChatCoordinator_SendMessage_Repository_Failure(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	current := uuid.New()
	msg := domain.NewMessage{ChatID: uuid.New(), SenderID: current, Text: "hi"}

	m.expectUnitOfWork()
	m.repo.EXPECT().AddMessage(ctx, msg).
		Return(domain.Message{}, fmt.Errorf("%w: connection reset", errors.ErrRepositoryDatabase)).Times(1)
	m.uow.EXPECT().Commit(gomock.Any()).Times(0)

	_, err := coordinator.SendMessage(ctx, current, msg)

	req.ErrorIs(err, errors.ErrRepository)
	req.ErrorIs(err, errors.ErrRepositoryDatabase)
}

func TestChatCoordinator_SendMessage_Commit_Failure_Publishes_Nothing(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	current := uuid.New()
	msg := domain.NewMessage{ChatID: uuid.New(), SenderID: current, Text: "hi"}

	m.expectUnitOfWork()
	m.repo.EXPECT().AddMessage(ctx, msg).Return(domain.Message{ID: 1, ChatID: msg.ChatID}, nil).Times(1)
	m.uow.EXPECT().Commit(ctx).Return(fmt.Errorf("%w: conflict", errors.ErrRepositoryDatabase)).Times(1)
	m.broker.EXPECT().PostEvent(gomock.Any(), gomock.Any()).Times(0)

	_, err := coordinator.SendMessage(ctx, current, msg)

	req.ErrorIs(err, errors.ErrRepository)
}

func TestChatCoordinator_SendMessage_Broker_Failure_After_Commit(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	current := uuid.New()
	msg := domain.NewMessage{ChatID: uuid.New(), SenderID: current, Text: "hi"}
	stored := domain.Message{ID: 7, ChatID: msg.ChatID, SenderID: current, Text: "hi", SentAt: time.Now()}

	gomock.InOrder(
		m.factory.EXPECT().Begin(ctx).Return(m.uow, nil),
		m.uow.EXPECT().Chats().Return(m.repo),
		m.repo.EXPECT().AddMessage(ctx, msg).Return(stored, nil),
		m.uow.EXPECT().Commit(ctx).Return(nil),
		m.broker.EXPECT().PostEvent(domain.ChatChannel(msg.ChatID), gomock.Any()).
			Return(fmt.Errorf("%w: queue down", errors.ErrBroker)),
	)
	m.uow.EXPECT().Rollback(ctx).Return(nil).Times(1)

	got, err := coordinator.SendMessage(ctx, current, msg)

	// The write stands, the notification is uncertain
	req.ErrorIs(err, errors.ErrEventBroker)
	req.Equal(stored, got)
}

func TestChatCoordinator_SendMessage_Publishes_To_Chat_Channel(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	current := uuid.New()
	msg := domain.NewMessage{ChatID: uuid.New(), SenderID: current, Text: "hello"}
	stored := domain.Message{ID: 3, ChatID: msg.ChatID, SenderID: current, Text: "hello", SentAt: time.Now()}

	m.expectUnitOfWork()
	m.repo.EXPECT().AddMessage(ctx, msg).Return(stored, nil).Times(1)
	m.uow.EXPECT().Commit(ctx).Return(nil).Times(1)

	var posted event.Event
	m.broker.EXPECT().PostEvent(domain.ChatChannel(msg.ChatID), gomock.Any()).
		DoAndReturn(func(_ domain.Channel, e event.Event) error {
			posted = e
			return nil
		}).Times(1)

	_, err := coordinator.SendMessage(ctx, current, msg)

	req.NoError(err)
	chatMessage, ok := posted.(event.ChatMessageEvent)
	req.True(ok)
	req.Equal(stored.ID, chatMessage.MessageID)
	req.Equal("hello", chatMessage.Text)
	req.NotEmpty(chatMessage.ID)
}

func TestChatCoordinator_EditMessage_Of_Someone_Else(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	author, editor := uuid.New(), uuid.New()
	stored := domain.Message{ID: 5, ChatID: uuid.New(), SenderID: author, Text: "mine"}

	m.expectUnitOfWork()
	m.repo.EXPECT().GetMessage(ctx, stored.ID).Return(stored, nil).Times(1)
	m.repo.EXPECT().EditMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	m.uow.EXPECT().Commit(gomock.Any()).Times(0)

	_, err := coordinator.EditMessage(ctx, editor, stored.ID, "yours now")

	req.ErrorIs(err, errors.ErrUnauthorizedAction)
}

func TestChatCoordinator_EditMessage_Unknown_Message(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)

	m.expectUnitOfWork()
	m.repo.EXPECT().GetMessage(ctx, domain.MessageID(42)).
		Return(domain.Message{}, fmt.Errorf("%w: %w", errors.ErrRepositoryRequest, errors.ErrNotFound)).Times(1)

	_, err := coordinator.EditMessage(ctx, uuid.New(), 42, "text")

	req.ErrorIs(err, errors.ErrBadRequest)
}

func TestChatCoordinator_CreateChat_For_Someone_Else(t *testing.T) {
	req := require.New(t)
	coordinator, _ := newMockedCoordinator(t)

	_, err := coordinator.CreateChat(context.Background(), uuid.New(), domain.NewChat{Title: "t", OwnerID: uuid.New()})

	req.ErrorIs(err, errors.ErrUnauthorizedAction)
}

func TestChatCoordinator_SubscribeForUpdates(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	userID := uuid.New()
	chat1, chat2 := uuid.New(), uuid.New()

	m.expectUnitOfWork()
	m.repo.EXPECT().GetJoinedChatIDs(ctx, userID).Return([]domain.ChatID{chat1, chat2}, nil).Times(1)
	m.broker.EXPECT().SubscribeMany([]domain.Channel{
		domain.ChatChannel(chat1), domain.ChatChannel(chat2), domain.UserChannel(userID),
	}, userID).Return(nil).Times(1)

	req.NoError(coordinator.SubscribeForUpdates(ctx, userID))
}

func TestChatCoordinator_SubscribeForUpdates_Broker_Failure(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	userID := uuid.New()

	m.expectUnitOfWork()
	m.repo.EXPECT().GetJoinedChatIDs(ctx, userID).Return(nil, nil).Times(1)
	m.broker.EXPECT().SubscribeMany(gomock.Any(), userID).
		Return(fmt.Errorf("%w: %w", errors.ErrBroker, errors.ErrUsage)).Times(1)

	err := coordinator.SubscribeForUpdates(ctx, userID)

	req.ErrorIs(err, errors.ErrEventBroker)
}

func TestChatCoordinator_GetEvents_Not_Subscribed(t *testing.T) {
	req := require.New(t)
	coordinator, m := newMockedCoordinator(t)
	userID := uuid.New()

	m.broker.EXPECT().GetEvents(userID, nil).
		Return(nil, fmt.Errorf("%w: %w: no session", errors.ErrBroker, errors.ErrNotSubscribed)).Times(1)

	_, err := coordinator.GetEvents(context.Background(), userID, nil)

	req.ErrorIs(err, errors.ErrEventBroker)
	req.ErrorIs(err, errors.ErrNotSubscribed)
	req.Equal("not_subscribed", errors.Code(err))
}

func TestChatCoordinator_GetMessageList_Passes_Pagination_Through(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	chatID := uuid.New()
	start := domain.MessageID(10)
	desc := false
	limit := 5

	m.expectUnitOfWork()
	m.repo.EXPECT().GetMessageList(ctx, chatID, &start, &desc, &limit).
		Return([]domain.Message{{ID: 11}}, nil).Times(1)
	m.uow.EXPECT().Commit(gomock.Any()).Times(0)

	msgs, err := coordinator.GetMessageList(ctx, chatID, &start, &desc, &limit)

	req.NoError(err)
	req.Len(msgs, 1)
}

func TestChatCoordinator_GetFirstCircleUserList_Retries_After_Lookup_Failure(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	coordinator, m := newMockedCoordinator(t)
	userID, peerID := uuid.New(), uuid.New()
	chatID := uuid.New()

	// Given a circle whose profile lookup fails once
	m.factory.EXPECT().Begin(gomock.Any()).Return(m.uow, nil).Times(2)
	m.uow.EXPECT().Chats().Return(m.repo).Times(2)
	m.uow.EXPECT().Rollback(gomock.Any()).Return(nil).Times(2)
	m.repo.EXPECT().GetJoinedChatIDs(ctx, userID).Return([]domain.ChatID{chatID}, nil).Times(2)
	m.repo.EXPECT().GetChatMemberIDs(ctx, []domain.ChatID{chatID}).
		Return([]domain.UserID{userID, peerID}, nil).Times(2)
	gomock.InOrder(
		m.repo.EXPECT().GetUsers(ctx, gomock.Len(2)).
			Return(nil, fmt.Errorf("%w: db down", errors.ErrRepositoryDatabase)),
		m.repo.EXPECT().GetUsers(ctx, gomock.Len(2)).
			Return([]domain.UserSummary{{ID: userID, Name: "Ann"}, {ID: peerID, Name: "Bob"}}, nil),
	)
	m.broker.EXPECT().PostEvent(domain.UserChannel(userID), gomock.Any()).Return(nil).Times(1)

	// When the first query fails
	_, err := coordinator.GetFirstCircleUserList(ctx, userID, false)
	req.ErrorIs(err, errors.ErrRepository)

	// Then the retry still reports both members
	users, err := coordinator.GetFirstCircleUserList(ctx, userID, false)
	req.NoError(err)
	req.Len(users, 2)
	req.Equal([]domain.UserID{userID, peerID}, []domain.UserID{users[0].ID, users[1].ID})
}
