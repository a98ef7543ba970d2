//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IEventBroker is the delivery side of the system: channels, sessions and mailboxes.
type IEventBroker interface {
	HasSession(userID domain.UserID) bool
	Subscribe(channel domain.Channel, userID domain.UserID) error
	SubscribeMany(channels []domain.Channel, userID domain.UserID) error
	PostEvent(channel domain.Channel, e event.Event) error
	PostEventAfterAck(channel domain.Channel, e event.Event) error
	GetEvents(userID domain.UserID, limit *int) ([]event.Event, error)
	AcknowledgeEvents(userID domain.UserID) ([]event.Event, error)
}

type IChatRepository interface {
	AddUser(ctx context.Context, name string) (domain.User, error)
	GetUsers(ctx context.Context, ids []domain.UserID) ([]domain.UserSummary, error)
	GetUserList(ctx context.Context, nameFilter string, limit, offset *int) ([]domain.UserSummary, error)
	AddChat(ctx context.Context, chat domain.NewChat) (domain.Chat, error)
	GetChat(ctx context.Context, chatID domain.ChatID) (domain.Chat, error)
	GetOwnedChats(ctx context.Context, userID domain.UserID) ([]domain.Chat, error)
	GetJoinedChatIDs(ctx context.Context, userID domain.UserID) ([]domain.ChatID, error)
	GetJoinedChatList(ctx context.Context, userID domain.UserID) ([]domain.ChatSummary, error)
	GetChatSummary(ctx context.Context, chatID domain.ChatID) (domain.ChatSummary, error)
	GetChatMemberIDs(ctx context.Context, chatIDs []domain.ChatID) ([]domain.UserID, error)
	AddUserToChat(ctx context.Context, chatID domain.ChatID, userID domain.UserID) error
	AddMessage(ctx context.Context, msg domain.NewMessage) (domain.Message, error)
	GetMessage(ctx context.Context, messageID domain.MessageID) (domain.Message, error)
	EditMessage(ctx context.Context, messageID domain.MessageID, text string, at time.Time) (domain.Message, error)
	AddNotification(ctx context.Context, chatID domain.ChatID, text string) (domain.Notification, error)
	GetMessageList(ctx context.Context, chatID domain.ChatID, startID *domain.MessageID, orderDesc *bool, limit *int) ([]domain.Message, error)
}

// IUnitOfWork scopes a set of repository calls to one transaction.
// Rollback after a successful Commit is a no-op, so callers always defer it.
type IUnitOfWork interface {
	Chats() IChatRepository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type IUnitOfWorkFactory interface {
	Begin(ctx context.Context) (IUnitOfWork, error)
}
