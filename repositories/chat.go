package repositories

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Key layout. Ids are zero padded to 19 digits so lexicographical order is numerical order.
//
//	user:{user}                  -> userRecord
//	username:{lower name}:{user} -> nil, name index
//	chat:{chat}                  -> domain.Chat
//	owner:{user}:{chat}          -> nil
//	member:{chat}:{user}         -> nil
//	joined:{user}:{chat}         -> nil
//	msg:{chat}:{id}              -> domain.Message
//	msgid:{id}                   -> chat id, lookup index
const (
	userPrefix     = "user:"
	userNamePrefix = "username:"
	chatPrefix     = "chat:"
	ownerPrefix    = "owner:"
	memberPrefix   = "member:"
	joinedPrefix   = "joined:"
	messagePrefix  = "msg:"
	messageIDIndex = "msgid:"
	messageSeqKey  = "seq:message"
)

// ChatStore is the BadgerDB unit-of-work factory. Every unit of work is one read-write transaction.
type ChatStore struct {
	db  *badger.DB
	log *slog.Logger
	seq *badger.Sequence
	now func() time.Time
}

func NewChatStore(db *badger.DB, log *slog.Logger) (*ChatStore, error) {
	seq, err := db.GetSequence([]byte(messageSeqKey), 100)
	if err != nil {
		return nil, fmt.Errorf("%w: message sequence: %w", errors.ErrRepositoryDatabase, err)
	}
	return &ChatStore{db: db, log: log, seq: seq, now: time.Now}, nil
}

// Close releases the leased message ids. The database itself is owned by the caller.
func (s *ChatStore) Close() error {
	return s.seq.Release()
}

func (s *ChatStore) Begin(ctx context.Context) (contract.IUnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrRepositoryDatabase, err)
	}
	txn := s.db.NewTransaction(true)
	return &unitOfWork{txn: txn, repo: &chatRepository{txn: txn, store: s}}, nil
}

type unitOfWork struct {
	txn  *badger.Txn
	repo *chatRepository
	done bool
}

func (u *unitOfWork) Chats() contract.IChatRepository { return u.repo }

func (u *unitOfWork) Commit(_ context.Context) error {
	if u.done {
		return fmt.Errorf("%w: unit of work already finished", errors.ErrRepositoryRequest)
	}
	u.done = true
	if err := u.txn.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", errors.ErrRepositoryDatabase, err)
	}
	return nil
}

// Rollback discards the transaction unless it was committed.
func (u *unitOfWork) Rollback(_ context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	u.txn.Discard()
	return nil
}

type chatRepository struct {
	txn   *badger.Txn
	store *ChatStore
}

type userRecord struct {
	ID        domain.UserID `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
}

func (r *chatRepository) AddUser(_ context.Context, name string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, fmt.Errorf("%w: empty user name", errors.ErrRepositoryRequest)
	}
	rec := userRecord{ID: uuid.New(), Name: name, CreatedAt: r.store.now().UTC()}
	if err := r.put(userKey(rec.ID), rec); err != nil {
		return domain.User{}, err
	}
	if err := r.set(userNameKey(rec.Name, rec.ID), nil); err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: rec.ID, Name: rec.Name}, nil
}

func (r *chatRepository) GetUsers(_ context.Context, ids []domain.UserID) ([]domain.UserSummary, error) {
	out := make([]domain.UserSummary, 0, len(ids))
	for _, id := range lo.Uniq(ids) {
		var rec userRecord
		if err := r.get(userKey(id), &rec); err != nil {
			return nil, err
		}
		out = append(out, domain.UserSummary{ID: rec.ID, Name: rec.Name})
	}
	return out, nil
}

// GetUserList scans the name index, so results come ordered by lowercase name.
func (r *chatRepository) GetUserList(_ context.Context, nameFilter string, limit, offset *int) ([]domain.UserSummary, error) {
	filter := strings.ToLower(strings.TrimSpace(nameFilter))
	skip := domain.PageOffset(offset)
	take := domain.PageLimit(limit)

	var ids []domain.UserID
	err := r.scanKeys(userNamePrefix, func(rest string) error {
		sep := strings.LastIndexByte(rest, ':')
		if sep < 0 {
			return nil
		}
		if filter != "" && !strings.Contains(rest[:sep], filter) {
			return nil
		}
		if skip > 0 {
			skip--
			return nil
		}
		id, err := uuid.Parse(rest[sep+1:])
		if err != nil {
			return fmt.Errorf("%w: corrupt name index: %w", errors.ErrRepositoryDatabase, err)
		}
		ids = append(ids, id)
		if len(ids) == take {
			return errStopScan
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserSummary, 0, len(ids))
	for _, id := range ids {
		var rec userRecord
		if err := r.get(userKey(id), &rec); err != nil {
			return nil, err
		}
		out = append(out, domain.UserSummary{ID: rec.ID, Name: rec.Name})
	}
	return out, nil
}

func (r *chatRepository) AddChat(_ context.Context, newChat domain.NewChat) (domain.Chat, error) {
	if err := r.requireUser(newChat.OwnerID); err != nil {
		return domain.Chat{}, err
	}
	chat := domain.Chat{
		ID:        uuid.New(),
		Title:     newChat.Title,
		OwnerID:   newChat.OwnerID,
		CreatedAt: r.store.now().UTC(),
	}
	if err := r.put(chatKey(chat.ID), chat); err != nil {
		return domain.Chat{}, err
	}
	if err := r.set(pairKey(ownerPrefix, chat.OwnerID, chat.ID), nil); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

func (r *chatRepository) GetChat(_ context.Context, chatID domain.ChatID) (domain.Chat, error) {
	var chat domain.Chat
	if err := r.get(chatKey(chatID), &chat); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

func (r *chatRepository) GetOwnedChats(ctx context.Context, userID domain.UserID) ([]domain.Chat, error) {
	ids, err := r.scanIDs(ownerPrefix + userID.String() + ":")
	if err != nil {
		return nil, err
	}
	chats := make([]domain.Chat, 0, len(ids))
	for _, id := range ids {
		chat, err := r.GetChat(ctx, id)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	slices.SortFunc(chats, func(a, b domain.Chat) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return chats, nil
}

func (r *chatRepository) GetJoinedChatIDs(_ context.Context, userID domain.UserID) ([]domain.ChatID, error) {
	return r.scanIDs(joinedPrefix + userID.String() + ":")
}

func (r *chatRepository) GetJoinedChatList(ctx context.Context, userID domain.UserID) ([]domain.ChatSummary, error) {
	ids, err := r.GetJoinedChatIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ChatSummary, 0, len(ids))
	for _, id := range ids {
		summary, err := r.GetChatSummary(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	slices.SortFunc(out, func(a, b domain.ChatSummary) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (r *chatRepository) GetChatSummary(ctx context.Context, chatID domain.ChatID) (domain.ChatSummary, error) {
	chat, err := r.GetChat(ctx, chatID)
	if err != nil {
		return domain.ChatSummary{}, err
	}
	members, err := r.scanIDs(memberPrefix + chatID.String() + ":")
	if err != nil {
		return domain.ChatSummary{}, err
	}
	summary := domain.ChatSummary{ID: chat.ID, Title: chat.Title, MembersCount: len(members)}

	last, err := r.GetMessageList(ctx, chatID, nil, lo.ToPtr(true), lo.ToPtr(1))
	if err != nil {
		return domain.ChatSummary{}, err
	}
	if len(last) == 1 {
		summary.LastMessageText = lo.ToPtr(last[0].Text)
	}
	return summary, nil
}

func (r *chatRepository) GetChatMemberIDs(_ context.Context, chatIDs []domain.ChatID) ([]domain.UserID, error) {
	var out []domain.UserID
	for _, chatID := range lo.Uniq(chatIDs) {
		ids, err := r.scanIDs(memberPrefix + chatID.String() + ":")
		if err != nil {
			return nil, err
		}
		out = append(out, ids...)
	}
	return lo.Uniq(out), nil
}

func (r *chatRepository) AddUserToChat(_ context.Context, chatID domain.ChatID, userID domain.UserID) error {
	if err := r.exists(chatKey(chatID)); err != nil {
		return err
	}
	if err := r.requireUser(userID); err != nil {
		return err
	}
	key := pairKey(memberPrefix, chatID, userID)
	if err := r.exists(key); err == nil {
		return fmt.Errorf("%w: %w: user %s already in chat %s",
			errors.ErrRepositoryRequest, errors.ErrAlreadyExists, userID, chatID)
	} else if !errors.Is(err, errors.ErrNotFound) {
		return err
	}
	if err := r.set(key, nil); err != nil {
		return err
	}
	return r.set(pairKey(joinedPrefix, userID, chatID), nil)
}

func (r *chatRepository) AddMessage(_ context.Context, msg domain.NewMessage) (domain.Message, error) {
	if err := r.exists(chatKey(msg.ChatID)); err != nil {
		return domain.Message{}, err
	}
	return r.appendMessage(domain.Message{
		ChatID:   msg.ChatID,
		SenderID: msg.SenderID,
		Text:     msg.Text,
	})
}

func (r *chatRepository) AddNotification(_ context.Context, chatID domain.ChatID, text string) (domain.Notification, error) {
	if err := r.exists(chatKey(chatID)); err != nil {
		return domain.Notification{}, err
	}
	msg, err := r.appendMessage(domain.Message{ChatID: chatID, Text: text, IsNotification: true})
	if err != nil {
		return domain.Notification{}, err
	}
	return domain.Notification{ID: msg.ID, ChatID: msg.ChatID, Text: msg.Text, At: msg.SentAt}, nil
}

func (r *chatRepository) appendMessage(msg domain.Message) (domain.Message, error) {
	next, err := r.store.seq.Next()
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: message id: %w", errors.ErrRepositoryDatabase, err)
	}
	// sequences start at zero, ids start at one
	msg.ID = domain.MessageID(next + 1)
	msg.SentAt = r.store.now().UTC()
	if err := r.put(messageKey(msg.ChatID, msg.ID), msg); err != nil {
		return domain.Message{}, err
	}
	if err := r.set(messageIDKey(msg.ID), []byte(msg.ChatID.String())); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

func (r *chatRepository) GetMessage(_ context.Context, messageID domain.MessageID) (domain.Message, error) {
	var raw []byte
	item, err := r.txn.Get(messageIDKey(messageID))
	if err != nil {
		return domain.Message{}, r.mapErr(err, fmt.Sprintf("message %d", messageID))
	}
	if raw, err = item.ValueCopy(nil); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %w", errors.ErrRepositoryDatabase, err)
	}
	chatID, err := uuid.ParseBytes(raw)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: corrupt message index: %w", errors.ErrRepositoryDatabase, err)
	}
	var msg domain.Message
	if err := r.get(messageKey(chatID, messageID), &msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

func (r *chatRepository) EditMessage(ctx context.Context, messageID domain.MessageID, text string, at time.Time) (domain.Message, error) {
	msg, err := r.GetMessage(ctx, messageID)
	if err != nil {
		return domain.Message{}, err
	}
	msg.Text = text
	msg.EditedAt = lo.ToPtr(at.UTC())
	if err := r.put(messageKey(msg.ChatID, msg.ID), msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// GetMessageList pages through a chat timeline. startID is exclusive, order defaults to newest first.
func (r *chatRepository) GetMessageList(_ context.Context, chatID domain.ChatID, startID *domain.MessageID, orderDesc *bool, limit *int) ([]domain.Message, error) {
	prefix := []byte(messagePrefix + chatID.String() + ":")
	desc := domain.Descending(orderDesc)
	take := domain.PageLimit(limit)

	options := badger.DefaultIteratorOptions
	options.Reverse = desc
	options.Prefix = prefix
	it := r.txn.NewIterator(options)
	defer it.Close()

	var seek []byte
	switch {
	case startID != nil:
		seek = messageKey(chatID, *startID)
	case desc:
		// Past the greatest possible id: msg:{chat}:9999999999999999999
		seek = append(slices.Clone(prefix), []byte("9999999999999999999")...)
	default:
		seek = prefix
	}
	it.Seek(seek)
	if startID != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seek) {
		it.Next()
	}

	out := make([]domain.Message, 0, take)
	for ; it.ValidForPrefix(prefix) && len(out) < take; it.Next() {
		var msg domain.Message
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &msg)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: decode message: %w", errors.ErrRepositoryDatabase, err)
		}
		out = append(out, msg)
	}
	return out, nil
}

func (r *chatRepository) requireUser(userID domain.UserID) error {
	return r.exists(userKey(userID))
}

func (r *chatRepository) exists(key []byte) error {
	if _, err := r.txn.Get(key); err != nil {
		return r.mapErr(err, string(key))
	}
	return nil
}

func (r *chatRepository) get(key []byte, out any) error {
	item, err := r.txn.Get(key)
	if err != nil {
		return r.mapErr(err, string(key))
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
	if err != nil {
		return fmt.Errorf("%w: decode %s: %w", errors.ErrRepositoryDatabase, key, err)
	}
	return nil
}

func (r *chatRepository) put(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", errors.ErrRepositoryRequest, key, err)
	}
	return r.set(key, data)
}

func (r *chatRepository) set(key, value []byte) error {
	if err := r.txn.Set(key, value); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrRepositoryDatabase, err)
	}
	return nil
}

var errStopScan = fmt.Errorf("stop scan")

// scanKeys walks the keys under prefix, handing fn the part after the prefix.
func (r *chatRepository) scanKeys(prefix string, fn func(rest string) error) error {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	options.Prefix = []byte(prefix)
	it := r.txn.NewIterator(options)
	defer it.Close()

	for it.Seek(options.Prefix); it.ValidForPrefix(options.Prefix); it.Next() {
		err := fn(string(it.Item().Key()[len(prefix):]))
		if err == errStopScan {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *chatRepository) scanIDs(prefix string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.scanKeys(prefix, func(rest string) error {
		id, err := uuid.Parse(rest)
		if err != nil {
			return fmt.Errorf("%w: corrupt key %s%s: %w", errors.ErrRepositoryDatabase, prefix, rest, err)
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

func (r *chatRepository) mapErr(err error, what string) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %w: %s", errors.ErrRepositoryRequest, errors.ErrNotFound, what)
	}
	r.store.log.Error("Badger read failed", "key", what, "error", err)
	return fmt.Errorf("%w: %w", errors.ErrRepositoryDatabase, err)
}

func userKey(id domain.UserID) []byte { return []byte(userPrefix + id.String()) }

func userNameKey(name string, id domain.UserID) []byte {
	return []byte(userNamePrefix + strings.ToLower(name) + ":" + id.String())
}

func chatKey(id domain.ChatID) []byte { return []byte(chatPrefix + id.String()) }

func pairKey(prefix string, a, b uuid.UUID) []byte {
	return []byte(prefix + a.String() + ":" + b.String())
}

func messageKey(chatID domain.ChatID, id domain.MessageID) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d", messagePrefix, chatID, id))
}

func messageIDKey(id domain.MessageID) []byte {
	return []byte(fmt.Sprintf("%s%019d", messageIDIndex, id))
}
