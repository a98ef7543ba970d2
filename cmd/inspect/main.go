// Command inspect reads and seeds the relay's Badger store. Stop the relay first: Badger holds a
// directory lock.
//
//	inspect scan -prefix user:
//	inspect users -filter ad
//	inspect chats -user <uuid>
//	inspect messages -chat <uuid> -limit 20
//	inspect censor badger,mushroom
//	inspect token -user <uuid>
package main

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/internal"
	"chat-relay/repositories"
	"chat-relay/services"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
)

type config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,default=./data/badger"`
	JWTSecret         string        `env:"JWT_SECRET"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()
	var cfg config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: inspect scan|users|chats|messages|censor|token [flags]")
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	dbPath := fs.String("db", cfg.BadgerFilepath, "Path to badger DB")
	prefix := fs.String("prefix", "user:", "Prefix to scan")
	filter := fs.String("filter", "", "Case-insensitive name filter")
	userFlag := fs.String("user", "", "User id")
	chatFlag := fs.String("chat", "", "Chat id")
	limit := fs.Int("limit", 50, "Maximum rows")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("opening badger: %w", err)
	}
	defer func() { _ = db.Close() }()

	if args[0] == "scan" {
		rows, err := internal.Scan(db, *prefix, *limit, nil)
		if err != nil {
			return err
		}
		internal.RenderRows(os.Stdout, rows)
		return nil
	}
	if args[0] == "censor" {
		words := strings.Split(strings.Join(fs.Args(), ","), ",")
		if err := repositories.AddCensoredWords(db, words); err != nil {
			return err
		}
		stored, err := repositories.LoadCensoredWords(db)
		if err != nil {
			return err
		}
		fmt.Printf("%d censored words stored\n", len(stored))
		return nil
	}

	log := logs.GetLoggerFromLevel(slog.LevelWarn)
	store, err := repositories.NewChatStore(db, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	uow, err := store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()
	repo := uow.Chats()

	switch args[0] {
	case "users":
		users, err := repo.GetUserList(ctx, *filter, limit, nil)
		if err != nil {
			return err
		}
		internal.RenderTable(os.Stdout, []string{"ID", "Name"}, lo.Map(users, func(u domain.UserSummary, _ int) []string {
			return []string{u.ID.String(), u.Name}
		}))

	case "chats":
		userID, err := uuid.Parse(*userFlag)
		if err != nil {
			return fmt.Errorf("-user: %w", err)
		}
		chats, err := repo.GetJoinedChatList(ctx, userID)
		if err != nil {
			return err
		}
		internal.RenderTable(os.Stdout, []string{"ID", "Title", "Members", "Last message"}, lo.Map(chats, func(c domain.ChatSummary, _ int) []string {
			return []string{c.ID.String(), c.Title, strconv.Itoa(c.MembersCount), lo.FromPtr(c.LastMessageText)}
		}))

	case "messages":
		chatID, err := uuid.Parse(*chatFlag)
		if err != nil {
			return fmt.Errorf("-chat: %w", err)
		}
		messages, err := repo.GetMessageList(ctx, chatID, nil, nil, limit)
		if err != nil {
			return err
		}
		internal.RenderTable(os.Stdout, []string{"ID", "Sent", "Sender", "Text"}, lo.Map(messages, func(m domain.Message, _ int) []string {
			sender := m.SenderID.String()
			if m.IsNotification {
				sender = "-"
			}
			return []string{strconv.FormatInt(int64(m.ID), 10), m.SentAt.Format(time.DateTime), sender, m.Text}
		}))

	case "token":
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required to issue tokens")
		}
		userID, err := uuid.Parse(*userFlag)
		if err != nil {
			return fmt.Errorf("-user: %w", err)
		}
		_ = uow.Rollback(ctx)
		token, err := services.NewAuthService(store, auth.NewTokens(cfg.JWTSecret), cfg.AuthTokenDuration).IssueToken(ctx, userID)
		if err != nil {
			return err
		}
		fmt.Println(token)

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}
