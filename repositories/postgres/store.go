// Package postgres is the PostgreSQL implementation of the chat unit of work.
package postgres

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

const DefaultSchema = "chat_relay"

var identRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// NewPool opens a pgx pool and checks a connection can be acquired.
func NewPool(ctx context.Context, url string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("%w: parse database url: %w", errors.ErrRepositoryDatabase, err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrRepositoryDatabase, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	conn, err := pool.Acquire(pingCtx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", errors.ErrRepositoryDatabase, err)
	}
	conn.Release()
	return pool, nil
}

// ChatStore is the PostgreSQL unit-of-work factory.
// It does not own the pool: the caller closes it.
type ChatStore struct {
	pool   *pgxpool.Pool
	log    *slog.Logger
	schema string
	t      tables
	now    func() time.Time
}

type tables struct {
	users, chats, members, messages string
}

type Option func(*ChatStore) error

// WithSchema sets the schema holding the tables. The name is validated then quoted in every query.
func WithSchema(schema string) Option {
	return func(s *ChatStore) error {
		schema = strings.TrimSpace(schema)
		if !identRE.MatchString(schema) {
			return fmt.Errorf("%w: invalid schema identifier %q", errors.ErrRepositoryRequest, schema)
		}
		s.schema = schema
		return nil
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *ChatStore) error {
		s.now = now
		return nil
	}
}

func NewChatStore(pool *pgxpool.Pool, log *slog.Logger, opts ...Option) (*ChatStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("%w: nil pool", errors.ErrRepositoryRequest)
	}
	s := &ChatStore{pool: pool, log: log, schema: DefaultSchema, now: time.Now}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.t = tables{
		users:    ident(s.schema, "users"),
		chats:    ident(s.schema, "chats"),
		members:  ident(s.schema, "chat_members"),
		messages: ident(s.schema, "messages"),
	}
	return s, nil
}

// Migrate creates the schema and its tables when missing.
func (s *ChatStore) Migrate(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: migrate: %w", errors.ErrRepositoryDatabase, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	schema := pgx.Identifier{s.schema}.Sanitize()
	for _, stmt := range []string{
		`CREATE SCHEMA IF NOT EXISTS ` + schema,
		`SET LOCAL search_path TO ` + schema,
		schemaSQL,
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: migrate: %w", errors.ErrRepositoryDatabase, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: migrate: %w", errors.ErrRepositoryDatabase, err)
	}
	s.log.Info("postgres.migrate.done", "schema", s.schema)
	return nil
}

func (s *ChatStore) Begin(ctx context.Context) (contract.IUnitOfWork, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %w", errors.ErrRepositoryDatabase, err)
	}
	return &unitOfWork{tx: tx, repo: &chatRepository{tx: tx, t: s.t, now: s.now}}, nil
}

type unitOfWork struct {
	tx   pgx.Tx
	repo *chatRepository
	done bool
}

func (u *unitOfWork) Chats() contract.IChatRepository { return u.repo }

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return fmt.Errorf("%w: unit of work already finished", errors.ErrRepositoryRequest)
	}
	u.done = true
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", errors.ErrRepositoryDatabase, err)
	}
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("%w: rollback: %w", errors.ErrRepositoryDatabase, err)
	}
	return nil
}

func ident(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}
