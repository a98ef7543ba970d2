// Package ws exposes the chat coordinator over a websocket.
package ws

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/runtime"
	"chat-relay/services"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/time/rate"
)

const (
	DefaultPollInterval = time.Second
	DefaultRatePerSec   = 20

	maxFrameBytes = 64 << 10
	writeTimeout  = 5 * time.Second
	outboundSize  = 64
)

// SessionOpener hands out the per-user delivery session. Only one may be open per user.
type SessionOpener interface {
	OpenSession(userID domain.UserID) (*runtime.Session, error)
}

// Gateway serves one websocket per authenticated user. Delivery is pull based: the writer loop
// fetches a batch whenever the session signals new events, and on every poll tick so that
// unacknowledged batches are redelivered.
type Gateway struct {
	log          *slog.Logger
	sessions     SessionOpener
	coordinator  services.IChatCoordinator
	metrics      *observability.Metrics
	pollInterval time.Duration
	ratePerSec   float64
	burst        int
}

type GatewayOption func(*Gateway)

func WithPollInterval(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.pollInterval = d
		}
	}
}

// WithRateLimit bounds inbound frames per connection. A non positive rate disables the limit.
func WithRateLimit(perSec float64, burst int) GatewayOption {
	return func(g *Gateway) {
		g.ratePerSec = perSec
		g.burst = max(burst, 1)
	}
}

func WithMetrics(m *observability.Metrics) GatewayOption {
	return func(g *Gateway) { g.metrics = m }
}

func NewGateway(log *slog.Logger, sessions SessionOpener, coordinator services.IChatCoordinator, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		log:          log,
		sessions:     sessions,
		coordinator:  coordinator,
		pollInterval: DefaultPollInterval,
		ratePerSec:   DefaultRatePerSec,
		burst:        DefaultRatePerSec,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ServeHTTP expects the user id in the request context, see auth.Tokens.Middleware.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{Subprotocols: []string{Subprotocol}})
	if err != nil {
		g.log.Error("ws.accept.fail", "user_id", userID, "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()
	if sp := conn.Subprotocol(); sp != Subprotocol {
		_ = conn.Close(websocket.StatusProtocolError, "subprotocol required")
		return
	}
	conn.SetReadLimit(maxFrameBytes)

	session, err := g.sessions.OpenSession(userID)
	if err != nil {
		g.log.Info("ws.session.reject", "user_id", userID, "error", err)
		if errors.Is(err, errors.ErrAlreadySubscribed) {
			_ = conn.Close(websocket.StatusPolicyViolation, "already connected")
		} else {
			_ = conn.Close(websocket.StatusInternalError, "session unavailable")
		}
		return
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := g.coordinator.SubscribeForUpdates(ctx, userID); err != nil {
		g.log.Error("ws.subscribe.fail", "user_id", userID, "error", err)
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}

	g.metrics.ConnectionOpened()
	defer g.metrics.ConnectionClosed()
	g.log.Info("ws.connection.open", "user_id", userID, "remote", r.RemoteAddr)

	c := &connection{
		Gateway:  g,
		conn:     conn,
		session:  session,
		userID:   userID,
		outbound: make(chan Frame, outboundSize),
		poke:     make(chan struct{}, 1),
	}
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		if err := c.writeLoop(ctx); err != nil {
			g.log.Info("ws.write.fail", "user_id", userID, "close_status", websocket.CloseStatus(err), "error", err)
		}
	}()

	err = c.readLoop(ctx)
	cancel()
	<-writerDone

	switch {
	case websocket.CloseStatus(err) != -1, errors.Is(err, context.Canceled):
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
	default:
		g.log.Info("ws.read.fail", "user_id", userID, "error", err)
		_ = conn.Close(websocket.StatusInternalError, "read failed")
	}
	g.log.Info("ws.connection.close", "user_id", userID)
}

type connection struct {
	*Gateway
	conn     *websocket.Conn
	session  *runtime.Session
	userID   domain.UserID
	outbound chan Frame
	// poke asks the writer to fetch again, after an ack freed the backlog
	poke chan struct{}
}

func (c *connection) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-c.outbound:
			if err := c.write(ctx, f); err != nil {
				return err
			}
			continue
		case <-c.session.Ready():
		case <-c.poke:
		case <-ticker.C:
		}
		if err := c.deliver(ctx); err != nil {
			return err
		}
	}
}

func (c *connection) deliver(ctx context.Context) error {
	events, err := c.coordinator.GetEvents(ctx, c.userID, nil)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	envelopes := make([]event.Envelope, 0, len(events))
	for _, e := range events {
		env, err := event.ToEnvelope(e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Kind(), err)
		}
		envelopes = append(envelopes, env)
	}
	f, err := newFrame(TypeEvents, "", EventsData{Events: envelopes})
	if err != nil {
		return err
	}
	return c.write(ctx, f)
}

func (c *connection) write(parent context.Context, f Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(parent, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, b)
}

func (c *connection) readLoop(ctx context.Context) error {
	var limiter *rate.Limiter
	if c.ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(c.ratePerSec), c.burst)
	}
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return err
		}
		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.reply(ctx, errorFrame("", "bad_request", "invalid JSON"))
			continue
		}
		if limiter != nil && !limiter.Allow() {
			c.reply(ctx, errorFrame(f.ID, "rate_limited", "too many frames"))
			continue
		}
		c.reply(ctx, c.handle(ctx, f))
	}
}

// reply queues f for the writer. It gives up when the connection is going away.
func (c *connection) reply(ctx context.Context, f Frame) {
	select {
	case c.outbound <- f:
	case <-ctx.Done():
	}
}

func (c *connection) handle(ctx context.Context, f Frame) Frame {
	result, err := c.dispatch(ctx, f)
	if err != nil {
		c.log.Debug("ws.request.fail", "user_id", c.userID, "type", f.Type, "error", err)
		return errorFrame(f.ID, errors.Code(err), err.Error())
	}
	reply, err := newFrame(f.Type+okSuffix, f.ID, result)
	if err != nil {
		return errorFrame(f.ID, "internal", err.Error())
	}
	return reply
}

func (c *connection) dispatch(ctx context.Context, f Frame) (any, error) {
	switch f.Type {
	case TypeEventsAck:
		acked, err := c.coordinator.AcknowledgeEvents(ctx, c.userID)
		if err != nil {
			return nil, err
		}
		select {
		case c.poke <- struct{}{}:
		default:
		}
		return AckData{Acknowledged: len(acked)}, nil

	case TypeMessageSend:
		req, err := decode[MessageSendRequest](f.Data)
		if err != nil {
			return nil, err
		}
		return c.coordinator.SendMessage(ctx, c.userID, domain.NewMessage{ChatID: req.ChatID, SenderID: c.userID, Text: req.Text})

	case TypeMessageEdit:
		req, err := decode[MessageEditRequest](f.Data)
		if err != nil {
			return nil, err
		}
		return c.coordinator.EditMessage(ctx, c.userID, req.MessageID, req.Text)

	case TypeChatCreate:
		req, err := decode[ChatCreateRequest](f.Data)
		if err != nil {
			return nil, err
		}
		return c.coordinator.CreateChat(ctx, c.userID, domain.NewChat{Title: req.Title, OwnerID: c.userID})

	case TypeChatAddUser:
		req, err := decode[ChatAddUserRequest](f.Data)
		if err != nil {
			return nil, err
		}
		return struct{}{}, c.coordinator.AddUserToChat(ctx, c.userID, req.UserID, req.ChatID)

	case TypeChatsList:
		return c.coordinator.GetJoinedChatList(ctx, c.userID)

	case TypeMessagesList:
		req, err := decode[MessagesListRequest](f.Data)
		if err != nil {
			return nil, err
		}
		return c.coordinator.GetMessageList(ctx, req.ChatID, req.StartID, req.OrderDesc, req.Limit)

	case TypeUsersList:
		req, err := decode[UsersListRequest](f.Data)
		if err != nil {
			return nil, err
		}
		return c.coordinator.GetUserList(ctx, req.NameFilter, req.Limit, req.Offset)

	case TypeFirstCircleGet:
		req, err := decode[FirstCircleRequest](f.Data)
		if err != nil {
			return nil, err
		}
		return c.coordinator.GetFirstCircleUserList(ctx, c.userID, req.Full)

	default:
		return nil, fmt.Errorf("%w: unsupported type %q", errors.ErrBadRequest, f.Type)
	}
}

// decode tolerates a missing payload for requests whose fields are all optional.
func decode[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %w", errors.ErrBadRequest, err)
	}
	return v, nil
}

func errorFrame(id, code, detail string) Frame {
	data, _ := json.Marshal(ErrorData{Code: code, Detail: detail})
	return Frame{Type: TypeError, ID: id, Data: data}
}
