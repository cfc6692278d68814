package ingress

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cfoust/dragonball/pkg/config"
	"github.com/cfoust/dragonball/pkg/protocol"
	"github.com/cfoust/dragonball/pkg/session"
	"github.com/cfoust/dragonball/pkg/utils"

	"github.com/mileusna/useragent"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
)

const (
	WRITE_TIMEOUT  = 5 * time.Second
	ANONYMOUS_NAME = "Anonymous"
)

// WSClient is one browser playing over a WebSocket.
type WSClient struct {
	session utils.Session
	conn    *websocket.Conn
	codec   protocol.Codec
	limiter *rate.Limiter
	host    string
	device  string

	// Holds the newest frame not yet handed to the game
	latest  chan []byte
	done    chan struct{}
	readErr error
}

func NewWSClient(ctx context.Context, conn *websocket.Conn, codec protocol.Codec, limiter *rate.Limiter, host string, device string) *WSClient {
	client := &WSClient{
		session: utils.NewSession(ctx),
		conn:    conn,
		codec:   codec,
		limiter: limiter,
		host:    host,
		device:  device,
		latest:  make(chan []byte, 1),
		done:    make(chan struct{}),
	}
	go client.poll()
	return client
}

var _ session.Transport = (*WSClient)(nil)

func (c *WSClient) Host() string {
	return c.host
}

func (c *WSClient) DeviceType() string {
	return c.device
}

// poll reads frames until the connection fails. Only the newest unread frame
// is kept, so a slow reader always sees the client's latest position.
func (c *WSClient) poll() {
	defer close(c.done)
	for {
		_, message, err := c.conn.Read(c.session.Ctx())
		if err != nil {
			c.readErr = err
			return
		}

		select {
		case <-c.latest:
		default:
		}
		c.latest <- message
	}
}

// Receive returns the next frame from the client, no faster than the
// client's rate limit allows. Frames that arrive while waiting replace the
// one being held.
func (c *WSClient) Receive(ctx context.Context) ([]byte, error) {
	var message []byte
	select {
	case message = <-c.latest:
	case <-c.done:
		return nil, c.readErr
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	err := c.limiter.Wait(ctx)
	if err != nil {
		return nil, err
	}

	select {
	case newer := <-c.latest:
		message = newer
	default:
	}

	return message, nil
}

func (c *WSClient) Send(ctx context.Context, data []byte) error {
	typ := websocket.MessageText
	if c.codec.Binary() {
		typ = websocket.MessageBinary
	}
	return WriteTimeout(ctx, WRITE_TIMEOUT, c.conn, typ, data)
}

func WriteTimeout(ctx context.Context, timeout time.Duration, c *websocket.Conn, typ websocket.MessageType, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Write(ctx, typ, msg)
}

// WSIngress accepts game sessions over WebSockets.
type WSIngress struct {
	bridge   session.Bridge
	settings config.SessionSettings
	origins  []string

	clients map[*WSClient]struct{}
	mutex   deadlock.Mutex
}

// NewWSIngress returns an ingress that records scores with bridge. bridge may
// be nil, in which case no scores are kept.
func NewWSIngress(bridge session.Bridge, settings config.SessionSettings, origins []string) *WSIngress {
	return &WSIngress{
		bridge:   bridge,
		settings: settings,
		origins:  origins,
		clients:  make(map[*WSClient]struct{}),
	}
}

func (server *WSIngress) AddClient(client *WSClient) {
	server.mutex.Lock()
	server.clients[client] = struct{}{}
	server.mutex.Unlock()
}

func (server *WSIngress) RemoveClient(client *WSClient) {
	server.mutex.Lock()
	delete(server.clients, client)
	server.mutex.Unlock()
}

func (server *WSIngress) NumClients() int {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	return len(server.clients)
}

func (server *WSIngress) limiter() *rate.Limiter {
	if server.settings.InputRate <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	burst := server.settings.InputBurst
	if burst <= 0 {
		burst = 1
	}

	return rate.NewLimiter(rate.Limit(server.settings.InputRate), burst)
}

func getIdentity(r *http.Request) session.Identity {
	query := r.URL.Query()
	identity := session.Identity{
		ID:   query.Get("user"),
		Name: query.Get("name"),
	}

	if identity.Name == "" {
		identity.Name = ANONYMOUS_NAME
	}

	return identity
}

func describeDevice(userAgent string) string {
	agent := useragent.Parse(userAgent)
	switch {
	case agent.Bot:
		return "bot"
	case agent.Mobile, agent.Tablet:
		return "mobile"
	case agent.Desktop:
		return "desktop"
	}
	return "unknown"
}

func (server *WSIngress) HandleClient(ctx context.Context, client *WSClient, identity session.Identity) error {
	server.AddClient(client)
	defer server.RemoveClient(client)

	logger := log.With().
		Str("session", client.session.ID()).
		Str("host", client.Host()).
		Str("device", client.DeviceType()).
		Str("user", identity.ID).
		Str("name", identity.Name).
		Logger()

	logger.Info().Str("encoding", string(client.codec.Encoding())).Msg("client joined")

	// Anonymous players can play but have nothing to save their score under
	bridge := server.bridge
	if identity.ID == "" {
		bridge = nil
	}

	game := session.New(identity, client, client.codec, bridge, session.Settings{
		TickInterval:  server.settings.Tick(),
		CommitTimeout: server.settings.Commit(),
		Logger:        &logger,
	})

	err := game.Run(ctx)

	final := game.Snapshot()
	logger.Info().
		Int("score", final.Score).
		Bool("gameOver", final.GameOver).
		Dur("duration", time.Since(client.session.Started())).
		Msg("client left")

	return err
}

func (server *WSIngress) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	codec, err := protocol.GetCodec(protocol.Encoding(r.URL.Query().Get("encoding")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: server.origins,
	})

	if err != nil {
		log.Error().Err(err).Msg("error accepting client connection")
		return
	}

	defer c.Close(websocket.StatusInternalError, "operational fault during game")

	// We use nginx for ingress everywhere, so check this first
	hostname := r.RemoteAddr

	original, ok := r.Header["X-Forwarded-For"]
	if ok {
		hostname = original[0]
	}

	client := NewWSClient(
		r.Context(),
		c,
		codec,
		server.limiter(),
		hostname,
		describeDevice(r.UserAgent()),
	)
	defer client.session.Cancel()

	err = server.HandleClient(client.session.Ctx(), client, getIdentity(r))
	if errors.Is(err, context.Canceled) {
		return
	}
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("client connection failed")
		return
	}
}

// Shutdown ends every running game.
func (server *WSIngress) Shutdown() {
	server.mutex.Lock()
	defer server.mutex.Unlock()

	for client := range server.clients {
		client.session.Cancel()
	}
}
