package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator"
	"github.com/rs/zerolog/log"

	"livepoll/internal/models"
	"livepoll/internal/polls"
)

// Config holds WebSocket connection tuning.
type Config struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConfig returns the default WebSocket configuration.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  64 * 1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

type inboundMessage struct {
	client *Client
	data   []byte
}

// Hub is the single broadcast domain of the process. Every connected client
// receives every broadcast event; there is no per-poll room scoping yet, but
// all sends funnel through broadcastAll so scoping can be added there without
// touching the protocol.
//
// All event handling runs on the Run goroutine, so the clients and
// participants maps need no locking beyond the mutex that lets the stats
// endpoint read them.
type Hub struct {
	store    polls.Store
	config   Config
	validate *validator.Validate

	mu           sync.RWMutex
	clients      map[*Client]bool
	participants map[*Client]string

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundMessage
}

func NewHub(store polls.Store) *Hub {
	return NewHubWithConfig(store, DefaultConfig())
}

func NewHubWithConfig(store polls.Store, config Config) *Hub {
	return &Hub{
		store:        store,
		config:       config,
		validate:     validator.New(),
		clients:      make(map[*Client]bool),
		participants: make(map[*Client]string),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		inbound:      make(chan inboundMessage, 256),
	}
}

// Run is the hub's event loop. Handlers run to completion one at a time;
// a slow store call holds up the loop, which matches the at-most-once,
// no-backpressure contract of the broadcast channel.
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("realtime hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("realtime hub shutting down")
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Info().Str("connection_id", client.ID).Msg("client connected")

		case client := <-h.unregister:
			if name, removed := h.removeClient(client); removed {
				log.Info().Str("connection_id", client.ID).Str("username", name).Msg("client disconnected")
				h.broadcastAll(EventParticipantsUpdate, h.participantNames())
			}

		case message := <-h.inbound:
			h.dispatch(ctx, message.client, message.data)
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn().Err(err).Str("connection_id", c.ID).Msg("malformed client message")
		return
	}

	switch env.Event {
	case EventCreatePoll:
		h.handleCreatePoll(ctx, c, env.Data)
	case EventVote:
		h.handleVote(ctx, c, env.Data)
	case EventSubmitAnswer:
		h.broadcastAll(EventPollResults, env.Data)
	case EventJoinChat:
		h.handleJoinChat(c, env.Data)
	case EventChatMessage:
		h.broadcastAll(EventChatMessage, env.Data)
	case EventKickOut:
		h.handleKickOut(env.Data)
	default:
		log.Debug().Str("event", env.Event).Str("connection_id", c.ID).Msg("unknown event")
	}
}

// handleCreatePoll persists the poll and then broadcasts it, so the broadcast
// document always carries its stored identifier. Failures go back to the
// originating client only.
func (h *Hub) handleCreatePoll(ctx context.Context, c *Client, data json.RawMessage) {
	// Some clients double-encode the payload as a JSON string.
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		data = []byte(encoded)
	}

	var req models.CreatePollRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendTo(c, EventPollError, pollErrorPayload{Message: err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.sendTo(c, EventPollError, pollErrorPayload{Message: err.Error()})
		return
	}

	poll, err := h.store.Create(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to create poll")
		h.sendTo(c, EventPollError, pollErrorPayload{Message: "failed to create poll"})
		return
	}

	log.Info().Str("poll_id", poll.ID.Hex()).Str("teacher", poll.TeacherUserName).Msg("poll created")
	h.broadcastAll(EventPollCreated, poll)
}

func (h *Hub) handleVote(ctx context.Context, c *Client, data json.RawMessage) {
	var req models.VoteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendTo(c, EventPollError, pollErrorPayload{Message: err.Error()})
		return
	}

	poll, err := h.store.IncrementVote(ctx, req.PollID, req.OptionID)
	if err != nil {
		log.Warn().Err(err).Str("poll_id", req.PollID).Int("option_id", req.OptionID).Msg("vote failed")
		h.sendTo(c, EventPollError, pollErrorPayload{Message: "vote failed: " + err.Error()})
		return
	}

	h.broadcastAll(EventPollUpdate, poll)
}

func (h *Hub) handleJoinChat(c *Client, data json.RawMessage) {
	var req joinChatPayload
	if err := json.Unmarshal(data, &req); err != nil || req.Username == "" {
		log.Warn().Str("connection_id", c.ID).Msg("joinChat without username")
		return
	}

	h.mu.Lock()
	if _, connected := h.clients[c]; !connected {
		h.mu.Unlock()
		return
	}
	h.participants[c] = req.Username
	h.mu.Unlock()

	log.Info().Str("connection_id", c.ID).Str("username", req.Username).Msg("joined chat")
	h.broadcastAll(EventParticipantsUpdate, h.participantNames())
}

// handleKickOut force-disconnects the named participant. A kick for a name
// that is not present is a no-op.
func (h *Hub) handleKickOut(data json.RawMessage) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		var req joinChatPayload
		if err := json.Unmarshal(data, &req); err != nil {
			log.Warn().Msg("malformed kickOut payload")
			return
		}
		name = req.Username
	}

	var target *Client
	h.mu.RLock()
	for client, username := range h.participants {
		if username == name {
			target = client
			break
		}
	}
	h.mu.RUnlock()
	if target == nil {
		return
	}

	// Queue the notice before the send channel closes so it still flushes.
	if message, err := marshalEnvelope(EventKickedOut, nil); err == nil {
		target.enqueue(message)
	}
	h.removeClient(target)

	log.Info().Str("username", name).Msg("participant kicked out")
	h.broadcastAll(EventParticipantsUpdate, h.participantNames())
}

// removeClient drops a client from both maps and closes its send channel.
// Safe to call twice; the second call reports removed=false.
func (h *Hub) removeClient(c *Client) (name string, removed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return "", false
	}
	delete(h.clients, c)
	name = h.participants[c]
	delete(h.participants, c)
	close(c.send)
	return name, true
}

func (h *Hub) participantNames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.participants))
	for _, name := range h.participants {
		names = append(names, name)
	}
	return names
}

func (h *Hub) sendTo(c *Client, event string, data interface{}) {
	h.mu.RLock()
	_, connected := h.clients[c]
	h.mu.RUnlock()
	if !connected {
		return
	}

	message, err := marshalEnvelope(event, data)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal event")
		return
	}
	if !c.enqueue(message) {
		log.Warn().Str("connection_id", c.ID).Msg("send buffer full, dropping client")
		h.removeClient(c)
		c.conn.Close()
	}
}

// broadcastAll delivers an event to every connected client. At-most-once: a
// client whose buffer is full is dropped rather than block the loop.
func (h *Hub) broadcastAll(event string, data interface{}) {
	message, err := marshalEnvelope(event, data)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		if !client.enqueue(message) {
			log.Warn().Str("connection_id", client.ID).Msg("send buffer full, dropping client")
			h.removeClient(client)
			client.conn.Close()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		h.removeClient(client)
		client.conn.Close()
	}
}
