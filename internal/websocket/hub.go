package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"noteful-server/internal/domain"

	"github.com/rs/zerolog"
)

const broadcastBufferSize = 256

type Options struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
	MaxConnections int
}

type clientMessage struct {
	client *Client
	data   []byte
}

// Hub fans note change events out to every connected client. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	clients      map[*Client]bool
	clientsMutex sync.RWMutex

	register     chan *Client
	unregisterCh chan *Client
	broadcast    chan []byte
	direct       chan clientMessage
	done         chan struct{}

	opts   Options
	logger zerolog.Logger
}

func NewHub(opts Options, logger zerolog.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		register:     make(chan *Client),
		unregisterCh: make(chan *Client),
		broadcast:    make(chan []byte, broadcastBufferSize),
		direct:       make(chan clientMessage),
		done:         make(chan struct{}),
		opts:         opts,
		logger:       logger.With().Str("component", "websocket_hub").Logger(),
	}
}

// Run processes hub events until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.clientsMutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.clientsMutex.Unlock()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregisterCh:
			h.unregisterClient(client)

		case data := <-h.broadcast:
			h.clientsMutex.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.Send <- data:
				default:
					slow = append(slow, client)
				}
			}
			h.clientsMutex.RUnlock()
			for _, client := range slow {
				h.logger.Warn().Str("client_id", client.ID).Msg("send buffer full, dropping client")
				h.unregisterClient(client)
			}

		case msg := <-h.direct:
			h.clientsMutex.RLock()
			if h.clients[msg.client] {
				select {
				case msg.client.Send <- msg.data:
				default:
				}
			}
			h.clientsMutex.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) NoteCreated(note *domain.NoteResponse) {
	h.Broadcast(TypeNoteCreated, note)
}

func (h *Hub) NoteUpdated(note *domain.NoteResponse) {
	h.Broadcast(TypeNoteUpdated, note)
}

// Broadcast queues a message for all clients. It never blocks the caller;
// when the queue is full the event is dropped.
func (h *Hub) Broadcast(msgType MessageType, payload interface{}) {
	data, err := encode(msgType, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("type", string(msgType)).Msg("failed to encode broadcast")
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.logger.Warn().Str("type", string(msgType)).Msg("broadcast queue full, dropping event")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()

	if h.opts.MaxConnections > 0 && len(h.clients) >= h.opts.MaxConnections {
		h.logger.Warn().Int("max", h.opts.MaxConnections).Msg("max connections reached, rejecting client")
		close(client.Send)
		return
	}

	h.clients[client] = true
	h.logger.Info().Str("client_id", client.ID).Msg("client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
		h.logger.Info().Str("client_id", client.ID).Msg("client unregistered")
	}
}

func (h *Hub) unregister(client *Client) {
	select {
	case h.unregisterCh <- client:
	case <-h.done:
	}
}

func (h *Hub) sendTo(client *Client, msgType MessageType, payload interface{}) {
	data, err := encode(msgType, payload)
	if err != nil {
		return
	}
	select {
	case h.direct <- clientMessage{client: client, data: data}:
	case <-h.done:
	}
}

func encode(msgType MessageType, payload interface{}) ([]byte, error) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}
