package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamManager fans session updates out to WebSocket subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan []byte]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe registers a buffered channel for the session. The returned func unsubscribes and closes it.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan []byte, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan []byte, 16)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan []byte]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			if _, live := subs[ch]; !live {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast delivers msg to every subscriber of the session, dropping it for slow clients.
func (sm *StreamManager) Broadcast(sessionID string, msg []byte) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			slog.Warn("WS: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// Subscribers reports how many clients follow the session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// Stream handles GET /sessions/{id}/ws.
// The client first receives the current view, then every update of the session.
// Text frames carrying a JSON domain.Input are applied like POST /input.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("WebSocket upgrade error", "err", err)
		return
	}

	updates, cancel := s.Streams.Subscribe(id)
	s.Logger.Info("WS: client connected", "session_id", id)

	resp, err := runner.Respond(r.Context(), s.Engine, state, nil)
	if err == nil {
		var initial []byte
		if initial, err = json.Marshal(resp); err == nil {
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			err = wsConn.WriteMessage(websocket.TextMessage, initial)
		}
	}
	if err != nil {
		s.Logger.Warn("WS: initial view failed", "session_id", id, "err", err)
		cancel()
		wsConn.Close()
		return
	}

	direct := make(chan []byte, 4)
	inputs := make(chan domain.Input, 8)
	go s.writePump(wsConn, updates, direct)
	go s.applyInputs(id, inputs, direct)
	s.readPump(wsConn, id, inputs, direct, cancel)
}

// errorFrame mirrors the JSON body of a failed HTTP request.
func errorFrame(err error) []byte {
	data, _ := json.Marshal(map[string]any{
		"error":      err.Error(),
		"error_kind": string(domain.KindOf(err)),
		"status":     StatusFor(err),
	})
	return data
}

// sendDirect queues a frame for this client only, dropping it when the client lags.
func sendDirect(direct chan<- []byte, msg []byte) {
	select {
	case direct <- msg:
	default:
	}
}

// applyInputs runs interactions off the read loop, so a slow generation
// does not stall ping handling.
func (s *Server) applyInputs(id string, inputs <-chan domain.Input, direct chan<- []byte) {
	for input := range inputs {
		// Accepted results reach this client through its own subscription.
		resp, err := s.Interact(context.Background(), id, input)
		if resp == nil && err != nil {
			s.Logger.Debug("WS: input not applied", "session_id", id, "err", err)
			sendDirect(direct, errorFrame(err))
		}
	}
}

func (s *Server) readPump(wsConn *websocket.Conn, id string, inputs chan<- domain.Input, direct chan<- []byte, cancel func()) {
	defer func() {
		close(inputs)
		cancel()
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.Logger.Warn("WebSocket error", "session_id", id, "err", err)
			}
			return
		}
		wsConn.SetReadDeadline(time.Now().Add(pongWait))

		var input domain.Input
		if err := json.Unmarshal(data, &input); err != nil {
			s.Logger.Warn("WS: invalid input frame", "session_id", id, "err", err)
			sendDirect(direct, errorFrame(&badInputError{err}))
			continue
		}
		select {
		case inputs <- input:
		default:
			sendDirect(direct, errorFrame(&badInputError{errors.New("too many pending inputs")}))
		}
	}
}

func (s *Server) writePump(wsConn *websocket.Conn, updates <-chan []byte, direct <-chan []byte) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-updates:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case message := <-direct:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
