package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"scent-store/internal/domain"
	"scent-store/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultHeartbeat = 25 * time.Second

// StorageEvent is the envelope view pushed to listeners after every change
type StorageEvent struct {
	Cart  []domain.CartItem   `json:"cart"`
	Count int                 `json:"count"`
	Admin AdminStatusResponse `json:"admin"`
}

// EventsHandler streams session storage changes as server-sent events
type EventsHandler struct {
	logger    *zap.Logger
	heartbeat time.Duration

	closeOnce sync.Once
	closed    chan struct{}
}

// NewEventsHandler creates a new EventsHandler. A non-positive heartbeat uses the default.
func NewEventsHandler(logger *zap.Logger, heartbeat time.Duration) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &EventsHandler{
		logger:    logger,
		heartbeat: heartbeat,
		closed:    make(chan struct{}),
	}
}

// Close ends every open stream. Server shutdown does not cancel request
// contexts, so it has to be called before waiting for connections to drain.
func (h *EventsHandler) Close() {
	h.closeOnce.Do(func() { close(h.closed) })
}

// RegisterRoutes registers the event stream route
func (h *EventsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/session/events", h.Stream)
}

// Stream sends the current envelope view, then one "storage" event per
// coalesced change until the client goes away
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	rc := http.NewResponseController(w)
	// The stream outlives the server write timeout
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Debug("Could not clear write deadline", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	// A pending signal already covers any change made before it is read
	changed := make(chan struct{}, 1)
	unsubscribe := s.Events().Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	h.logger.Debug("Session listener attached", zap.String("session_id", s.ID()))
	defer h.logger.Debug("Session listener detached", zap.String("session_id", s.ID()))

	if err := h.send(w, rc, r, s); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.closed:
			return
		case <-changed:
			if err := h.send(w, rc, r, s); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func (h *EventsHandler) send(w http.ResponseWriter, rc *http.ResponseController, r *http.Request, s *session.Session) error {
	envelope := s.Envelope(r.Context())

	event := StorageEvent{
		Cart:  envelope.Cart,
		Admin: AdminStatusResponse{LoggedIn: envelope.Admin.LoggedIn},
	}
	if event.Cart == nil {
		event.Cart = []domain.CartItem{}
	}
	for _, item := range event.Cart {
		event.Count += item.Quantity
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode storage event", zap.Error(err))
		return err
	}

	if _, err := fmt.Fprintf(w, "event: storage\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return rc.Flush()
}
