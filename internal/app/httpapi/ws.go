package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/huntboard/huntboard/internal/app/domain/application"
	"github.com/huntboard/huntboard/internal/middleware"
	"github.com/huntboard/huntboard/pkg/logger"
)

const wsWriteTimeout = 5 * time.Second

// Hub pushes appointment notifications to connected browsers. Each user may
// hold several connections (tabs); a notification goes to all of them. It
// satisfies the alert scanner's BrowserNotifier port.
type Hub struct {
	upgrader websocket.Upgrader
	log      *logger.Logger

	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]bool
}

// NewHub creates a notification hub.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewDefault("ws-hub")
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens in the CORS middleware.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:   log,
		conns: make(map[string]map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.register(userID, conn)
	h.log.WithField("user_id", userID).Debug("websocket connected")

	// Reads are discarded; the channel is push-only. The read loop exists to
	// notice the peer closing.
	go func() {
		defer h.unregister(userID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]bool)
	}
	h.conns[userID][conn] = true
}

func (h *Hub) unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
	conn.Close()
}

// ConnectionCount reports the number of live connections for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[userID])
}

// NotifyAppointment implements the alert scanner's browser channel. Delivery
// to zero connections is not an error; the write-once flag still flips so the
// user is not re-notified on reconnect.
func (h *Hub) NotifyAppointment(userID string, app *application.Application, appt application.Appointment) error {
	payload := struct {
		Type          string    `json:"type"`
		ApplicationID string    `json:"application_id"`
		CompanyName   string    `json:"company_name"`
		Role          string    `json:"role"`
		AppointmentID string    `json:"appointment_id"`
		Description   string    `json:"description"`
		StartUTC      time.Time `json:"start_utc"`
	}{
		Type:          "appointment_reminder",
		ApplicationID: app.ID,
		CompanyName:   app.CompanyName,
		Role:          app.Role,
		AppointmentID: appt.ID,
		Description:   appt.Description,
		StartUTC:      appt.StartDateTimeUTC,
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns[userID]))
	for conn := range h.conns[userID] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(payload); err != nil {
			h.log.WithError(err).WithField("user_id", userID).Debug("websocket write failed")
			h.unregister(userID, conn)
		}
	}
	return nil
}
