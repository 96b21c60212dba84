package httpapi

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/huntboard/huntboard/internal/app/domain/application"
)

// auditRecord is one API interaction. It complements the domain event
// journal: events capture committed state changes, the trail also captures
// reads and rejected attempts, keyed to the entity the route touched.
type auditRecord struct {
	At         time.Time `json:"at"`
	Actor      string    `json:"actor,omitempty"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Entity     string    `json:"entity,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	Status     int       `json:"status"`
	DurationMS int64     `json:"duration_ms"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
}

// entityFromPath maps a request path onto the aggregate it addresses.
func entityFromPath(p string) (entity, id string) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) < 2 {
		return "", ""
	}
	switch parts[0] {
	case "applications":
		return application.EntityName, parts[1]
	case "states":
		return "state", parts[1]
	default:
		return "", ""
	}
}

type auditSink interface {
	write(rec auditRecord) error
}

// auditTrail keeps the most recent records in a fixed circular buffer and
// forwards each one to the sink.
type auditTrail struct {
	mu   sync.Mutex
	ring []auditRecord
	next int
	full bool
	sink auditSink
}

func newAuditTrail(capacity int, sink auditSink) *auditTrail {
	if capacity <= 0 {
		capacity = 200
	}
	return &auditTrail{ring: make([]auditRecord, capacity), sink: sink}
}

func (t *auditTrail) record(rec auditRecord) {
	t.mu.Lock()
	t.ring[t.next] = rec
	t.next++
	if t.next == len(t.ring) {
		t.next = 0
		t.full = true
	}
	t.mu.Unlock()

	if t.sink != nil {
		// Persistence is best-effort; a full disk must not fail the request.
		_ = t.sink.write(rec)
	}
}

// recent returns up to limit records oldest-first, optionally filtered to one
// actor. limit <= 0 means everything still buffered.
func (t *auditTrail) recent(limit int, actor string) []auditRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := t.next
	start := 0
	if t.full {
		size = len(t.ring)
		start = t.next
	}

	out := make([]auditRecord, 0, size)
	for i := 0; i < size; i++ {
		rec := t.ring[(start+i)%len(t.ring)]
		if actor != "" && rec.Actor != actor {
			continue
		}
		out = append(out, rec)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// jsonlAuditSink appends one JSON object per line to a file.
type jsonlAuditSink struct {
	mu   sync.Mutex
	file *os.File
}

// newJSONLAuditSink opens the trail file for appending. An empty path
// disables file persistence.
func newJSONLAuditSink(path string) (*jsonlAuditSink, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	return &jsonlAuditSink{file: f}, nil
}

func (s *jsonlAuditSink) write(rec auditRecord) error {
	if s == nil || s.file == nil {
		return nil
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.file.Write(append(b, '\n'))
	return err
}
