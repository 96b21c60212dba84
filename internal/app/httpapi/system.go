package httpapi

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/huntboard/huntboard/internal/app/domain/event"
	"github.com/huntboard/huntboard/internal/middleware"
)

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// systemStatus reports host and process health for operators.
func (h *handler) systemStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"time":       timeNow().Format(time.RFC3339),
		"goroutines": runtime.NumGoroutine(),
		"go_version": runtime.Version(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		status["memory"] = map[string]interface{}{
			"total_bytes":  vm.Total,
			"used_bytes":   vm.Used,
			"used_percent": vm.UsedPercent,
		}
	}
	if percents, err := cpu.PercentWithContext(r.Context(), 0, false); err == nil && len(percents) > 0 {
		status["cpu_percent"] = percents[0]
	}
	if uptime, err := host.UptimeWithContext(r.Context()); err == nil {
		status["host_uptime_seconds"] = uptime
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *handler) getStatistics(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Statistics.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// listEvents returns recent journal entries. An optional names filter takes a
// comma-separated list of event names; from/to bound the window.
func (h *handler) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("from") != "" || q.Get("to") != "" {
		from, err := parseTimeParam(q.Get("from"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		to, err := parseTimeParam(q.Get("to"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if to.IsZero() {
			to = timeNow()
		}

		var names []string
		if raw := q.Get("names"); raw != "" {
			names = strings.Split(raw, ",")
		}
		entries, err := h.deps.Events.ListEventsBetween(r.Context(), names, from, to)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entriesOrEmpty(entries))
		return
	}

	entries, err := h.deps.Events.ListRecentEvents(r.Context(), intQuery(r, "limit", 100))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesOrEmpty(entries))
}

func entriesOrEmpty(entries []event.Entry) []event.Entry {
	if entries == nil {
		return []event.Entry{}
	}
	return entries
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
