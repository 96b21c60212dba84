package appstate

import "time"

// ApplicationState is an entry of the global, ordered state catalog. Entries
// are deactivated rather than deleted so historical applications keep their
// snapshot intact.
type ApplicationState struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	HexColor       string    `json:"hex_color"`
	SeqNo          int       `json:"seq_no"`
	DeactivatedUTC time.Time `json:"deactivated_utc,omitempty"`
	CreatedUTC     time.Time `json:"created_utc"`
	UpdatedUTC     time.Time `json:"updated_utc"`
}

// Active reports whether the state is available for new applications.
func (s ApplicationState) Active() bool {
	return s.DeactivatedUTC.IsZero()
}

// DefaultCatalog returns the catalog seeded for a fresh installation.
// Identifiers are assigned by the store on creation.
func DefaultCatalog() []ApplicationState {
	names := []struct {
		name  string
		color string
	}{
		{"Applied", "#1f77b4"},
		{"Phone Screen", "#ff7f0e"},
		{"Interview", "#2ca02c"},
		{"Offer", "#d62728"},
	}
	out := make([]ApplicationState, 0, len(names))
	for i, n := range names {
		out = append(out, ApplicationState{Name: n.name, HexColor: n.color, SeqNo: i + 1})
	}
	return out
}
