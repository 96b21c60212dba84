// Package postgres implements the storage interfaces on PostgreSQL. Owned
// sub-objects of the application aggregate (states, contacts, appointments)
// are stored as JSONB so the aggregate reads and writes as one document.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/huntboard/huntboard/internal/app/domain/application"
	"github.com/huntboard/huntboard/internal/app/domain/appstate"
	"github.com/huntboard/huntboard/internal/app/domain/event"
	"github.com/huntboard/huntboard/internal/app/domain/statistics"
	"github.com/huntboard/huntboard/internal/app/domain/user"
	"github.com/huntboard/huntboard/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.StateCatalogStore = (*Store)(nil)
var _ storage.ApplicationStore = (*Store)(nil)
var _ storage.EventStore = (*Store)(nil)
var _ storage.StatisticsStore = (*Store)(nil)
var _ storage.UserStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// --- StateCatalogStore -------------------------------------------------------

type stateRow struct {
	ID             string       `db:"id"`
	Name           string       `db:"name"`
	HexColor       string       `db:"hex_color"`
	SeqNo          int          `db:"seq_no"`
	DeactivatedUTC sql.NullTime `db:"deactivated_utc"`
	CreatedUTC     time.Time    `db:"created_utc"`
	UpdatedUTC     time.Time    `db:"updated_utc"`
}

func (r stateRow) toDomain() appstate.ApplicationState {
	return appstate.ApplicationState{
		ID:             r.ID,
		Name:           r.Name,
		HexColor:       r.HexColor,
		SeqNo:          r.SeqNo,
		DeactivatedUTC: nullableTime(r.DeactivatedUTC),
		CreatedUTC:     r.CreatedUTC,
		UpdatedUTC:     r.UpdatedUTC,
	}
}

func (s *Store) CreateState(ctx context.Context, st appstate.ApplicationState) (appstate.ApplicationState, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	st.CreatedUTC = now
	st.UpdatedUTC = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_states (id, name, hex_color, seq_no, deactivated_utc, created_utc, updated_utc)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, st.ID, st.Name, st.HexColor, st.SeqNo, timeOrNil(st.DeactivatedUTC), st.CreatedUTC, st.UpdatedUTC)
	if err != nil {
		return appstate.ApplicationState{}, err
	}
	return st, nil
}

func (s *Store) UpdateState(ctx context.Context, st appstate.ApplicationState) (appstate.ApplicationState, error) {
	st.UpdatedUTC = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE app_states
		SET name = $2, hex_color = $3, seq_no = $4, deactivated_utc = $5, updated_utc = $6
		WHERE id = $1
	`, st.ID, st.Name, st.HexColor, st.SeqNo, timeOrNil(st.DeactivatedUTC), st.UpdatedUTC)
	if err != nil {
		return appstate.ApplicationState{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return appstate.ApplicationState{}, fmt.Errorf("state %s: %w", st.ID, storage.ErrNotFound)
	}
	return s.GetState(ctx, st.ID)
}

func (s *Store) GetState(ctx context.Context, id string) (appstate.ApplicationState, error) {
	var row stateRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, hex_color, seq_no, deactivated_utc, created_utc, updated_utc
		FROM app_states WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return appstate.ApplicationState{}, fmt.Errorf("state %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return appstate.ApplicationState{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) ListStates(ctx context.Context) ([]appstate.ApplicationState, error) {
	var rows []stateRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, hex_color, seq_no, deactivated_utc, created_utc, updated_utc
		FROM app_states ORDER BY seq_no
	`)
	if err != nil {
		return nil, err
	}
	out := make([]appstate.ApplicationState, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// --- ApplicationStore --------------------------------------------------------

type applicationRow struct {
	ID              string          `db:"id"`
	UserID          string          `db:"user_id"`
	CompanyName     string          `db:"company_name"`
	Role            string          `db:"role"`
	Location        string          `db:"location"`
	CompensationMin int             `db:"compensation_min"`
	CompensationMax int             `db:"compensation_max"`
	Notes           string          `db:"notes"`
	Contacts        []byte          `db:"contacts"`
	Appointments    []byte          `db:"appointments"`
	States          []byte          `db:"states"`
	Rejection       json.RawMessage `db:"rejection"`
	Acceptance      json.RawMessage `db:"acceptance"`
	ArchivedUTC     sql.NullTime    `db:"archived_utc"`
	DeactivatedUTC  sql.NullTime    `db:"deactivated_utc"`
	Revision        int64           `db:"revision"`
	CreatedUTC      time.Time       `db:"created_utc"`
	UpdatedUTC      time.Time       `db:"updated_utc"`
}

func (r applicationRow) toDomain() (*application.Application, error) {
	app := &application.Application{
		ID:              r.ID,
		UserID:          r.UserID,
		CompanyName:     r.CompanyName,
		Role:            r.Role,
		Location:        r.Location,
		CompensationMin: r.CompensationMin,
		CompensationMax: r.CompensationMax,
		Notes:           r.Notes,
		ArchivedUTC:     nullableTime(r.ArchivedUTC),
		DeactivatedUTC:  nullableTime(r.DeactivatedUTC),
		Revision:        r.Revision,
		CreatedUTC:      r.CreatedUTC,
		UpdatedUTC:      r.UpdatedUTC,
	}
	if err := json.Unmarshal(r.Contacts, &app.Contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	if err := json.Unmarshal(r.Appointments, &app.Appointments); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	if err := json.Unmarshal(r.States, &app.States); err != nil {
		return nil, fmt.Errorf("decode states: %w", err)
	}
	if len(r.Rejection) > 0 && string(r.Rejection) != "null" {
		app.Rejection = &application.Rejection{}
		if err := json.Unmarshal(r.Rejection, app.Rejection); err != nil {
			return nil, fmt.Errorf("decode rejection: %w", err)
		}
	}
	if len(r.Acceptance) > 0 && string(r.Acceptance) != "null" {
		app.Acceptance = &application.Acceptance{}
		if err := json.Unmarshal(r.Acceptance, app.Acceptance); err != nil {
			return nil, fmt.Errorf("decode acceptance: %w", err)
		}
	}
	return app, nil
}

type applicationDoc struct {
	contacts     []byte
	appointments []byte
	states       []byte
	rejection    interface{}
	acceptance   interface{}
}

func encodeApplication(app *application.Application) (applicationDoc, error) {
	var doc applicationDoc
	var err error

	if doc.contacts, err = json.Marshal(emptySlice(app.Contacts)); err != nil {
		return doc, err
	}
	if doc.appointments, err = json.Marshal(emptySlice(app.Appointments)); err != nil {
		return doc, err
	}
	if doc.states, err = json.Marshal(emptySlice(app.States)); err != nil {
		return doc, err
	}
	if app.Rejection != nil {
		raw, err := json.Marshal(app.Rejection)
		if err != nil {
			return doc, err
		}
		doc.rejection = raw
	}
	if app.Acceptance != nil {
		raw, err := json.Marshal(app.Acceptance)
		if err != nil {
			return doc, err
		}
		doc.acceptance = raw
	}
	return doc, nil
}

func (s *Store) CreateApplication(ctx context.Context, app *application.Application) (*application.Application, error) {
	cp := app.Clone()
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cp.CreatedUTC = now
	cp.UpdatedUTC = now
	cp.Revision = 1

	doc, err := encodeApplication(cp)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, user_id, company_name, role, location, compensation_min, compensation_max,
			notes, contacts, appointments, states, rejection, acceptance,
			archived_utc, deactivated_utc, revision, created_utc, updated_utc
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, cp.ID, cp.UserID, cp.CompanyName, cp.Role, cp.Location, cp.CompensationMin, cp.CompensationMax,
		cp.Notes, doc.contacts, doc.appointments, doc.states, doc.rejection, doc.acceptance,
		timeOrNil(cp.ArchivedUTC), timeOrNil(cp.DeactivatedUTC), cp.Revision, cp.CreatedUTC, cp.UpdatedUTC)
	if err != nil {
		return nil, err
	}
	return cp, nil
}

func (s *Store) UpdateApplication(ctx context.Context, app *application.Application) (*application.Application, error) {
	cp := app.Clone()
	cp.UpdatedUTC = time.Now().UTC()

	doc, err := encodeApplication(cp)
	if err != nil {
		return nil, err
	}

	// Revision guard in the WHERE clause makes the optimistic check and the
	// write one atomic statement.
	result, err := s.db.ExecContext(ctx, `
		UPDATE applications SET
			company_name = $2, role = $3, location = $4, compensation_min = $5,
			compensation_max = $6, notes = $7, contacts = $8, appointments = $9,
			states = $10, rejection = $11, acceptance = $12, archived_utc = $13,
			deactivated_utc = $14, revision = revision + 1, updated_utc = $15
		WHERE id = $1 AND revision = $16
	`, cp.ID, cp.CompanyName, cp.Role, cp.Location, cp.CompensationMin,
		cp.CompensationMax, cp.Notes, doc.contacts, doc.appointments,
		doc.states, doc.rejection, doc.acceptance, timeOrNil(cp.ArchivedUTC),
		timeOrNil(cp.DeactivatedUTC), cp.UpdatedUTC, cp.Revision)
	if err != nil {
		return nil, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		if _, getErr := s.GetApplication(ctx, cp.ID); errors.Is(getErr, storage.ErrNotFound) {
			return nil, fmt.Errorf("application %s: %w", cp.ID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("application %s: %w", cp.ID, storage.ErrStaleAggregate)
	}
	cp.Revision++
	return cp, nil
}

const applicationColumns = `
	id, user_id, company_name, role, location, compensation_min, compensation_max,
	notes, contacts, appointments, states, rejection, acceptance,
	archived_utc, deactivated_utc, revision, created_utc, updated_utc`

func (s *Store) GetApplication(ctx context.Context, id string) (*application.Application, error) {
	var row applicationRow
	err := s.db.GetContext(ctx, &row, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("application %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (s *Store) ListApplications(ctx context.Context, userID string) ([]*application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`
	args := []interface{}{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_utc, id`

	var rows []applicationRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rowsToDomain(rows)
}

func (s *Store) ListOpenApplications(ctx context.Context, userID string) ([]*application.Application, error) {
	var rows []applicationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE user_id = $1
		  AND rejection IS NULL
		  AND acceptance IS NULL
		  AND archived_utc IS NULL
		  AND deactivated_utc IS NULL
		ORDER BY created_utc, id
	`, userID)
	if err != nil {
		return nil, err
	}
	return rowsToDomain(rows)
}

func rowsToDomain(rows []applicationRow) ([]*application.Application, error) {
	out := make([]*application.Application, 0, len(rows))
	for _, r := range rows {
		app, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, nil
}

// --- EventStore --------------------------------------------------------------

type eventRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	CreatedBy  string    `db:"created_by"`
	CreatedUTC time.Time `db:"created_utc"`
	EntityName string    `db:"entity_name"`
	EntityID   string    `db:"entity_id"`
	KeyProps   []byte    `db:"key_props"`
}

func (s *Store) AppendEvents(ctx context.Context, entries []event.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		props, err := json.Marshal(emptyMap(e.KeyProps))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO system_events (id, name, created_by, created_utc, entity_name, entity_id, key_props)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, e.ID, e.Name, e.CreatedBy, e.CreatedUTC, e.EntityName, e.EntityID, props); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ListEventsBetween(ctx context.Context, names []string, from, to time.Time) ([]event.Entry, error) {
	query := `
		SELECT id, name, created_by, created_utc, entity_name, entity_id, key_props
		FROM system_events
		WHERE created_utc > ? AND created_utc <= ?`
	args := []interface{}{from, to}
	if len(names) > 0 {
		query += ` AND name IN (?)`
		args = append(args, names)
	}
	query += ` ORDER BY created_utc, id`

	query, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows, query, inArgs...); err != nil {
		return nil, err
	}
	return eventRowsToDomain(rows)
}

func (s *Store) ListRecentEvents(ctx context.Context, limit int) ([]event.Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []eventRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, created_by, created_utc, entity_name, entity_id, key_props
		FROM system_events ORDER BY created_utc DESC, id DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	// Reverse so callers see oldest-first, matching the append order.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return eventRowsToDomain(rows)
}

func eventRowsToDomain(rows []eventRow) ([]event.Entry, error) {
	out := make([]event.Entry, 0, len(rows))
	for _, r := range rows {
		e := event.Entry{
			ID:         r.ID,
			Name:       r.Name,
			CreatedBy:  r.CreatedBy,
			CreatedUTC: r.CreatedUTC,
			EntityName: r.EntityName,
			EntityID:   r.EntityID,
		}
		if err := json.Unmarshal(r.KeyProps, &e.KeyProps); err != nil {
			return nil, fmt.Errorf("decode key props: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// --- StatisticsStore ---------------------------------------------------------

type statisticsRow struct {
	UserID     string    `db:"user_id"`
	Counts     []byte    `db:"rejection_state_counts"`
	AvgSeconds float64   `db:"avg_application_lifetime_seconds"`
	UpdatedUTC time.Time `db:"updated_utc"`
}

func (s *Store) GetStatistics(ctx context.Context, userID string) (statistics.Statistics, error) {
	var row statisticsRow
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, rejection_state_counts, avg_application_lifetime_seconds, updated_utc
		FROM user_statistics WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return statistics.Statistics{}, fmt.Errorf("statistics for %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return statistics.Statistics{}, err
	}

	st := statistics.Statistics{
		UserID:                           row.UserID,
		AverageApplicationLifetimeSecond: row.AvgSeconds,
		UpdatedUTC:                       row.UpdatedUTC,
	}
	if err := json.Unmarshal(row.Counts, &st.ApplicationRejectionStateCounts); err != nil {
		return statistics.Statistics{}, fmt.Errorf("decode counts: %w", err)
	}
	return st, nil
}

func (s *Store) UpsertStatistics(ctx context.Context, stats statistics.Statistics) (statistics.Statistics, error) {
	stats.UpdatedUTC = time.Now().UTC()
	counts, err := json.Marshal(emptyCounts(stats.ApplicationRejectionStateCounts))
	if err != nil {
		return statistics.Statistics{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_statistics (user_id, rejection_state_counts, avg_application_lifetime_seconds, updated_utc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			rejection_state_counts = EXCLUDED.rejection_state_counts,
			avg_application_lifetime_seconds = EXCLUDED.avg_application_lifetime_seconds,
			updated_utc = EXCLUDED.updated_utc
	`, stats.UserID, counts, stats.AverageApplicationLifetimeSecond, stats.UpdatedUTC)
	if err != nil {
		return statistics.Statistics{}, err
	}
	return stats, nil
}

func (s *Store) GetSystemState(ctx context.Context) (statistics.SystemState, error) {
	var last sql.NullTime
	err := s.db.GetContext(ctx, &last, `SELECT last_statistics_run_utc FROM system_state WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return statistics.SystemState{}, nil
	}
	if err != nil {
		return statistics.SystemState{}, err
	}
	return statistics.SystemState{LastStatisticsRunUTC: nullableTime(last)}, nil
}

func (s *Store) SaveSystemState(ctx context.Context, st statistics.SystemState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_state (id, last_statistics_run_utc) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_statistics_run_utc = EXCLUDED.last_statistics_run_utc
	`, timeOrNil(st.LastStatisticsRunUTC))
	return err
}

// --- UserStore ---------------------------------------------------------------

type userRow struct {
	ID             string       `db:"id"`
	Email          string       `db:"email"`
	DisplayName    string       `db:"display_name"`
	PasswordHash   []byte       `db:"password_hash"`
	DeactivatedUTC sql.NullTime `db:"deactivated_utc"`
	CreatedUTC     time.Time    `db:"created_utc"`
	UpdatedUTC     time.Time    `db:"updated_utc"`
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:             r.ID,
		Email:          r.Email,
		DisplayName:    r.DisplayName,
		PasswordHash:   r.PasswordHash,
		DeactivatedUTC: nullableTime(r.DeactivatedUTC),
		CreatedUTC:     r.CreatedUTC,
		UpdatedUTC:     r.UpdatedUTC,
	}
}

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedUTC = now
	u.UpdatedUTC = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, deactivated_utc, created_utc, updated_utc)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7)
	`, u.ID, u.Email, u.DisplayName, u.PasswordHash, timeOrNil(u.DeactivatedUTC), u.CreatedUTC, u.UpdatedUTC)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, fmt.Errorf("user %s: %w", u.Email, storage.ErrConflict)
		}
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	u.UpdatedUTC = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET display_name = $2, password_hash = $3, deactivated_utc = $4, updated_utc = $5
		WHERE id = $1
	`, u.ID, u.DisplayName, u.PasswordHash, timeOrNil(u.DeactivatedUTC), u.UpdatedUTC)
	if err != nil {
		return user.User{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}
	return s.GetUser(ctx, u.ID)
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, display_name, password_hash, deactivated_utc, created_utc, updated_utc
		FROM users WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return user.User{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, display_name, password_hash, deactivated_utc, created_utc, updated_utc
		FROM users WHERE email = lower($1)
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return user.User{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) ListActiveUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, email, display_name, password_hash, deactivated_utc, created_utc, updated_utc
		FROM users WHERE deactivated_utc IS NULL ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	out := make([]user.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// --- helpers -----------------------------------------------------------------

func nullableTime(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func timeOrNil(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func emptySlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func emptyMap(in map[string]string) map[string]string {
	if in == nil {
		return map[string]string{}
	}
	return in
}

func emptyCounts(in map[string]int64) map[string]int64 {
	if in == nil {
		return map[string]int64{}
	}
	return in
}

func isUniqueViolation(err error) bool {
	// lib/pq error code 23505.
	type coder interface{ SQLState() string }
	var c coder
	if errors.As(err, &c) {
		return c.SQLState() == "23505"
	}
	return false
}
