package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/kalendo/kalendo/pkg/recurrence"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	StoreEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	ListEventsByGroup(ctx context.Context, groupID string) ([]Event, error)
	UpdateEvent(ctx context.Context, event Event) error
	DeleteEvent(ctx context.Context, id string) error
	DeleteEventsByGroup(ctx context.Context, groupID string) (int, error)
}

type RepositoryImpl struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db, tx: nil}
}

// getQueryer returns the appropriate database interface (either tx or db)
func (r *RepositoryImpl) getQueryer() interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// WithTransaction runs fn against a repository bound to a single transaction.
// Used by series creation so a group of occurrences is stored all or nothing.
func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	if r.tx != nil {
		// already inside a transaction, just continue on it
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	txRepo := &RepositoryImpl{db: r.db, tx: tx}
	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Errorf("failed to rollback transaction: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

const eventColumns = `id, title, date, start_time, end_time, description, location, category,
	repeat_type, repeat_end_date, repeat_group_id, notification_minutes`

func (r *RepositoryImpl) StoreEvent(ctx context.Context, event Event) error {
	query := `INSERT INTO event (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := r.getQueryer().PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	endDate, groupID := repeatColumns(event.Repeat)
	_, err = stmt.ExecContext(ctx,
		event.ID, event.Title, event.Date.String(), event.StartTime, event.EndTime,
		event.Description, event.Location, event.Category,
		event.Repeat.Frequency.String(), endDate, groupID, event.Notification,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, id string) (Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event WHERE id = ?`

	row := r.getQueryer().QueryRowContext(ctx, query, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, ErrEventNotFound
		}
		err := fmt.Errorf("failed to read event %s: %w", id, err)
		log.Error(err)
		return Event{}, err
	}
	return event, nil
}

func (r *RepositoryImpl) ListEvents(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event ORDER BY date, start_time, id`

	rows, err := r.getQueryer().QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *RepositoryImpl) ListEventsByGroup(ctx context.Context, groupID string) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event WHERE repeat_group_id = ? ORDER BY date, start_time, id`

	rows, err := r.getQueryer().QueryContext(ctx, query, groupID)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, event Event) error {
	query := `UPDATE event
		SET title = ?, date = ?, start_time = ?, end_time = ?, description = ?, location = ?,
			category = ?, repeat_type = ?, repeat_end_date = ?, repeat_group_id = ?, notification_minutes = ?
		WHERE id = ?`

	endDate, groupID := repeatColumns(event.Repeat)
	result, err := r.getQueryer().ExecContext(ctx, query,
		event.Title, event.Date.String(), event.StartTime, event.EndTime,
		event.Description, event.Location, event.Category,
		event.Repeat.Frequency.String(), endDate, groupID, event.Notification,
		event.ID,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not retrieve affected rows: %w", err)
		log.Error(err)
		return err
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, id string) error {
	result, err := r.getQueryer().ExecContext(ctx, "DELETE FROM event WHERE id = ?", id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not retrieve affected rows: %w", err)
		log.Error(err)
		return err
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteEventsByGroup(ctx context.Context, groupID string) (int, error) {
	result, err := r.getQueryer().ExecContext(ctx, "DELETE FROM event WHERE repeat_group_id = ?", groupID)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not retrieve affected rows: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(affected), nil
}

// repeatColumns maps a recurrence rule onto its nullable columns.
func repeatColumns(rule recurrence.Rule) (endDate, groupID any) {
	if !rule.IsRecurring() {
		return nil, nil
	}
	endDate = rule.EndDate.String()
	if rule.GroupID != "" {
		groupID = rule.GroupID
	}
	return endDate, groupID
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var event Event
	var date, repeatType string
	var repeatEndDate, repeatGroupID sql.NullString

	err := row.Scan(
		&event.ID, &event.Title, &date, &event.StartTime, &event.EndTime,
		&event.Description, &event.Location, &event.Category,
		&repeatType, &repeatEndDate, &repeatGroupID, &event.Notification,
	)
	if err != nil {
		return Event{}, err
	}

	event.Date, err = caldate.Parse(date)
	if err != nil {
		return Event{}, fmt.Errorf("stored date is malformed: %w", err)
	}

	frequency, err := recurrence.ParseFrequency(repeatType)
	if err != nil {
		return Event{}, fmt.Errorf("stored recurrence is malformed: %w", err)
	}
	if frequency != recurrence.None {
		endDate, err := caldate.Parse(repeatEndDate.String)
		if err != nil {
			return Event{}, fmt.Errorf("stored recurrence end date is malformed: %w", err)
		}
		event.Repeat = recurrence.Recurring(frequency, endDate).WithGroup(repeatGroupID.String)
	} else {
		event.Repeat = recurrence.NonRecurring()
	}

	return event, nil
}

func collectEvents(rows *sql.Rows) ([]Event, error) {
	events := make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			err := fmt.Errorf("could not scan event row: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("failed while iterating event rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return events, nil
}
