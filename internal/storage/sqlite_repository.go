package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/planner/internal/model"
)

// SQLiteRepository stores the same collections as JSONRepository in a single
// database file. Saves still replace the whole collection, inside one
// transaction per collection.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir %q: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) LoadEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, start_time, end_time, recurrence, completed, task_id, series_id
		FROM events ORDER BY position ASC`)
	if err != nil {
		return []model.Event{}, err
	}
	defer rows.Close()

	out := make([]model.Event, 0)
	for rows.Next() {
		ev, scanErr := scanEvent(rows)
		if scanErr != nil {
			return []model.Event{}, fmt.Errorf("%w: events: %v", ErrCorrupt, scanErr)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return []model.Event{}, err
	}
	return out, nil
}

func (r *SQLiteRepository) SaveEvents(ctx context.Context, events []model.Event) error {
	return r.replace(ctx, "events", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO events (id, position, title, start_time, end_time, recurrence, completed, task_id, series_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, ev := range events {
			if _, err := stmt.ExecContext(ctx,
				ev.ID, i, ev.Title, formatTime(ev.Start), formatTime(ev.End),
				string(ev.Recurrence), boolInt(ev.Completed), ev.TaskID, ev.SeriesID,
			); err != nil {
				return fmt.Errorf("insert event %q: %w", ev.Title, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) LoadTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, day, duration_minutes, done, scheduled, recurrence
		FROM tasks ORDER BY position ASC`)
	if err != nil {
		return []model.Task{}, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return []model.Task{}, fmt.Errorf("%w: tasks: %v", ErrCorrupt, scanErr)
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return []model.Task{}, err
	}
	return out, nil
}

func (r *SQLiteRepository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	return r.replace(ctx, "tasks", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tasks (id, position, title, day, duration_minutes, done, scheduled, recurrence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, t := range tasks {
			if _, err := stmt.ExecContext(ctx,
				t.ID, i, t.Title, string(t.Day), t.DurationMinutes,
				boolInt(t.Done), boolInt(t.Scheduled), string(t.Recurrence),
			); err != nil {
				return fmt.Errorf("insert task %q: %w", t.Title, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) replace(ctx context.Context, table string, insert func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func formatTime(v time.Time) string {
	return v.Format(TimestampLayout)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (model.Event, error) {
	var rec eventRecord
	var start, end string
	var completed int
	if err := s.Scan(&rec.ID, &rec.Title, &start, &end, &rec.Recurrence, &completed, &rec.TaskID, &rec.SeriesID); err != nil {
		return model.Event{}, err
	}
	startAt, err := ParseTimestamp(start)
	if err != nil {
		return model.Event{}, err
	}
	endAt, err := ParseTimestamp(end)
	if err != nil {
		return model.Event{}, err
	}
	rec.StartTime = Timestamp{startAt}
	rec.EndTime = Timestamp{endAt}
	rec.Completed = completed == 1
	if err := rec.check(); err != nil {
		return model.Event{}, err
	}
	return rec.toModel(), nil
}

func scanTask(s scanner) (model.Task, error) {
	var rec taskRecord
	var duration int
	var done, scheduled int
	if err := s.Scan(&rec.ID, &rec.Title, &rec.Day, &duration, &done, &scheduled, &rec.Recurrence); err != nil {
		return model.Task{}, err
	}
	rec.Time = minutes(duration)
	rec.Done = done == 1
	rec.Scheduled = scheduled == 1
	return rec.toModel(), nil
}
