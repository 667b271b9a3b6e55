package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sandeepkv93/planner/internal/model"
)

const (
	CalendarFile = "calendar_data.json"
	TasksFile    = "tasks_data.json"
)

// JSONRepository keeps each collection as one JSON array under dir.
type JSONRepository struct {
	dir string
}

func NewJSONRepository(dir string) *JSONRepository {
	return &JSONRepository{dir: dir}
}

func (r *JSONRepository) Close() error { return nil }

func (r *JSONRepository) LoadEvents(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []eventRecord
	if err := ReadJSON(filepath.Join(r.dir, CalendarFile), &records); err != nil {
		return []model.Event{}, err
	}
	out := make([]model.Event, 0, len(records))
	for i, rec := range records {
		if err := rec.check(); err != nil {
			return []model.Event{}, fmt.Errorf("%w: %s: record %d: %v", ErrCorrupt, CalendarFile, i, err)
		}
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (r *JSONRepository) SaveEvents(ctx context.Context, events []model.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records := make([]eventRecord, 0, len(events))
	for _, ev := range events {
		records = append(records, toEventRecord(ev))
	}
	return WriteJSON(filepath.Join(r.dir, CalendarFile), records)
}

func (r *JSONRepository) LoadTasks(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []taskRecord
	if err := ReadJSON(filepath.Join(r.dir, TasksFile), &records); err != nil {
		return []model.Task{}, err
	}
	out := make([]model.Task, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (r *JSONRepository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, toTaskRecord(t))
	}
	return WriteJSON(filepath.Join(r.dir, TasksFile), records)
}
