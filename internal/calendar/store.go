package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/planner/internal/model"
	"github.com/sandeepkv93/planner/internal/storage"
)

var (
	ErrNotFound   = errors.New("calendar: event not found")
	ErrBadIndex   = errors.New("calendar: index out of range")
	ErrCancelled  = errors.New("calendar: removal cancelled")
	ErrEmptyTitle = errors.New("calendar: title is required")
)

type Options struct {
	// Span is the number of occurrences materialized for a recurring add.
	Span   int
	Now    func() time.Time
	Logger *slog.Logger
}

// Store is the event collection. Every operation loads the full collection,
// mutates it and overwrites it.
type Store struct {
	repo  storage.EventRepository
	span  int
	now   func() time.Time
	log   *slog.Logger
	newID func() string
}

func NewStore(repo storage.EventRepository, opts Options) *Store {
	if opts.Span <= 0 {
		opts.Span = model.DefaultRecurrenceSpan
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		repo:  repo,
		span:  opts.Span,
		now:   opts.Now,
		log:   opts.Logger,
		newID: uuid.NewString,
	}
}

// Load returns the stored events. A corrupt document yields an empty
// collection together with an error wrapping storage.ErrCorrupt. Events
// written without ids are assigned one and saved back so later lookups by id
// stay stable.
func (s *Store) Load(ctx context.Context) ([]model.Event, error) {
	events, err := s.repo.LoadEvents(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			s.log.Warn("calendar document is corrupt, starting empty", "err", err)
			return []model.Event{}, err
		}
		return nil, fmt.Errorf("calendar: load: %w", err)
	}
	upgraded := 0
	for i := range events {
		if strings.TrimSpace(events[i].ID) == "" {
			events[i].ID = s.newID()
			upgraded++
		}
	}
	if upgraded > 0 {
		s.log.Info("assigned ids to legacy events", "count", upgraded)
		if err := s.Save(ctx, events); err != nil {
			return events, err
		}
	}
	return events, nil
}

// current is Load for mutating operations: a corrupt document has already
// been reported and is treated as empty.
func (s *Store) current(ctx context.Context) ([]model.Event, error) {
	events, err := s.Load(ctx)
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return nil, err
	}
	return events, nil
}

func (s *Store) Save(ctx context.Context, events []model.Event) error {
	if err := s.repo.SaveEvents(ctx, events); err != nil {
		s.log.Error("save calendar failed", "err", err)
		return fmt.Errorf("calendar: save: %w", err)
	}
	return nil
}

// NewID returns a fresh event id.
func (s *Store) NewID() string {
	return s.newID()
}

type AddInput struct {
	Title      string
	Start      time.Time
	End        time.Time
	Recurrence model.Recurrence
	// Span overrides the store's occurrence count when positive.
	Span int
}

// Add materializes every occurrence of the new event and appends them. All
// occurrences of one recurring add share a series id.
func (s *Store) Add(ctx context.Context, in AddInput) ([]model.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if in.Recurrence == "" {
		in.Recurrence = model.RecurrenceNone
	}
	if !in.Start.Before(in.End) {
		return nil, fmt.Errorf("%w: %s >= %s", model.ErrInvalidTimeRange, in.Start.Format(time.DateTime), in.End.Format(time.DateTime))
	}
	span := in.Span
	if span <= 0 {
		span = s.span
	}
	starts, err := in.Recurrence.Occurrences(in.Start, span)
	if err != nil {
		return nil, err
	}

	events, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	seriesID := ""
	if in.Recurrence != model.RecurrenceNone {
		seriesID = s.newID()
	}
	length := in.End.Sub(in.Start)
	added := make([]model.Event, 0, len(starts))
	for _, start := range starts {
		ev := model.Event{
			ID:         s.newID(),
			Title:      title,
			Start:      start,
			End:        start.Add(length),
			Recurrence: in.Recurrence,
			SeriesID:   seriesID,
		}
		added = append(added, ev)
	}
	events = append(events, added...)
	if err := s.Save(ctx, events); err != nil {
		return nil, err
	}
	s.log.Info("event added", "title", title, "occurrences", len(added), "recurrence", in.Recurrence)
	return added, nil
}

// ModifyInput holds optional changes; zero values keep the current value.
type ModifyInput struct {
	Title      string
	Start      time.Time
	Duration   time.Duration
	Recurrence model.Recurrence
}

func (s *Store) Modify(ctx context.Context, id string, in ModifyInput) (model.Event, error) {
	events, err := s.current(ctx)
	if err != nil {
		return model.Event{}, err
	}
	idx := indexOf(events, id)
	if idx < 0 {
		return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	ev := events[idx]
	length := ev.Duration()
	if title := strings.TrimSpace(in.Title); title != "" {
		ev.Title = title
	}
	if !in.Start.IsZero() {
		ev.Start = in.Start
	}
	if in.Duration != 0 {
		length = in.Duration
	}
	ev.End = ev.Start.Add(length)
	if in.Recurrence != "" {
		if !in.Recurrence.IsValid() {
			return model.Event{}, fmt.Errorf("%w: %q", model.ErrInvalidRecurrence, in.Recurrence)
		}
		ev.Recurrence = in.Recurrence
	}
	if err := ev.Validate(); err != nil {
		return model.Event{}, err
	}

	events[idx] = ev
	if err := s.Save(ctx, events); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// RemoveAt removes the single occurrence shown at the 1-based display index of
// Listing.
func (s *Store) RemoveAt(ctx context.Context, index int) (model.Event, error) {
	entries, err := s.Listing(ctx)
	if err != nil {
		return model.Event{}, err
	}
	if index < 1 || index > len(entries) {
		return model.Event{}, fmt.Errorf("%w: %d", ErrBadIndex, index)
	}
	return s.RemoveByID(ctx, entries[index-1].EventID)
}

func (s *Store) RemoveByID(ctx context.Context, id string) (model.Event, error) {
	events, err := s.current(ctx)
	if err != nil {
		return model.Event{}, err
	}
	idx := indexOf(events, id)
	if idx < 0 {
		return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	removed := events[idx]
	events = append(events[:idx], events[idx+1:]...)
	if err := s.Save(ctx, events); err != nil {
		return model.Event{}, err
	}
	return removed, nil
}

// RemoveByTitle removes every occurrence titled title. When more than one
// matches, confirm is asked first and a refusal returns ErrCancelled.
func (s *Store) RemoveByTitle(ctx context.Context, title string, confirm func(n int) bool) (int, error) {
	events, err := s.current(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, ev := range events {
		if sameTitle(ev.Title, title) {
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	if n > 1 && (confirm == nil || !confirm(n)) {
		return 0, ErrCancelled
	}
	kept := events[:0]
	for _, ev := range events {
		if !sameTitle(ev.Title, title) {
			kept = append(kept, ev)
		}
	}
	if err := s.Save(ctx, kept); err != nil {
		return 0, err
	}
	return n, nil
}

// RemoveLinked removes the events promoted from taskID. When none are linked
// and fallbackTitle is set, unlinked events with that title are removed
// instead; this covers documents written before events carried task ids.
func (s *Store) RemoveLinked(ctx context.Context, taskID, fallbackTitle string) (int, error) {
	events, err := s.current(ctx)
	if err != nil {
		return 0, err
	}
	_, kept := SplitLinked(events, taskID, fallbackTitle)
	removed := len(events) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.Save(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// MarkCompleted flips the first not yet completed occurrence titled title.
func (s *Store) MarkCompleted(ctx context.Context, title string) (model.Event, error) {
	events, err := s.current(ctx)
	if err != nil {
		return model.Event{}, err
	}
	for i := range events {
		if sameTitle(events[i].Title, title) && !events[i].Completed {
			events[i].Completed = true
			if err := s.Save(ctx, events); err != nil {
				return model.Event{}, err
			}
			return events[i], nil
		}
	}
	return model.Event{}, fmt.Errorf("%w: %q", ErrNotFound, title)
}

// MarkTaskCompleted is MarkCompleted for the events linked to a task, with the
// same legacy title fallback as RemoveLinked. It reports whether an event
// was marked.
func (s *Store) MarkTaskCompleted(ctx context.Context, taskID, fallbackTitle string) (bool, error) {
	events, err := s.current(ctx)
	if err != nil {
		return false, err
	}
	match := linkedMatcher(events, taskID, fallbackTitle)
	for i := range events {
		if match(events[i]) && !events[i].Completed {
			events[i].Completed = true
			return true, s.Save(ctx, events)
		}
	}
	return false, nil
}

// Linked returns the events promoted from taskID.
func (s *Store) Linked(ctx context.Context, taskID string) ([]model.Event, error) {
	events, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Event
	for _, ev := range events {
		if ev.TaskID == taskID {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Day returns the events starting on the date of day, in store order.
func (s *Store) Day(ctx context.Context, day time.Time) ([]model.Event, error) {
	events, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Event
	for _, ev := range events {
		if model.SameDate(ev.Start, day) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// SplitLinked separates the events promoted from taskID from the rest, using
// the same legacy title fallback as RemoveLinked.
func SplitLinked(events []model.Event, taskID, fallbackTitle string) (linked, rest []model.Event) {
	match := linkedMatcher(events, taskID, fallbackTitle)
	rest = make([]model.Event, 0, len(events))
	for _, ev := range events {
		if match(ev) {
			linked = append(linked, ev)
		} else {
			rest = append(rest, ev)
		}
	}
	return linked, rest
}

func linkedMatcher(events []model.Event, taskID, fallbackTitle string) func(model.Event) bool {
	if taskID != "" {
		for _, ev := range events {
			if ev.TaskID == taskID {
				return func(e model.Event) bool { return e.TaskID == taskID }
			}
		}
	}
	if strings.TrimSpace(fallbackTitle) == "" {
		return func(model.Event) bool { return false }
	}
	return func(e model.Event) bool { return e.TaskID == "" && sameTitle(e.Title, fallbackTitle) }
}

func indexOf(events []model.Event, id string) int {
	for i, ev := range events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

func sameTitle(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
