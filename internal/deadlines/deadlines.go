package deadlines

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/planner/internal/model"
	"github.com/sandeepkv93/planner/internal/storage"
)

const File = "deadlines.json"

var (
	ErrInvalidDate = errors.New("deadlines: invalid due date")
	ErrEmptyName   = errors.New("deadlines: name is required")
	ErrBadIndex    = errors.New("deadlines: index out of range")
)

type Deadline struct {
	Name    string `json:"name"`
	DueDate string `json:"due_date"`
}

func (d Deadline) Due() (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, d.DueDate, time.Local)
}

// Urgency classifies a deadline relative to today.
type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencyTomorrow Urgency = "tomorrow"
	UrgencyLater    Urgency = "later"
)

func (d Deadline) UrgencyAt(now time.Time) Urgency {
	due, err := d.Due()
	if err != nil {
		return UrgencyLater
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	switch {
	case due.Before(today):
		return UrgencyOverdue
	case model.SameDate(due, today):
		return UrgencyToday
	case model.SameDate(due, today.AddDate(0, 0, 1)):
		return UrgencyTomorrow
	default:
		return UrgencyLater
	}
}

type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{dir: dir, now: now}
}

// Load returns the deadlines sorted by due date.
func (s *Store) Load() ([]Deadline, error) {
	var out []Deadline
	if err := storage.ReadJSON(filepath.Join(s.dir, File), &out); err != nil {
		return []Deadline{}, err
	}
	sortByDue(out)
	return out, nil
}

func (s *Store) current() ([]Deadline, error) {
	out, err := s.Load()
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return nil, err
	}
	return out, nil
}

// ParseDue accepts "August 13" or "Aug 13" in the current year, or an ISO
// date.
func ParseDue(raw string, now time.Time) (time.Time, error) {
	v := strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(time.DateOnly, v, time.Local); err == nil {
		return t, nil
	}
	withYear := fmt.Sprintf("%s %d", v, now.Year())
	for _, layout := range []string{"January 2 2006", "Jan 2 2006"} {
		if t, err := time.ParseInLocation(layout, withYear, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

func (s *Store) Add(name, due string) (Deadline, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Deadline{}, ErrEmptyName
	}
	date, err := ParseDue(due, s.now())
	if err != nil {
		return Deadline{}, err
	}
	list, err := s.current()
	if err != nil {
		return Deadline{}, err
	}
	d := Deadline{Name: name, DueDate: date.Format(time.DateOnly)}
	list = append(list, d)
	sortByDue(list)
	return d, storage.WriteJSON(filepath.Join(s.dir, File), list)
}

// Delete removes the deadline at the 1-based index of the sorted list.
func (s *Store) Delete(index int) (Deadline, error) {
	list, err := s.current()
	if err != nil {
		return Deadline{}, err
	}
	if index < 1 || index > len(list) {
		return Deadline{}, fmt.Errorf("%w: %d", ErrBadIndex, index)
	}
	removed := list[index-1]
	list = append(list[:index-1], list[index:]...)
	return removed, storage.WriteJSON(filepath.Join(s.dir, File), list)
}

func sortByDue(list []Deadline) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].DueDate < list[j].DueDate })
}
