package habits

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/planner/internal/storage"
)

const (
	File       = "habits_data.json"
	DetailsDir = "habit_details"
	// Days is the number of day-of-month columns tracked.
	Days = 31
)

var (
	ErrBadIndex   = errors.New("habits: index out of range")
	ErrEmptyTitle = errors.New("habits: title is required")
)

// Habit records the days of the current month on which it was done, as
// day-of-month strings.
type Habit struct {
	Title      string   `json:"title"`
	Completion []string `json:"completion"`
}

func (h Habit) DoneOn(day int) bool {
	return slices.Contains(h.Completion, strconv.Itoa(day))
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

// Load returns the habits; a corrupt document yields an empty list and an
// error wrapping storage.ErrCorrupt.
func (s *Store) Load() ([]Habit, error) {
	var out []Habit
	if err := storage.ReadJSON(filepath.Join(s.dir, File), &out); err != nil {
		return []Habit{}, err
	}
	for i := range out {
		if out[i].Completion == nil {
			out[i].Completion = []string{}
		}
	}
	return out, nil
}

func (s *Store) save(habits []Habit) error {
	return storage.WriteJSON(filepath.Join(s.dir, File), habits)
}

func (s *Store) current() ([]Habit, error) {
	habits, err := s.Load()
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return nil, err
	}
	return habits, nil
}

func (s *Store) Add(title string) (Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Habit{}, ErrEmptyTitle
	}
	habits, err := s.current()
	if err != nil {
		return Habit{}, err
	}
	h := Habit{Title: title, Completion: []string{}}
	if err := s.save(append(habits, h)); err != nil {
		return Habit{}, err
	}
	return h, nil
}

// Delete removes the habit at the 1-based index.
func (s *Store) Delete(index int) (Habit, error) {
	habits, err := s.current()
	if err != nil {
		return Habit{}, err
	}
	if index < 1 || index > len(habits) {
		return Habit{}, fmt.Errorf("%w: %d", ErrBadIndex, index)
	}
	removed := habits[index-1]
	habits = append(habits[:index-1], habits[index:]...)
	return removed, s.save(habits)
}

// MarkDone records today's day of month for the habit at index. Marking twice
// on the same day is a no-op.
func (s *Store) MarkDone(index int) (Habit, error) {
	habits, err := s.current()
	if err != nil {
		return Habit{}, err
	}
	if index < 1 || index > len(habits) {
		return Habit{}, fmt.Errorf("%w: %d", ErrBadIndex, index)
	}
	h := &habits[index-1]
	today := strconv.Itoa(s.now().Day())
	if !slices.Contains(h.Completion, today) {
		h.Completion = append(h.Completion, today)
	}
	return *h, s.save(habits)
}

// DetailPath returns the markdown side-file of the habit at index, creating it
// with a heading when missing.
func (s *Store) DetailPath(index int) (string, error) {
	habits, err := s.current()
	if err != nil {
		return "", err
	}
	if index < 1 || index > len(habits) {
		return "", fmt.Errorf("%w: %d", ErrBadIndex, index)
	}
	h := habits[index-1]
	path := filepath.Join(s.dir, DetailsDir, fileName(h.Title)+".md")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("habits: create details dir: %w", err)
	}
	if err := os.WriteFile(path, []byte("# "+h.Title+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("habits: create details: %w", err)
	}
	return path, nil
}

// Detail returns the markdown side-file content of the habit at index.
func (s *Store) Detail(index int) (string, error) {
	path, err := s.DetailPath(index)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("habits: read details: %w", err)
	}
	return string(raw), nil
}

func fileName(title string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, title)
}
