package students

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/planner/internal/storage"
)

const (
	StudentsFile   = "students_data.json"
	AttendanceFile = "attendance_data.json"
	ReceiptsDir    = "receipts"
)

var (
	ErrNotFound     = errors.New("students: student not found")
	ErrNoAttendance = errors.New("students: no attendance recorded")
	ErrInvalidName  = errors.New("students: name is required")
	ErrInvalidCost  = errors.New("students: cost per class must not be negative")
)

type Student struct {
	Name         string  `json:"name"`
	CostPerClass float64 `json:"cost_per_class"`
	Sessions     int     `json:"sessions"`
}

// Entry is a roster row; ids are decimal strings assigned as max+1.
type Entry struct {
	ID string
	Student
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

func (s *Store) load() (map[string]Student, error) {
	roster := map[string]Student{}
	if err := storage.ReadJSON(filepath.Join(s.dir, StudentsFile), &roster); err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			return map[string]Student{}, err
		}
		return nil, err
	}
	if roster == nil {
		roster = map[string]Student{}
	}
	return roster, nil
}

func (s *Store) loadAttendance() (map[string][]string, error) {
	att := map[string][]string{}
	if err := storage.ReadJSON(filepath.Join(s.dir, AttendanceFile), &att); err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			return map[string][]string{}, err
		}
		return nil, err
	}
	if att == nil {
		att = map[string][]string{}
	}
	return att, nil
}

// Roster returns the students ordered by numeric id. A corrupt document is
// reported with an empty roster.
func (s *Store) Roster() ([]Entry, error) {
	roster, err := s.load()
	out := make([]Entry, 0, len(roster))
	for id, st := range roster {
		out = append(out, Entry{ID: id, Student: st})
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].ID, out[j].ID) })
	return out, err
}

func (s *Store) Add(name string, cost float64) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, ErrInvalidName
	}
	if cost < 0 {
		return Entry{}, fmt.Errorf("%w: %.2f", ErrInvalidCost, cost)
	}
	roster, err := s.load()
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return Entry{}, err
	}
	next := 0
	for id := range roster {
		if n, convErr := strconv.Atoi(id); convErr == nil && n > next {
			next = n
		}
	}
	e := Entry{ID: strconv.Itoa(next + 1), Student: Student{Name: name, CostPerClass: cost}}
	roster[e.ID] = e.Student
	if err := storage.WriteJSON(filepath.Join(s.dir, StudentsFile), roster); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Delete removes the student and their attendance.
func (s *Store) Delete(id string) (Student, error) {
	roster, err := s.load()
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return Student{}, err
	}
	st, ok := roster[id]
	if !ok {
		return Student{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(roster, id)
	if err := storage.WriteJSON(filepath.Join(s.dir, StudentsFile), roster); err != nil {
		return Student{}, err
	}
	att, err := s.loadAttendance()
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return st, err
	}
	if _, ok := att[id]; ok {
		delete(att, id)
		if err := storage.WriteJSON(filepath.Join(s.dir, AttendanceFile), att); err != nil {
			return st, err
		}
	}
	return st, nil
}

// MarkAttendance records today for the student and counts the session.
func (s *Store) MarkAttendance(id string) (string, error) {
	roster, err := s.load()
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return "", err
	}
	st, ok := roster[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	att, err := s.loadAttendance()
	if err != nil && !errors.Is(err, storage.ErrCorrupt) {
		return "", err
	}
	date := s.now().Format(time.DateOnly)
	att[id] = append(att[id], date)
	st.Sessions++
	roster[id] = st
	if err := storage.WriteJSON(filepath.Join(s.dir, AttendanceFile), att); err != nil {
		return "", err
	}
	if err := storage.WriteJSON(filepath.Join(s.dir, StudentsFile), roster); err != nil {
		return "", err
	}
	return date, nil
}

func (s *Store) Attendance(id string) ([]string, error) {
	att, err := s.loadAttendance()
	if err != nil {
		return nil, err
	}
	return att[id], nil
}

// Receipt writes the billing receipt of a student for the current month and
// returns its path and text.
func (s *Store) Receipt(id string) (string, string, error) {
	roster, err := s.load()
	if err != nil {
		return "", "", err
	}
	st, ok := roster[id]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	att, err := s.loadAttendance()
	if err != nil {
		return "", "", err
	}
	dates, ok := att[id]
	if !ok || len(dates) == 0 {
		return "", "", fmt.Errorf("%w: %s", ErrNoAttendance, st.Name)
	}

	now := s.now()
	text := FormatReceipt(st, dates, now)
	name := fmt.Sprintf("receipt_%s_%s_%d.txt", id, now.Format("January"), now.Year())
	dir := filepath.Join(s.dir, ReceiptsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("students: create receipts dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", "", fmt.Errorf("students: write receipt: %w", err)
	}
	return path, text, nil
}

func FormatReceipt(st Student, dates []string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %d\n", st.Name, now.Format("January"), now.Year())
	b.WriteString("------------------------------------------\n")
	b.WriteString("Classes Attended:\n")
	for _, d := range dates {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Number of Classes: %d\n", st.Sessions)
	fmt.Fprintf(&b, "Cost per Class: $%.2f\n", st.CostPerClass)
	fmt.Fprintf(&b, "Total Due: $%.2f\n", float64(st.Sessions)*st.CostPerClass)
	return b.String()
}

func idLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
