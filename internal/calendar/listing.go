package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/sandeepkv93/planner/internal/model"
)

// Entry is one line of the event listing. A recurring series is listed once,
// at its first occurrence in store order.
type Entry struct {
	Index       int
	EventID     string
	Title       string
	Start       time.Time
	End         time.Time
	Recurrence  model.Recurrence
	Completed   bool
	Occurrences int
}

func (s *Store) Listing(ctx context.Context) ([]Entry, error) {
	events, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return BuildListing(events), nil
}

// BuildListing de-duplicates recurring occurrences by series id, or by title
// for series written before series ids existed. Indexes start at 1.
func BuildListing(events []model.Event) []Entry {
	out := make([]Entry, 0, len(events))
	seen := make(map[string]int)
	for _, ev := range events {
		key := seriesKey(ev)
		if key != "" {
			if pos, ok := seen[key]; ok {
				out[pos].Occurrences++
				continue
			}
			seen[key] = len(out)
		}
		out = append(out, Entry{
			Index:       len(out) + 1,
			EventID:     ev.ID,
			Title:       ev.Title,
			Start:       ev.Start,
			End:         ev.End,
			Recurrence:  ev.Recurrence,
			Completed:   ev.Completed,
			Occurrences: 1,
		})
	}
	return out
}

func seriesKey(ev model.Event) string {
	if ev.SeriesID != "" {
		return "series:" + ev.SeriesID
	}
	if ev.Recurrence == model.RecurrenceNone || ev.Recurrence == "" {
		return ""
	}
	return "title:" + strings.ToLower(strings.TrimSpace(ev.Title))
}
