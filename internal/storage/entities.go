package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/planner/internal/model"
)

// TimestampLayout is the on-disk format. Microseconds are always written and
// optional on read.
const TimestampLayout = "2006-01-02 15:04:05.000000"

var timestampReadLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// Timestamp is a naive local time. It decodes the fixed text format (with or
// without fraction), RFC 3339 text, or a JSON number of Unix seconds, since
// several producers have written this document over time.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '"' {
		secs, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("storage: bad timestamp %s", data)
		}
		whole := int64(secs)
		t.Time = time.Unix(whole, int64((secs-float64(whole))*1e9)).In(time.Local)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func ParseTimestamp(raw string) (time.Time, error) {
	v := strings.TrimSpace(raw)
	for _, layout := range timestampReadLayouts {
		if parsed, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return parsed, nil
		}
	}
	if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return parsed.In(time.Local), nil
	}
	return time.Time{}, fmt.Errorf("storage: bad timestamp %q", raw)
}

type eventRecord struct {
	ID         string    `json:"id,omitempty"`
	Title      string    `json:"title"`
	StartTime  Timestamp `json:"start_time"`
	EndTime    Timestamp `json:"end_time"`
	Recurrence string    `json:"recurrence"`
	Completed  bool      `json:"completed"`
	TaskID     string    `json:"task_id,omitempty"`
	SeriesID   string    `json:"series_id,omitempty"`
}

func toEventRecord(ev model.Event) eventRecord {
	return eventRecord{
		ID:         ev.ID,
		Title:      ev.Title,
		StartTime:  Timestamp{ev.Start},
		EndTime:    Timestamp{ev.End},
		Recurrence: string(ev.Recurrence),
		Completed:  ev.Completed,
		TaskID:     ev.TaskID,
		SeriesID:   ev.SeriesID,
	}
}

// check rejects records no store operation could have written.
func (r eventRecord) check() error {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return fmt.Errorf("event %q has no start or end time", r.Title)
	}
	if !r.StartTime.Before(r.EndTime.Time) {
		return fmt.Errorf("event %q ends before it starts", r.Title)
	}
	return nil
}

func (r eventRecord) toModel() model.Event {
	rec, err := model.ParseRecurrence(r.Recurrence)
	if err != nil {
		rec = model.RecurrenceNone
	}
	return model.Event{
		ID:         r.ID,
		Title:      r.Title,
		Start:      r.StartTime.Time,
		End:        r.EndTime.Time,
		Recurrence: rec,
		Completed:  r.Completed,
		TaskID:     r.TaskID,
		SeriesID:   r.SeriesID,
	}
}

// minutes accepts a JSON number or a numeric string.
type minutes int

func (m *minutes) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("storage: bad task time %s", data)
	}
	*m = minutes(v)
	return nil
}

type taskRecord struct {
	ID         string  `json:"id,omitempty"`
	Title      string  `json:"title"`
	Day        string  `json:"day"`
	Time       minutes `json:"time"`
	Done       bool    `json:"done"`
	Scheduled  bool    `json:"scheduled"`
	Recurrence string  `json:"recurrence"`
}

func toTaskRecord(t model.Task) taskRecord {
	return taskRecord{
		ID:         t.ID,
		Title:      t.Title,
		Day:        string(t.Day),
		Time:       minutes(t.DurationMinutes),
		Done:       t.Done,
		Scheduled:  t.Scheduled,
		Recurrence: string(t.Recurrence),
	}
}

func (r taskRecord) toModel() model.Task {
	day, err := model.ParseDay(r.Day)
	if err != nil {
		day = model.DayUnassigned
	}
	rec, err := model.ParseRecurrence(r.Recurrence)
	if err != nil || !rec.ValidForTask() {
		rec = model.RecurrenceNone
	}
	return model.Task{
		ID:              r.ID,
		Title:           r.Title,
		Day:             day,
		DurationMinutes: int(r.Time),
		Done:            r.Done,
		Scheduled:       r.Scheduled,
		Recurrence:      rec,
	}
}
