package calendar

import (
	"context"
	"fmt"
	"io"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//planner//calendar export//EN"

// ExportICS writes every stored occurrence as a VEVENT. Occurrences are
// already materialized, so no RRULE is emitted.
func (s *Store) ExportICS(ctx context.Context, w io.Writer) (int, error) {
	events, err := s.current(ctx)
	if err != nil {
		return 0, err
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	stamp := s.now()
	for _, ev := range events {
		vev := cal.AddEvent(ev.ID)
		vev.SetDtStampTime(stamp)
		vev.SetStartAt(ev.Start)
		vev.SetEndAt(ev.End)
		vev.SetSummary(ev.Title)
		if ev.Recurrence != "" {
			vev.SetProperty(ics.ComponentPropertyCategories, string(ev.Recurrence))
		}
		if ev.Completed {
			vev.SetProperty(ics.ComponentPropertyStatus, "COMPLETED")
		} else {
			vev.SetProperty(ics.ComponentPropertyStatus, "CONFIRMED")
		}
	}
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return 0, fmt.Errorf("calendar: write ics: %w", err)
	}
	return len(events), nil
}
