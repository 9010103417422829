package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"gorm.io/gorm"
)

// BusyInterval is a normalized UTC range during which no slot may be offered.
// It is derived from appointments and blocked periods and recomputed per request.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the interval intersects [start, end).
// Half-open semantics: touching boundaries do not conflict.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}

// SlotUnavailableError is returned when a requested slot cannot be booked.
// It is a negative business verdict, not an infrastructure failure; the reason is
// advisory text, not a stable machine-readable code.
type SlotUnavailableError struct {
	Reason string
}

func (e *SlotUnavailableError) Error() string {
	return e.Reason
}

// OwnerLocation loads the owner's IANA timezone. A missing or invalid name silently
// falls back to the given zone; misconfiguration is never surfaced to callers.
func OwnerLocation(owner ScheduleOwner, fallback *time.Location) *time.Location {
	name := owner.Timezone()
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[WARNING] Invalid timezone %q for owner %s, using fallback %s", name, owner.OwnerID(), fallback)
		return fallback
	}
	return loc
}

// LocationOrUTC loads an IANA zone by name, returning UTC when the name is invalid
func LocationOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[WARNING] Invalid timezone %q, using UTC", name)
		return time.UTC
	}
	return loc
}

// ResolveDayWindow turns (owner, civil date) into the UTC open/close window for that
// day. ok is false when the owner is closed (no available business hours for the
// weekday) — that is a normal result, not an error.
//
// The weekday is derived from the date's year/month/day with the external convention
// 0=Sunday...6=Saturday (time.Weekday already counts from Sunday). When duplicate
// rows exist for a weekday the first by creation order wins.
//
// Misconfigured hours where close <= open are passed through untouched: the
// generation loop below then yields zero slots. Overnight windows are unsupported.
func ResolveDayWindow(db *gorm.DB, owner ScheduleOwner, date time.Time, fallback *time.Location) (openUTC, closeUTC time.Time, ok bool, err error) {
	year, month, day := date.Date()
	weekday := int(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday())

	hours, err := owner.BusinessHours(db, weekday)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("fetch business hours: %w", err)
	}
	if len(hours) == 0 {
		return time.Time{}, time.Time{}, false, nil
	}
	window := hours[0]

	openHour, openMin, perr := parseClock(window.StartTime)
	if perr != nil {
		log.Printf("[WARNING] Malformed start time %q on business hour %s, treating day as closed", window.StartTime, window.ID)
		return time.Time{}, time.Time{}, false, nil
	}
	closeHour, closeMin, perr := parseClock(window.EndTime)
	if perr != nil {
		log.Printf("[WARNING] Malformed end time %q on business hour %s, treating day as closed", window.EndTime, window.ID)
		return time.Time{}, time.Time{}, false, nil
	}

	loc := OwnerLocation(owner, fallback)
	openLocal := time.Date(year, month, day, openHour, openMin, 0, 0, loc)
	closeLocal := time.Date(year, month, day, closeHour, closeMin, 0, 0, loc)

	return openLocal.UTC(), closeLocal.UTC(), true, nil
}

// CollectBusyIntervals gathers every range that must be excluded from the window:
// non-cancelled appointments plus blocked periods, normalized to UTC and sorted
// ascending by start. Intervals are not coalesced; overlap testing against the raw
// list is all the generator needs.
func CollectBusyIntervals(db *gorm.DB, owner ScheduleOwner, openUTC, closeUTC time.Time) ([]BusyInterval, error) {
	appointments, err := owner.Appointments(db, openUTC, closeUTC)
	if err != nil {
		return nil, fmt.Errorf("fetch appointments: %w", err)
	}
	blocked, err := owner.BlockedPeriods(db, openUTC, closeUTC)
	if err != nil {
		return nil, fmt.Errorf("fetch blocked periods: %w", err)
	}

	busy := make([]BusyInterval, 0, len(appointments)+len(blocked))
	for _, apt := range appointments {
		busy = append(busy, BusyInterval{Start: apt.StartTime.UTC(), End: apt.EndTime.UTC()})
	}
	for _, block := range blocked {
		busy = append(busy, BusyInterval{Start: block.StartTime.UTC(), End: block.EndTime.UTC()})
	}
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})
	return busy, nil
}

// GenerateSlots walks the open window on a fixed grid of durationMinutes-wide steps
// and emits every candidate that conflicts with no busy interval. The walk always
// advances by one full step, even past a rejected candidate. Emitted slots are
// converted to the display timezone; output is ascending and deterministic.
func GenerateSlots(openUTC, closeUTC time.Time, durationMinutes int, busy []BusyInterval, display *time.Location) []models.TimeSlot {
	slots := []models.TimeSlot{}
	step := time.Duration(durationMinutes) * time.Minute

	for current := openUTC; !current.Add(step).After(closeUTC); current = current.Add(step) {
		candidateEnd := current.Add(step)

		conflict := false
		for _, b := range busy {
			if b.Overlaps(current, candidateEnd) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		slots = append(slots, models.TimeSlot{
			StartTime: current.In(display),
			EndTime:   candidateEnd.In(display),
		})
	}
	return slots
}

// GetAvailableSlots returns every bookable slot for the owner on the given civil
// date, in the display timezone. durationMinutes <= 0 falls back to the owner's
// default; a closed day yields an empty list.
func GetAvailableSlots(db *gorm.DB, owner ScheduleOwner, date time.Time, durationMinutes int, fallback, display *time.Location) ([]models.TimeSlot, error) {
	if durationMinutes <= 0 {
		durationMinutes = owner.DefaultDurationMinutes()
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", durationMinutes)
	}

	openUTC, closeUTC, open, err := ResolveDayWindow(db, owner, date, fallback)
	if err != nil {
		return nil, err
	}
	if !open {
		return []models.TimeSlot{}, nil
	}

	busy, err := CollectBusyIntervals(db, owner, openUTC, closeUTC)
	if err != nil {
		return nil, err
	}

	return GenerateSlots(openUTC, closeUTC, durationMinutes, busy, display), nil
}

// CheckSlotAvailable validates a single proposed booking range against blocked
// periods, business hours and existing appointments, in that order; the first
// failure wins. excludeAppointmentID skips one appointment in the conflict scan so
// reschedules don't collide with themselves. Read-only: the caller owns the insert.
func CheckSlotAvailable(db *gorm.DB, owner ScheduleOwner, start, end time.Time, excludeAppointmentID string, fallback *time.Location) (bool, string, error) {
	start = start.UTC()
	end = end.UTC()

	blocked, err := owner.BlockedPeriods(db, start, end)
	if err != nil {
		return false, "", fmt.Errorf("fetch blocked periods: %w", err)
	}
	for _, block := range blocked {
		if block.Contains(start, end) {
			reason := "Time slot is blocked"
			if block.Reason != "" {
				reason += ": " + block.Reason
			}
			return false, reason, nil
		}
	}
	for _, block := range blocked {
		if block.IsBlocking(start, end) {
			reason := "Time slot overlaps with blocked period"
			if block.Reason != "" {
				reason += ": " + block.Reason
			}
			return false, reason, nil
		}
	}

	loc := OwnerLocation(owner, fallback)
	localStart := start.In(loc)
	localEnd := end.In(loc)

	weekday := int(localStart.Weekday())
	hours, err := owner.BusinessHours(db, weekday)
	if err != nil {
		return false, "", fmt.Errorf("fetch business hours: %w", err)
	}
	if len(hours) == 0 {
		return false, fmt.Sprintf("No business hours configured for %s", models.WeekdayName(weekday)), nil
	}
	window := hours[0]

	// Zero-padded HH:MM strings compare correctly as text
	startClock := localStart.Format("15:04")
	endClock := localEnd.Format("15:04")
	if startClock < window.StartTime || endClock > window.EndTime {
		return false, fmt.Sprintf("Time slot outside business hours (%s - %s)", window.StartTime, window.EndTime), nil
	}

	appointments, err := owner.Appointments(db, start, end)
	if err != nil {
		return false, "", fmt.Errorf("fetch appointments: %w", err)
	}
	for _, apt := range appointments {
		if excludeAppointmentID != "" && apt.ID == excludeAppointmentID {
			continue
		}
		return false, "Time slot conflicts with existing appointment", nil
	}

	return true, "Time slot is available", nil
}

func parseClock(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
