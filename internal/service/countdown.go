package service

import (
	"fmt"
	"time"

	"github.com/mmcdole/newsdesk/internal/domain"
)

// Summaries are generated hourly between these hours of the local day
const (
	firstSummaryHour = 9
	lastSummaryHour  = 23
)

// Remaining is the time left until the next summary, split for display
type Remaining struct {
	Hours   int
	Minutes int
	Seconds int
}

func (r Remaining) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
}

// NextSummaryAt returns the next summary boundary after now: 09:00 today
// before the window opens, the next whole hour inside it, and 09:00 the next
// day once it has closed.
func NextSummaryAt(now time.Time) time.Time {
	y, m, d := now.Date()
	switch h := now.Hour(); {
	case h < firstSummaryHour:
		return time.Date(y, m, d, firstSummaryHour, 0, 0, 0, now.Location())
	case h < lastSummaryHour:
		return time.Date(y, m, d, h+1, 0, 0, 0, now.Location())
	default:
		return time.Date(y, m, d+1, firstSummaryHour, 0, 0, 0, now.Location())
	}
}

// Countdown returns the time remaining until NextSummaryAt(now).
// It holds no state; callers recompute it on every tick.
func Countdown(now time.Time) Remaining {
	left := NextSummaryAt(now).Sub(now)
	if left < 0 {
		left = 0
	}
	secs := int(left / time.Second)
	return Remaining{
		Hours:   secs / 3600,
		Minutes: secs % 3600 / 60,
		Seconds: secs % 60,
	}
}

// GenerationStatus tells whether this hour's summary exists yet
type GenerationStatus int

const (
	GenerationPending GenerationStatus = iota
	GenerationDone
)

func (g GenerationStatus) String() string {
	if g == GenerationDone {
		return "Done"
	}
	return "Pending"
}

// SummaryStatus reports Done when latest was generated within the current hour
func SummaryStatus(latest *domain.Summary, now time.Time) GenerationStatus {
	if latest == nil || latest.GeneratedAt.IsZero() {
		return GenerationPending
	}
	generated := latest.GeneratedAt.In(now.Location())
	gy, gm, gd := generated.Date()
	ny, nm, nd := now.Date()
	if gy == ny && gm == nm && gd == nd && generated.Hour() == now.Hour() {
		return GenerationDone
	}
	return GenerationPending
}
