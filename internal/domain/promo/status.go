package promo

import (
	"fmt"
	"strings"
	"time"

	"gymease-service/internal/pkg/civil"
)

// FilterAll matches every status.
const FilterAll = "all"

// ResolveStatus derives the campaign state at now. Rules apply in order:
// disabled promos are inactive, then a future start means scheduled, then a
// past end means expired, otherwise active. Both window bounds are inclusive
// and compared by calendar day in now's location.
func ResolveStatus(p *Promo, now time.Time) Status {
	if !p.IsActive {
		return StatusInactive
	}

	today := civil.DateOf(now)
	if p.StartDate != nil && today.Before(p.StartDate.Time) {
		return StatusScheduled
	}
	if p.EndDate != nil && today.After(p.EndDate.Time) {
		return StatusExpired
	}
	return StatusActive
}

// WithStatus wraps a promo with its status at now.
func WithStatus(p Promo, now time.Time) View {
	return View{Promo: p, Status: ResolveStatus(&p, now)}
}

// ParseStatusFilter accepts "all" (or empty) and every Status value, case-insensitively.
func ParseStatusFilter(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == FilterAll {
		return FilterAll, nil
	}
	for _, st := range Statuses {
		if s == string(st) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}
