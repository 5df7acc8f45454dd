package promo

import (
	"iter"
	"slices"
	"strings"
	"time"
)

// Filter yields, in input order, the promos whose name, code or package name
// contains search (case-insensitive) and whose status at now equals status.
// An empty search and the "all" status match everything. The sequence is lazy:
// nothing is evaluated until it is ranged over.
func Filter(promos []Promo, search, status string, now time.Time) iter.Seq[Promo] {
	needle := strings.ToLower(strings.TrimSpace(search))
	status = strings.ToLower(strings.TrimSpace(status))

	return func(yield func(Promo) bool) {
		for _, p := range promos {
			if !matchesText(&p, needle) || !matchesStatus(&p, status, now) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// FilterPromos is Filter collected into a slice.
func FilterPromos(promos []Promo, search, status string, now time.Time) []Promo {
	out := slices.Collect(Filter(promos, search, status, now))
	if out == nil {
		out = []Promo{}
	}
	return out
}

// CountByStatus tallies promos per resolved status.
func CountByStatus(promos []Promo, now time.Time) Stats {
	stats := Stats{Total: len(promos)}
	for i := range promos {
		switch ResolveStatus(&promos[i], now) {
		case StatusActive:
			stats.Active++
		case StatusScheduled:
			stats.Scheduled++
		case StatusExpired:
			stats.Expired++
		case StatusInactive:
			stats.Inactive++
		}
	}
	return stats
}

func matchesText(p *Promo, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{p.Name, p.Code, p.PackageName()} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func matchesStatus(p *Promo, status string, now time.Time) bool {
	if status == "" || status == FilterAll {
		return true
	}
	return string(ResolveStatus(p, now)) == status
}
