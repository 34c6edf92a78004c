package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SortMode selects the secondary ordering of a listing. Pinned records
// always come first regardless of mode.
type SortMode string

const (
	SortCreatedDesc  SortMode = "date_desc"
	SortTitleAsc     SortMode = "title_asc"
	SortProgressDesc SortMode = "progress_desc"
)

// ParseSortMode maps user input to a SortMode; empty means the default.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.TrimSpace(strings.ToLower(s))) {
	case "", SortCreatedDesc:
		return SortCreatedDesc, nil
	case SortTitleAsc:
		return SortTitleAsc, nil
	case SortProgressDesc:
		return SortProgressDesc, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
}

// Filter narrows a listing. Zero value matches everything.
type Filter struct {
	PinnedOnly bool
	Band       Band // empty = any band
}

// ParseBand maps user input to a Band; empty means "any".
func ParseBand(s string) (Band, error) {
	switch Band(strings.TrimSpace(strings.ToLower(s))) {
	case "":
		return "", nil
	case BandLow:
		return BandLow, nil
	case BandMid:
		return BandMid, nil
	case BandHigh:
		return BandHigh, nil
	default:
		return "", fmt.Errorf("unknown progress band %q", s)
	}
}

// Match reports whether b passes the filter.
func (f Filter) Match(b *Bookmark) bool {
	if f.PinnedOnly && !b.Pinned {
		return false
	}
	if f.Band != "" && b.Band() != f.Band {
		return false
	}
	return true
}

// FilterBookmarks returns the records matching f, preserving order.
func FilterBookmarks(in []*Bookmark, f Filter) []*Bookmark {
	out := make([]*Bookmark, 0, len(in))
	for _, b := range in {
		if f.Match(b) {
			out = append(out, b)
		}
	}
	return out
}

// SortBookmarks sorts in place: pinned first, then by mode. The sort is
// stable so equal keys keep their stored (most-recent-first) order.
func SortBookmarks(list []*Bookmark, mode SortMode) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		switch mode {
		case SortTitleAsc:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortProgressDesc:
			return a.Progress() > b.Progress()
		default:
			return a.CreatedAt > b.CreatedAt
		}
	})
}

// PinnedFirst moves pinned records ahead of the others, keeping the
// relative order within each group.
func PinnedFirst(list []*Bookmark) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Pinned && !list[j].Pinned
	})
}
