package domain

import "math"

// recentCount is how many records the stats summary lists as recent activity.
const recentCount = 3

// Stats summarises a bookmark collection.
type Stats struct {
	Total           int          `json:"total"`
	Pinned          int          `json:"pinned"`
	AverageProgress int          `json:"averageProgress"`
	Bands           map[Band]int `json:"bands"`
	Recent          []*Bookmark  `json:"recent"`
	LastActivity    int64        `json:"lastActivity,omitempty"`
}

// ComputeStats expects bookmarks in stored (most-recent-first) order.
func ComputeStats(bookmarks []*Bookmark) Stats {
	st := Stats{
		Total: len(bookmarks),
		Bands: map[Band]int{BandLow: 0, BandMid: 0, BandHigh: 0},
	}
	if len(bookmarks) == 0 {
		st.Recent = []*Bookmark{}
		return st
	}

	var sum float64
	for _, b := range bookmarks {
		if b.Pinned {
			st.Pinned++
		}
		p := b.Progress()
		sum += p
		st.Bands[BandFor(p)]++
		if b.UpdatedAt > st.LastActivity {
			st.LastActivity = b.UpdatedAt
		}
	}
	st.AverageProgress = int(math.Round(sum / float64(len(bookmarks))))

	n := recentCount
	if len(bookmarks) < n {
		n = len(bookmarks)
	}
	st.Recent = append([]*Bookmark(nil), bookmarks[:n]...)
	return st
}
