package domain

import "testing"

func sampleBookmarks() []*Bookmark {
	return []*Bookmark{
		{ID: "c", Title: "charlie", CreatedAt: 300, ScrollPosition: 100, DocumentHeight: 1000},
		{ID: "b", Title: "Bravo", CreatedAt: 200, ScrollPosition: 500, DocumentHeight: 1000, Pinned: true},
		{ID: "a", Title: "alpha", CreatedAt: 100, ScrollPosition: 900, DocumentHeight: 1000},
		{ID: "d", Title: "delta", CreatedAt: 50, MediaPosition: Float(45), MediaDuration: Float(100)},
	}
}

func ids(list []*Bookmark) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.ID
	}
	return out
}

func TestSortBookmarks(t *testing.T) {
	tests := []struct {
		name string
		mode SortMode
		want []string
	}{
		{name: "created desc", mode: SortCreatedDesc, want: []string{"b", "c", "a", "d"}},
		{name: "title asc", mode: SortTitleAsc, want: []string{"b", "a", "c", "d"}},
		{name: "progress desc", mode: SortProgressDesc, want: []string{"b", "a", "d", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := sampleBookmarks()
			SortBookmarks(list, tt.mode)
			if got := ids(list); !slicesEqual(got, tt.want) {
				t.Errorf("SortBookmarks(%s) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestFilterBookmarks(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter", filter: Filter{}, want: []string{"c", "b", "a", "d"}},
		{name: "pinned only", filter: Filter{PinnedOnly: true}, want: []string{"b"}},
		{name: "low band", filter: Filter{Band: BandLow}, want: []string{"c"}},
		{name: "mid band", filter: Filter{Band: BandMid}, want: []string{"b", "d"}},
		{name: "high band", filter: Filter{Band: BandHigh}, want: []string{"a"}},
		{name: "pinned and high", filter: Filter{PinnedOnly: true, Band: BandHigh}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterBookmarks(sampleBookmarks(), tt.filter))
			if !slicesEqual(got, tt.want) {
				t.Errorf("FilterBookmarks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSortModeAndBand(t *testing.T) {
	if m, err := ParseSortMode(""); err != nil || m != SortCreatedDesc {
		t.Errorf("ParseSortMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseSortMode("random"); err == nil {
		t.Error("ParseSortMode() should reject unknown modes")
	}
	if b, err := ParseBand("HIGH"); err != nil || b != BandHigh {
		t.Errorf("ParseBand(HIGH) = %v, %v", b, err)
	}
	if _, err := ParseBand("extreme"); err == nil {
		t.Error("ParseBand() should reject unknown bands")
	}
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(sampleBookmarks())
	if st.Total != 4 || st.Pinned != 1 {
		t.Errorf("Total/Pinned = %d/%d, want 4/1", st.Total, st.Pinned)
	}
	// (10 + 50 + 90 + 45) / 4 = 48.75
	if st.AverageProgress != 49 {
		t.Errorf("AverageProgress = %d, want 49", st.AverageProgress)
	}
	if len(st.Recent) != 3 || st.Recent[0].ID != "c" {
		t.Errorf("Recent = %v", ids(st.Recent))
	}
	if st.Bands[BandMid] != 2 {
		t.Errorf("Bands[mid] = %d, want 2", st.Bands[BandMid])
	}

	empty := ComputeStats(nil)
	if empty.Total != 0 || empty.Recent == nil {
		t.Error("ComputeStats(nil) should return an empty, non-nil recent list")
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
