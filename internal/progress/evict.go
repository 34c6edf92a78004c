package progress

import (
	"sort"

	"github.com/MrSnakeDoc/readmark/internal/domain"
)

// trim enforces the capacity ceiling. Unpinned records go first, starting
// from the oldest end of the list; pinned records are only evicted, again
// oldest first, once no unpinned record is left.
func trim(list []*domain.Bookmark, capacity int) []*domain.Bookmark {
	excess := len(list) - capacity
	if excess <= 0 {
		return list
	}

	drop := make(map[int]struct{}, excess)
	for pass := 0; pass < 2 && len(drop) < excess; pass++ {
		wantPinned := pass == 1
		for i := len(list) - 1; i >= 0 && len(drop) < excess; i-- {
			if list[i].Pinned == wantPinned {
				drop[i] = struct{}{}
			}
		}
	}

	kept := make([]*domain.Bookmark, 0, capacity)
	for i, b := range list {
		if _, ok := drop[i]; !ok {
			kept = append(kept, b)
		}
	}
	return kept
}

func indexByURL(list []*domain.Bookmark, normalized string) int {
	for i, b := range list {
		if domain.NormalizeURL(b.URL) == normalized {
			return i
		}
	}
	return -1
}

func indexByID(list []*domain.Bookmark, id string) int {
	for i, b := range list {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func sortByCreatedDesc(list []*domain.Bookmark) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt > list[j].CreatedAt
	})
}
