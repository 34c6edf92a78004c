package domain

import (
	"sort"
	"strings"
)

const (
	// Scoring weights for free-text bookmark search
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Earlier substring hits score higher
	ScorePositionBonus = 10.0

	// URL hits count for less than title hits
	ScoreURLWeight = 0.5
)

// BookmarkCandidate is a search hit with its score.
type BookmarkCandidate struct {
	Bookmark *Bookmark
	Score    float64
}

// ScoreBookmark scores a bookmark's title and URL against a query.
func ScoreBookmark(queryStr string, bookmark *Bookmark) float64 {
	if bookmark == nil {
		return 0.0
	}
	queryStr = strings.ToLower(strings.TrimSpace(queryStr))
	if queryStr == "" {
		return 0.0
	}

	titleScore := scoreText(queryStr, strings.ToLower(bookmark.Title))
	urlScore := scoreText(queryStr, strings.ToLower(NormalizeURL(bookmark.URL))) * ScoreURLWeight
	if urlScore > titleScore {
		return urlScore
	}
	return titleScore
}

func scoreText(queryStr, text string) float64 {
	if text == "" {
		return 0.0
	}

	if queryStr == text {
		return ScoreExactMatch
	}

	if strings.HasPrefix(text, queryStr) {
		return ScorePrefixMatch
	}

	if index := strings.Index(text, queryStr); index >= 0 {
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(text)))
		return ScoreSubstringMatch + substringBonus
	}

	// Multi-word query: every word must appear somewhere
	queryWords := strings.Fields(queryStr)
	if len(queryWords) > 1 {
		for _, word := range queryWords {
			if !strings.Contains(text, word) {
				return 0.0
			}
		}
		return ScoreFuzzyMatch
	}

	return 0.0
}

// SearchBookmarks returns the bookmarks matching queryStr, best first.
// Ties keep their input order.
func SearchBookmarks(queryStr string, bookmarks []*Bookmark) []*BookmarkCandidate {
	candidates := make([]*BookmarkCandidate, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		score := ScoreBookmark(queryStr, bookmark)
		if score == 0.0 {
			continue
		}
		candidates = append(candidates, &BookmarkCandidate{
			Bookmark: bookmark,
			Score:    score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
