package normalizer

import (
	"strings"

	"steamdata/internal/models"
)

// NonGameTag is the synthetic genre that replaces every configured
// non-game genre label.
const NonGameTag = "nongame"

// Category vocabularies, lower-case.
var (
	VocabSinglePlayer       = []string{"single-player"}
	VocabMultiplayer        = []string{"multi-player", "online multi-player", "local multi-player", "cross-platform multiplayer", "shared/split screen"}
	VocabCoop               = []string{"co-op", "local co-op", "online co-op"}
	VocabMMO                = []string{"mmo"}
	VocabInAppPurchase      = []string{"in-app purchases"}
	VocabIncludeSrcSDK      = []string{"includes source sdk"}
	VocabIncludeLevelEditor = []string{"includes level editor"}
	VocabVRSupport          = []string{"vr support"}
)

// TagSet is a set of normalized tag labels.
type TagSet map[string]struct{}

// Has reports whether label is a member.
func (s TagSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// HasAny reports whether the set intersects vocab.
func (s TagSet) HasAny(vocab ...string) bool {
	for _, v := range vocab {
		if s.Has(v) {
			return true
		}
	}

	return false
}

// UniqueCount returns the number of distinct non-empty labels in items,
// compared case-insensitively after trimming.
func UniqueCount(items []any) int {
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		if key := labelKey(item); key != "" {
			seen[key] = struct{}{}
		}
	}

	return len(seen)
}

// TagMembership collects the lower-cased, trimmed descriptions of tags.
func TagMembership(tags []models.Tag) TagSet {
	set := make(TagSet, len(tags))

	for _, t := range tags {
		if key := labelKey(t.Description); key != "" {
			set[key] = struct{}{}
		}
	}

	return set
}

// GenreRemap collapses configured genre labels into NonGameTag.
type GenreRemap map[string]struct{}

// NewGenreRemap builds a remap table from display labels.
func NewGenreRemap(labels []string) GenreRemap {
	r := make(GenreRemap, len(labels))

	for _, l := range labels {
		if key := labelKey(l); key != "" {
			r[key] = struct{}{}
		}
	}

	return r
}

// Apply returns a copy of set with every remapped label replaced by
// NonGameTag.
func (r GenreRemap) Apply(set TagSet) TagSet {
	out := make(TagSet, len(set))

	for label := range set {
		if _, ok := r[label]; ok {
			out[NonGameTag] = struct{}{}
			continue
		}

		out[label] = struct{}{}
	}

	return out
}

func labelKey(v any) string {
	return strings.ToLower(strings.TrimSpace(displayString(v)))
}
