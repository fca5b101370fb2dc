package classify

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// keywordSet matches a fixed vocabulary against text in a single pass.
// The matcher is built once and only read afterwards.
type keywordSet struct {
	words   []string
	matcher *ahocorasick.Matcher
}

func newKeywordSet(words ...string) keywordSet {
	seen := make(map[string]struct{}, len(words))
	uniq := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		uniq = append(uniq, w)
	}
	ks := keywordSet{words: uniq}
	if len(uniq) > 0 {
		ks.matcher = ahocorasick.NewStringMatcher(uniq)
	}
	return ks
}

// count returns how many distinct keywords occur as substrings of text.
func (k keywordSet) count(text string) int {
	if k.matcher == nil || text == "" {
		return 0
	}
	return len(k.matcher.MatchThreadSafe([]byte(text)))
}

func (k keywordSet) any(text string) bool {
	return k.count(text) > 0
}

// normalize lowercases s after NFC composition. A Caser is stateful, so one
// is built per call.
func normalize(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// titleKey is the lookup key for manual overrides.
func titleKey(title string) string {
	return strings.TrimSpace(normalize(title))
}

// searchText is the lowercased title + " " + overview that every keyword
// rule reads.
func searchText(title, overview string) string {
	return normalize(title + " " + overview)
}
