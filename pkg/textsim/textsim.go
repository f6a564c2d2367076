// Package textsim provides set-based text similarity used to keep
// near-duplicate generated questions out of the question bank.
package textsim

import (
	"strings"
	"unicode"
)

// DefaultThreshold is the Jaccard similarity at or above which two question
// texts are considered duplicates.
const DefaultThreshold = 0.7

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "in": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {},
	"the": {}, "to": {}, "was": {}, "were": {}, "which": {}, "will": {},
	"with": {},
}

// TokenSet is a de-duplicated bag of normalized tokens.
type TokenSet map[string]struct{}

// Tokenize lowercases the text, strips everything but letters and digits,
// splits on whitespace and drops stop words and single-character tokens.
func Tokenize(text string) TokenSet {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	set := make(TokenSet)
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// Jaccard returns |A∩B| / |A∪B|. Two empty sets are identical by vacuity
// and score 1.
func Jaccard(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// similarityAbove computes the Jaccard similarity of a and b but gives up as
// soon as the pair provably cannot reach threshold. It returns (similarity,
// true) when the pair reaches threshold and (0, false) otherwise. Skips are
// exact: a skipped pair is never a true positive.
func similarityAbove(a, b TokenSet, threshold float64) (float64, bool) {
	if len(a) == 0 && len(b) == 0 {
		return 1, threshold <= 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	// Size-ratio prune: J(A,B) ≤ min/max, and J ≥ t forces
	// min/max ≥ t/(2−t).
	if float64(len(small))/float64(len(large)) < threshold/(2-threshold) {
		return 0, false
	}

	// Minimum intersection size needed: J = i/(|A|+|B|−i) ≥ t  ⇔
	// i ≥ t(|A|+|B|)/(1+t).
	total := len(small) + len(large)
	needed := int(ceilDiv(threshold*float64(total), 1+threshold))

	inter := 0
	remaining := len(small)
	for tok := range small {
		if _, ok := large[tok]; ok {
			inter++
		}
		remaining--
		// Even if every unscanned token matched we would fall short.
		if inter+remaining < needed {
			return 0, false
		}
	}

	sim := float64(inter) / float64(total-inter)
	if sim < threshold {
		return 0, false
	}
	return sim, true
}

func ceilDiv(num, den float64) float64 {
	q := num / den
	if q == float64(int(q)) {
		return q
	}
	return float64(int(q) + 1)
}

// Item is an entry in the comparison pool.
type Item struct {
	ID     int64
	Text   string
	tokens TokenSet
}

// NewItem tokenizes text once so the pool can be scanned repeatedly.
func NewItem(id int64, text string) Item {
	return Item{ID: id, Text: text, tokens: Tokenize(text)}
}

// Match reports the pool item most similar to a candidate.
type Match struct {
	Item       Item
	Similarity float64
}

// FindDuplicate tokenizes candidate and returns the highest-similarity pool
// item at or above threshold, or nil when the candidate is novel.
func FindDuplicate(candidate string, pool []Item, threshold float64) *Match {
	return bestMatch(Tokenize(candidate), pool, threshold)
}

func bestMatch(tokens TokenSet, pool []Item, threshold float64) *Match {
	var best *Match
	for i := range pool {
		sim, ok := similarityAbove(tokens, pool[i].tokens, threshold)
		if !ok {
			continue
		}
		if best == nil || sim > best.Similarity {
			best = &Match{Item: pool[i], Similarity: sim}
		}
	}
	return best
}

// Result is the per-text outcome of a batch deduplication run.
type Result struct {
	Text       string
	Accepted   bool
	MatchText  string
	Similarity float64
}

// DeduplicateBatch checks each new text against the existing pool and
// against texts accepted earlier in the same batch, so later entries cannot
// duplicate earlier ones. The pool passed in is not mutated.
func DeduplicateBatch(newTexts []string, existing []Item, threshold float64) []Result {
	pool := make([]Item, len(existing))
	copy(pool, existing)

	results := make([]Result, 0, len(newTexts))
	for _, text := range newTexts {
		tokens := Tokenize(text)
		if match := bestMatch(tokens, pool, threshold); match != nil {
			results = append(results, Result{
				Text:       text,
				MatchText:  match.Item.Text,
				Similarity: match.Similarity,
			})
			continue
		}
		pool = append(pool, Item{Text: text, tokens: tokens})
		results = append(results, Result{Text: text, Accepted: true})
	}
	return results
}
