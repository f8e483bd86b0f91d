package paginate

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// prefixLengths are the anchored prefix sizes, in runes, tried when testing
// a block against a page, smallest first.
var prefixLengths = []int{50, 100, 200}

// fallbackWords is the number of leading words in the last-resort test.
const fallbackWords = 20

// Normalize folds compatibility characters (ligatures, non-breaking spaces)
// and collapses whitespace runs to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// Textual assigns each block to the first rendered page whose text contains
// the block's text, then places the remaining blocks next to their nearest
// assigned neighbour. Blocks with empty text are only ever placed by
// proximity. The result has exactly len(pageTexts) pages, some possibly
// empty; like the authoritative tier it only applies with two or more
// pages, since a single page carries no boundary.
func Textual(pageTexts []string, blockTexts []string) (Partition, bool) {
	if len(pageTexts) < 2 {
		return nil, false
	}

	pages := make(Partition, len(pageTexts))
	for i := range pages {
		pages[i] = []int{}
	}

	texts := make([]string, len(blockTexts))
	for i, t := range blockTexts {
		texts[i] = Normalize(t)
	}

	assigned := newAssignment(len(texts))
	for p, raw := range pageTexts {
		page := Normalize(raw)
		if page == "" {
			continue
		}
		for i, text := range texts {
			if text == "" || assigned.has(i) {
				continue
			}
			if matchesPage(text, page) {
				assigned.set(i, p)
				pages[p] = append(pages[p], i)
			}
		}
	}

	for i := range texts {
		if assigned.has(i) {
			continue
		}
		p := nearestPage(pages, i)
		pages[p] = insertSorted(pages[p], i)
		assigned.set(i, p)
	}
	return pages, true
}

// assignment records which page each block landed on; -1 is unassigned.
type assignment []int

func newAssignment(n int) assignment {
	a := make(assignment, n)
	for i := range a {
		a[i] = -1
	}
	return a
}

func (a assignment) has(i int) bool  { return a[i] >= 0 }
func (a assignment) set(i, page int) { a[i] = page }

func matchesPage(text, page string) bool {
	for _, n := range prefixLengths {
		if strings.Contains(page, prefix(text, n)) {
			return true
		}
	}
	words := strings.Fields(text)
	if len(words) > fallbackWords {
		words = words[:fallbackWords]
	}
	return strings.Contains(page, strings.Join(words, " "))
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// nearestPage picks the non-empty page holding the block closest in index
// to i. Ties go to the earlier page. With no non-empty page it returns 0.
func nearestPage(pages Partition, i int) int {
	best, bestDist := 0, math.MaxInt
	for p, page := range pages {
		if len(page) == 0 {
			continue
		}
		if d := distance(page, i); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// distance is the smallest |i - idx| over the ascending indices of page.
func distance(page []int, i int) int {
	pos, _ := slices.BinarySearch(page, i)
	d := math.MaxInt
	if pos < len(page) {
		d = page[pos] - i
	}
	if pos > 0 {
		d = min(d, i-page[pos-1])
	}
	return d
}

func insertSorted(page []int, i int) []int {
	pos, _ := slices.BinarySearch(page, i)
	return slices.Insert(page, pos, i)
}
