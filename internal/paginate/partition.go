// Package paginate reconstructs page boundaries over an ordered block
// sequence and projects the result back onto markup and tree form.
package paginate

import (
	"fmt"
)

// Partition assigns block indices to ordered pages. Indices within a page
// ascend; a page may be empty.
type Partition [][]int

// Tier names the strategy that produced a partition.
type Tier string

const (
	TierAuthoritative Tier = "authoritative"
	TierTextual       Tier = "textual"
	TierEqualDivision Tier = "equal-division"
)

// Validate checks that p covers [0, n) exactly once with ascending pages.
func Validate(p Partition, n int) error {
	seen := make([]bool, n)
	count := 0
	for pi, page := range p {
		for j, idx := range page {
			if idx < 0 || idx >= n {
				return fmt.Errorf("page %d: index %d out of range [0, %d)", pi, idx, n)
			}
			if seen[idx] {
				return fmt.Errorf("page %d: index %d assigned twice", pi, idx)
			}
			if j > 0 && page[j-1] >= idx {
				return fmt.Errorf("page %d: indices not ascending at %d", pi, idx)
			}
			seen[idx] = true
			count++
		}
	}
	if count != n {
		return fmt.Errorf("partition covers %d of %d blocks", count, n)
	}
	return nil
}

// Sizes returns the number of blocks on each page.
func (p Partition) Sizes() []int {
	out := make([]int, len(p))
	for i, page := range p {
		out[i] = len(page)
	}
	return out
}

// Strategy is one tier: Run returns a partition and whether the tier
// applies to its inputs.
type Strategy struct {
	Tier Tier
	Run  func() (Partition, bool)
}

// Selection is the outcome of FirstValid.
type Selection struct {
	Partition Partition
	Tier      Tier
	Rejected  []Tier
}

// FirstValid runs strategies in order and returns the first partition that
// both applies and covers [0, n). ok is false when none qualifies.
func FirstValid(n int, strategies ...Strategy) (sel Selection, ok bool) {
	for _, s := range strategies {
		p, applies := s.Run()
		if applies && Validate(p, n) == nil {
			sel.Partition = p
			sel.Tier = s.Tier
			return sel, true
		}
		sel.Rejected = append(sel.Rejected, s.Tier)
	}
	return sel, false
}

// Input carries everything the three tiers need for one document.
type Input struct {
	// Blocks is the block count N.
	Blocks int
	// Breaks flags a page break before block i; nil when the source
	// document model has no break markers.
	Breaks []bool
	// PageTexts holds rendered per-page text; nil when rendering failed.
	PageTexts []string
	// BlockTexts is the plain text of each block, len == Blocks.
	BlockTexts []string
	// NumPages is the page-count estimate for equal division.
	NumPages int
}

// Select tries the authoritative, textual and equal-division tiers in that
// order. Equal division always applies, so Select always returns a
// partition.
func Select(in Input) Selection {
	sel, ok := FirstValid(in.Blocks,
		Strategy{TierAuthoritative, func() (Partition, bool) {
			return Authoritative(in.Breaks, in.Blocks)
		}},
		Strategy{TierTextual, func() (Partition, bool) {
			return Textual(in.PageTexts, in.BlockTexts)
		}},
		Strategy{TierEqualDivision, func() (Partition, bool) {
			return EqualDivision(in.Blocks, in.NumPages), true
		}},
	)
	if !ok {
		// Unreachable for consistent inputs; keep the terminal guarantee
		// even if BlockTexts and Blocks disagree.
		sel.Partition = EqualDivision(in.Blocks, in.NumPages)
		sel.Tier = TierEqualDivision
	}
	return sel
}
