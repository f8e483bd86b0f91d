package paginate

// Authoritative groups blocks at each flagged break. A break on the first
// block of a page opens nothing new. The tier applies only when it yields
// at least two pages; fewer means the markers were absent or unusable.
func Authoritative(breaks []bool, n int) (Partition, bool) {
	var pages Partition
	var cur []int
	for i := 0; i < n; i++ {
		if i < len(breaks) && breaks[i] && len(cur) > 0 {
			pages = append(pages, cur)
			cur = nil
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		pages = append(pages, cur)
	}
	return pages, len(pages) >= 2
}
