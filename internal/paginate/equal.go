package paginate

// EqualDivision splits [0, n) into numPages contiguous slices of n/numPages
// blocks, the last absorbing the remainder. Trailing pages are empty when
// there are fewer blocks than pages.
func EqualDivision(n, numPages int) Partition {
	if numPages < 1 {
		numPages = 1
	}
	if n < 0 {
		n = 0
	}
	perPage := max(1, n/numPages)

	pages := make(Partition, numPages)
	for i := range numPages {
		start := min(i*perPage, n)
		end := min(start+perPage, n)
		if i == numPages-1 {
			end = n
		}
		page := make([]int, 0, end-start)
		for idx := start; idx < end; idx++ {
			page = append(page, idx)
		}
		pages[i] = page
	}
	return pages
}
