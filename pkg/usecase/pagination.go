package usecase

// AllowedLimits is the fixed ascending list of selectable rows-per-page
// values.
var AllowedLimits = []int{
	100, 200, 300, 400, 500, 600, 1000, 1500,
	2000, 2500, 3000, 3500, 4000, 4500, 5000, 5500,
	6000, 6500, 7000,
}

// DefaultLimit is the initial rows-per-page value
const DefaultLimit = 100

// IsAllowedLimit reports whether the limit is one of the selectable values
func IsAllowedLimit(limit int) bool {
	for _, l := range AllowedLimits {
		if l == limit {
			return true
		}
	}
	return false
}

// TotalPages returns ceil(count/limit), with a minimum of 1 so an empty
// result set still renders as page 1 of 1.
func TotalPages(count, limit int) int {
	if limit <= 0 {
		return 1
	}
	pages := (count + limit - 1) / limit
	if pages < 1 {
		return 1
	}
	return pages
}

// PageBounds returns the half-open slice bounds [start, end) for the given
// page. An out-of-range page yields an empty slice.
func PageBounds(count, page, limit int) (int, int) {
	if limit <= 0 || page < 1 {
		return 0, 0
	}
	start := (page - 1) * limit
	if start >= count {
		return 0, 0
	}
	end := start + limit
	if end > count {
		end = count
	}
	return start, end
}
