package domain

// OrdersPerPage is the fixed size of the order list page.
const OrdersPerPage = 6

// Page is one visible slice of the orders in a single status.
type Page struct {
	Status     Status
	Number     int
	Size       int
	TotalPages int
	TotalCount int
	Orders     []*Order
}

// Paginate filters orders by status and returns the requested page.
// Out-of-range page numbers clamp to the nearest valid page instead of failing.
func Paginate(orders []*Order, status Status, number, size int) Page {
	if size <= 0 {
		size = OrdersPerPage
	}
	filtered := make([]*Order, 0, len(orders))
	for _, o := range orders {
		if o != nil && o.Status == status {
			filtered = append(filtered, o)
		}
	}
	totalPages := (len(filtered) + size - 1) / size
	page := Page{
		Status:     status,
		Size:       size,
		TotalPages: totalPages,
		TotalCount: len(filtered),
		Number:     ClampPage(number, totalPages),
	}
	start := (page.Number - 1) * size
	if start >= len(filtered) {
		page.Orders = []*Order{}
		return page
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	page.Orders = filtered[start:end]
	return page
}

// ClampPage keeps a page number within [1, totalPages]; an empty listing still reports page 1.
func ClampPage(number, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if number < 1 {
		return 1
	}
	if number > totalPages {
		return totalPages
	}
	return number
}

// CountByStatus tallies orders per status so status tabs can show totals.
func CountByStatus(orders []*Order) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, o := range orders {
		if o != nil {
			counts[o.Status]++
		}
	}
	return counts
}
