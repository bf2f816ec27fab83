package query

import (
	"strconv"

	"github.com/revisio/revisio-go/internal/domain"
)

// Ellipsis is the placeholder label inside a page-number window.
const Ellipsis = "…"

// Page is one window of the filtered roster. StartIndex and EndIndex are
// 1-based item positions (0/0 when the roster is empty).
type Page struct {
	Items       []domain.Asset `json:"items"`
	Total       int            `json:"total"`
	TotalPages  int            `json:"total_pages"`
	Current     int            `json:"current_page"`
	PerPage     int            `json:"per_page"`
	StartIndex  int            `json:"start_index"`
	EndIndex    int            `json:"end_index"`
	HasPrevious bool           `json:"has_previous"`
	HasNext     bool           `json:"has_next"`
	Window      []string       `json:"window"`
}

// Paginate slices the ordered roster into the requested page. Out-of-range
// page numbers are clamped into [1, totalPages] rather than rejected, and
// an empty roster yields a well-defined empty page.
func Paginate(assets []domain.Asset, page, perPage int) Page {
	if perPage < 1 {
		perPage = 1
	}
	total := len(assets)
	totalPages := (total + perPage - 1) / perPage

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		page = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	p := Page{
		Items:       assets[start:end],
		Total:       total,
		TotalPages:  totalPages,
		Current:     page,
		PerPage:     perPage,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
		Window:      PageWindow(totalPages, page),
	}
	if total > 0 {
		p.StartIndex = start + 1
		p.EndIndex = end
	}
	return p
}

// PageWindow produces the page-number labels shown by a pager. Up to seven
// pages are listed in full; beyond that a seven-slot window always keeps
// the first and last page visible, collapses the gap into an ellipsis and
// centers on the current page away from the edges.
func PageWindow(totalPages, current int) []string {
	if totalPages <= 1 {
		return nil
	}
	if totalPages <= 7 {
		w := make([]string, totalPages)
		for i := range w {
			w[i] = strconv.Itoa(i + 1)
		}
		return w
	}
	switch {
	case current < 5:
		return []string{"1", "2", "3", "4", "5", Ellipsis, strconv.Itoa(totalPages)}
	case current > totalPages-4:
		return []string{
			"1", Ellipsis,
			strconv.Itoa(totalPages - 4), strconv.Itoa(totalPages - 3), strconv.Itoa(totalPages - 2),
			strconv.Itoa(totalPages - 1), strconv.Itoa(totalPages),
		}
	default:
		return []string{
			"1", Ellipsis,
			strconv.Itoa(current - 1), strconv.Itoa(current), strconv.Itoa(current + 1),
			Ellipsis, strconv.Itoa(totalPages),
		}
	}
}
