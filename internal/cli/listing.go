package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/service"
)

// titleWidth bounds the title column of listing tables
const titleWidth = 60

// listing is one fetched page with its bookmark decoration
type listing[T domain.Listable] struct {
	page       int
	result     domain.Page[T]
	bookmarked map[int64]bool
}

// fetchListing loads page of src, searching when keyword is set, and looks
// up bookmark status for the whole page in one call. A failed lookup leaves
// the page undecorated.
func fetchListing[T domain.Listable](ctx context.Context, a *app, src service.Source[T], keyword string, page int) (listing[T], error) {
	var (
		result domain.Page[T]
		err    error
	)
	if keyword != "" && src.SearchPage != nil {
		result, err = src.SearchPage(ctx, keyword, page, a.pageSize())
	} else {
		result, err = src.FetchPage(ctx, page, a.pageSize())
	}
	if err != nil {
		return listing[T]{}, err
	}

	out := listing[T]{page: page, result: result, bookmarked: map[int64]bool{}}
	switch {
	case src.AllBookmarked:
		for _, item := range result.Content {
			out.bookmarked[item.GetID()] = true
		}
	case src.CheckBookmarks != nil && a.session.IsAuthenticated() && len(result.Content) > 0:
		ids := make([]int64, len(result.Content))
		for i, item := range result.Content {
			ids[i] = item.GetID()
		}
		marks, err := src.CheckBookmarks(ctx, src.Kind, ids)
		if err != nil {
			a.logger.Warn("bookmark lookup failed", "kind", string(src.Kind), "error", err)
			break
		}
		out.bookmarked = marks
	}
	return out, nil
}

// pageFooter renders the pagination controls below a listing, e.g.
// "« 1 … 3 [4] 5 … 9 »  (86 articles)"
func pageFooter(page, totalPages, totalElements int, noun string) string {
	w := service.Window(page, totalPages)
	if len(w.Pages) == 0 {
		return ""
	}

	var parts []string
	if w.HasPrev {
		parts = append(parts, "«")
	}
	if w.First {
		parts = append(parts, "1")
	}
	if w.LeadingGap {
		parts = append(parts, "…")
	}
	for _, p := range w.Pages {
		label := strconv.Itoa(p + 1)
		if p == page {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	if w.TrailingGap {
		parts = append(parts, "…")
	}
	if w.Last {
		parts = append(parts, strconv.Itoa(totalPages))
	}
	if w.HasNext {
		parts = append(parts, "»")
	}
	return fmt.Sprintf("%s  (%d %s)", strings.Join(parts, " "), totalElements, noun)
}

// printFooter prints the pagination line, or the empty state
func printFooter[T domain.Listable](l listing[T], noun string) {
	if l.result.TotalElements == 0 {
		printer.Info("No %s found", noun)
		return
	}
	if l.page >= l.result.TotalPages {
		printer.Info("Page %d is past the last page (%d)", l.page+1, l.result.TotalPages)
		return
	}
	printer.Info("%s", pageFooter(l.page, l.result.TotalPages, l.result.TotalElements, noun))
}
