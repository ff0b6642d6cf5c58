package service

import (
	"context"

	"github.com/mmcdole/newsdesk/internal/domain"
)

// maxFetchAllPages bounds FetchAll so a misbehaving server cannot loop it forever
const maxFetchAllPages = 100

// FetchAll walks every page of a paginated listing and concatenates the
// content in server order.
func FetchAll[T any](
	ctx context.Context,
	fetch func(ctx context.Context, page, size int) (domain.Page[T], error),
	size int,
	onProgress domain.ProgressFunc,
) ([]T, error) {
	if size <= 0 {
		size = PageSize
	}

	var all []T
	for page := 0; page < maxFetchAllPages; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, err := fetch(ctx, page, size)
		if err != nil {
			return nil, err
		}

		all = append(all, result.Content...)

		if onProgress != nil {
			onProgress(len(all), result.TotalElements)
		}

		if page+1 >= result.TotalPages || len(result.Content) == 0 {
			break
		}
	}

	return all, nil
}
