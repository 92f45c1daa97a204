package usecase

import (
	"context"
	"fmt"

	"BlogAnalytics/internal/domain"
)

// PageLoader fetches one page of posts.
type PageLoader func(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Post], error)

// Collect walks pages from the first one until limit posts are gathered, the
// requested index reaches the last page, or a page adds no new posts. Posts
// repeated across pages are kept once.
func Collect(ctx context.Context, load PageLoader, base domain.PageRequest, limit int) (domain.Page[domain.Post], error) {
	if base.Size <= 0 {
		base.Size = limit
	}
	if base.Size <= 0 {
		return domain.Page[domain.Post]{Items: []domain.Post{}}, nil
	}

	out := domain.Page[domain.Post]{Items: make([]domain.Post, 0, min(limit, base.Size))}
	seen := map[int64]struct{}{}

	req := base
	for req.Page = 0; ; req.Page++ {
		page, err := load(ctx, req)
		if err != nil {
			return domain.Page[domain.Post]{}, fmt.Errorf("collect page %d: %w", req.Page, err)
		}

		out.TotalItems = page.TotalItems
		out.TotalPages = page.TotalPages
		out.PageSize = page.PageSize

		added := 0
		for _, post := range page.Items {
			if len(out.Items) >= limit {
				break
			}
			if _, ok := seen[post.ID]; ok {
				continue
			}
			seen[post.ID] = struct{}{}
			out.Items = append(out.Items, post)
			added++
		}

		if len(out.Items) >= limit || added == 0 || req.Page >= page.TotalPages-1 {
			break
		}
	}

	return out, nil
}
