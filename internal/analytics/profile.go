package analytics

import (
	"sort"
	"strings"

	"BlogAnalytics/internal/domain"
)

const (
	topCoAuthors  = 5
	topRelatedTag = 8
)

// AuthorProfiles builds the authors directory, most prolific first.
func AuthorProfiles(posts []domain.Post) []domain.AuthorProfile {
	index := make(map[string]int)
	profiles := make([]domain.AuthorProfile, 0)
	grouped := make([][]domain.Post, 0)

	for _, post := range posts {
		i, ok := index[post.Author]
		if !ok {
			i = len(profiles)
			index[post.Author] = i
			profiles = append(profiles, domain.AuthorProfile{Name: post.Author})
			grouped = append(grouped, nil)
		}
		profiles[i].PostCount++
		profiles[i].TotalViews += post.ViewCount
		profiles[i].TotalComments += post.CommentCount
		grouped[i] = append(grouped[i], post)
	}

	for i := range profiles {
		profiles[i].RecentPosts = mostRecent(grouped[i], defaultAuthorRecent)
	}

	sort.SliceStable(profiles, func(a, b int) bool {
		return profiles[a].PostCount > profiles[b].PostCount
	})
	return profiles
}

// FilterProfiles keeps profiles whose name contains query, ignoring case.
func FilterProfiles(profiles []domain.AuthorProfile, query string) []domain.AuthorProfile {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return profiles
	}

	out := make([]domain.AuthorProfile, 0, len(profiles))
	for _, p := range profiles {
		if strings.Contains(strings.ToLower(p.Name), query) {
			out = append(out, p)
		}
	}
	return out
}

// DescribeAuthor totals one page of an author's posts.
func DescribeAuthor(author string, page domain.Page[domain.Post]) domain.AuthorDetail {
	detail := domain.AuthorDetail{Author: author, TotalPosts: page.TotalItems}

	for i, post := range page.Items {
		detail.TotalViews += post.ViewCount
		detail.TotalComments += post.CommentCount

		created := post.CreatedAt
		if i == 0 || created.Before(*detail.FirstPostDate) {
			detail.FirstPostDate = &created
		}
		if i == 0 || created.After(*detail.LatestPostDate) {
			latest := created
			detail.LatestPostDate = &latest
		}
	}
	return detail
}

// DescribeTag totals one page of a tag's posts and finds its co-authors and neighbour tags.
func DescribeTag(tag string, page domain.Page[domain.Post]) domain.TagDetail {
	detail := domain.TagDetail{Tag: tag, TotalPosts: page.TotalItems}

	authors := newCounter()
	related := newCounter()
	for _, post := range page.Items {
		detail.TotalViews += post.ViewCount
		detail.TotalComments += post.CommentCount
		authors.add(post.Author)
		for _, t := range post.Tags {
			if t != tag {
				related.add(t)
			}
		}
	}

	detail.AvgViewsPerPost = roundRatio(detail.TotalViews, page.TotalItems)
	detail.TopAuthors = head(authors.ranked(), topCoAuthors)
	detail.RelatedTags = head(related.ranked(), topRelatedTag)
	return detail
}

type counter struct {
	index  map[string]int
	counts []domain.NamedCount
}

func newCounter() *counter {
	return &counter{index: make(map[string]int), counts: make([]domain.NamedCount, 0)}
}

func (c *counter) add(name string) {
	i, ok := c.index[name]
	if !ok {
		i = len(c.counts)
		c.index[name] = i
		c.counts = append(c.counts, domain.NamedCount{Name: name})
	}
	c.counts[i].Count++
}

func (c *counter) ranked() []domain.NamedCount {
	sort.SliceStable(c.counts, func(a, b int) bool {
		return c.counts[a].Count > c.counts[b].Count
	})
	return c.counts
}
