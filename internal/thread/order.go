package thread

import (
	"sort"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
)

// Order selects how top-level comments are sorted. Replies are always oldest first.
type Order string

const (
	// OrderRecent sorts newest first.
	OrderRecent Order = "recent"
	// OrderPopular sorts by likes, then newest first.
	OrderPopular Order = "popular"
)

// ParseOrder accepts "recent" or "popular"; an empty value yields fallback.
func ParseOrder(raw string, fallback Order) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return fallback, nil
	case OrderRecent:
		return OrderRecent, nil
	case OrderPopular:
		return OrderPopular, nil
	}
	return "", models.NewValidationError("Invalid sort. Must be 'recent' or 'popular'")
}

func sortTopLevel(nodes []*models.CommentNode, order Order) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if order == OrderPopular && a.Likes != b.Likes {
			return a.Likes > b.Likes
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
