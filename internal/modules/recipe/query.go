package recipe

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/utils"
	"foodgram/internal/repository"
)

// Caller: кто делает запрос. UserID == 0 для анонима.
type Caller struct {
	UserID int64
	Role   string
}

func (c Caller) Anonymous() bool { return c.UserID == 0 }

func (c Caller) IsAdmin() bool { return c.Role == string(domain.RoleAdmin) }

// CallerFrom достаёт вызывающего из контекста после OptionalAuth/JWTAuth.
func CallerFrom(c *gin.Context) Caller {
	return Caller{UserID: utils.UserID(c), Role: utils.Role(c)}
}

// Filter: параметры списка рецептов из query string.
type Filter struct {
	Tags             []string
	AuthorID         int64
	IsFavorited      bool
	IsInShoppingCart bool
}

// ParseFilter разбирает ?tags=a&tags=b&author=1&is_favorited=1&is_in_shopping_cart=0.
// Теги можно передать и через запятую.
func ParseFilter(c *gin.Context) (Filter, error) {
	var f Filter

	seen := make(map[string]bool)
	for _, raw := range c.QueryArray("tags") {
		for _, slug := range strings.Split(raw, ",") {
			slug = strings.TrimSpace(slug)
			if slug != "" && !seen[slug] {
				seen[slug] = true
				f.Tags = append(f.Tags, slug)
			}
		}
	}

	if raw := strings.TrimSpace(c.Query("author")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return Filter{}, apperr.Invalid("author", "must be a positive integer")
		}
		f.AuthorID = id
	}

	var err error
	if f.IsFavorited, err = utils.QueryFlag(c, "is_favorited"); err != nil {
		return Filter{}, err
	}
	if f.IsInShoppingCart, err = utils.QueryFlag(c, "is_in_shopping_cart"); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// ForCaller переводит фильтр в условия репозитория. Флаги избранного и
// корзины у анонима ничего не фильтруют.
func (f Filter) ForCaller(caller Caller) repository.RecipeFilter {
	rf := repository.RecipeFilter{TagSlugs: f.Tags, AuthorID: f.AuthorID}
	if caller.Anonymous() {
		return rf
	}
	if f.IsFavorited {
		rf.FavoritedBy = caller.UserID
	}
	if f.IsInShoppingCart {
		rf.InCartOf = caller.UserID
	}
	return rf
}
