package search_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venkatakausik18/snap-n-shop-central/internal/search"
)

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"red", "mug"}, search.Terms("  Red mug RED "))
	assert.Empty(t, search.Terms("   "))
	assert.Len(t, search.Terms("a b c d e f g h i j"), 8)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, search.EscapeLike(`50%_off\`))
	assert.Equal(t, "plain", search.EscapeLike("plain"))
}

func TestTagMatch(t *testing.T) {
	assert.Equal(t, "EXISTS (SELECT 1 FROM unnest(p.tags) t WHERE lower(t) = $4)", search.TagMatch(4))
}

func TestRelevance(t *testing.T) {
	binder := func(start int) (*[]any, func(any) int) {
		args := []any{}
		return &args, func(v any) int {
			args = append(args, v)
			return start + len(args)
		}
	}

	t.Run("Single term", func(t *testing.T) {
		args, bind := binder(2)

		expr := search.Relevance("Mug", bind)

		assert.Equal(t, "(CASE WHEN p.title ILIKE $3 THEN 3 ELSE 0 END"+
			" + CASE WHEN COALESCE(p.brand, '') ILIKE $3 THEN 2 ELSE 0 END"+
			" + CASE WHEN EXISTS (SELECT 1 FROM unnest(p.tags) t WHERE lower(t) = $4) THEN 2 ELSE 0 END"+
			" + CASE WHEN COALESCE(p.description, '') ILIKE $3 THEN 1 ELSE 0 END"+
			" + CASE WHEN lower(p.title) = $5 THEN 5 ELSE 0 END)", expr)
		assert.Equal(t, []any{"%mug%", "mug", "mug"}, *args)
	})

	t.Run("Terms are escaped and joined for the exact title", func(t *testing.T) {
		args, bind := binder(0)

		expr := search.Relevance("red 100% ", bind)

		require.NotEmpty(t, expr)
		assert.Equal(t, []any{"%red%", "red", `%100\%%`, "100%", "red 100%"}, *args)
		assert.Equal(t, 3, strings.Count(expr, "ILIKE $1 "))
		assert.Contains(t, expr, "lower(p.title) = $5")
	})

	t.Run("Blank query", func(t *testing.T) {
		args, bind := binder(0)

		assert.Empty(t, search.Relevance("  ", bind))
		assert.Empty(t, *args)
	})
}
