package cases

import (
	"strconv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listCases() []Case {
	return []Case{
		{Group: "list", Name: "page 1", Run: listPage(1)},
		{Group: "list", Name: "page 2", Run: listPage(2)},
		{Group: "list", Name: "pages are distinct", Run: listPagesAreDistinct},
	}
}

// listPage checks the pagination envelope of one page.
func listPage(page int) func(t *T) {
	return func(t *T) {
		resp := t.Get("/users", map[string]string{"page": strconv.Itoa(page)})
		t.RequireStatus(resp, 200)
		t.RequireValid(t.fixture.Schemas.UserList, resp)

		doc := t.JSON(resp)
		perPage := doc.Get("per_page").Int()
		total := doc.Get("total").Int()
		totalPages := doc.Get("total_pages").Int()

		assert.Equal(t, int64(page), doc.Get("page").Int(), "page")
		assert.LessOrEqual(t, int64(doc.Len("data")), perPage, "len(data) <= per_page")
		assert.LessOrEqual(t, int64(page), totalPages, "page <= total_pages")
		assert.LessOrEqual(t, total, perPage*totalPages, "total <= per_page * total_pages")
	}
}

func listPagesAreDistinct(t *T) {
	first := t.Get("/users", map[string]string{"page": "1"})
	second := t.Get("/users", map[string]string{"page": "2"})
	require.Equal(t, 200, first.StatusCode, "page 1 status")
	require.Equal(t, 200, second.StatusCode, "page 2 status")

	a := t.JSON(first).Get("data")
	b := t.JSON(second).Get("data")
	require.True(t, a.IsArray(), "page 1 data is not an array")
	require.True(t, b.IsArray(), "page 2 data is not an array")
	assert.NotEqual(t, a.Value(), b.Value(), "pages 1 and 2 returned the same data")
}
