package cases

import (
	"fmt"
	"strconv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maxListedPages bounds the walk over total_pages.
const maxListedPages = 20

func getCases() []Case {
	return []Case{
		{Group: "get", Name: "known user", Run: getKnownUser},
		{Group: "get", Name: "every listed user", Run: getEveryListedUser},
		{Group: "get", Name: "missing user", Run: getMissingUser},
	}
}

func getKnownUser(t *T) {
	resp := t.Get(fmt.Sprintf("/users/%d", KnownUserID), nil)
	t.RequireStatus(resp, 200)
	t.RequireValid(t.fixture.Schemas.User, resp)

	doc := t.JSON(resp)
	t.RequireFields(doc, "data.id", "data.email", "data.first_name", "data.last_name", "data.avatar")
	assert.Equal(t, int64(KnownUserID), doc.Get("data.id").Int())
}

// getEveryListedUser walks the list pages and looks up every user on them.
func getEveryListedUser(t *T) {
	first := t.Get("/users", map[string]string{"page": "1"})
	t.RequireStatus(first, 200)

	doc := t.JSON(first)
	totalPages := int(doc.Get("total_pages").Int())
	require.GreaterOrEqual(t, totalPages, 1, "total_pages")
	if totalPages > maxListedPages {
		t.Debug("total_pages %d, walking the first %d", totalPages, maxListedPages)
		totalPages = maxListedPages
	}

	var seen int
	for page := 1; page <= totalPages; page++ {
		if page > 1 {
			resp := t.Get("/users", map[string]string{"page": strconv.Itoa(page)})
			t.RequireStatus(resp, 200)
			doc = t.JSON(resp)
		}

		for _, row := range doc.Get("data").Array() {
			seen++
			id := row.Get("id").Int()
			resp := t.Get(fmt.Sprintf("/users/%d", id), nil)
			if !assert.Equal(t, 200, resp.StatusCode, "GET /users/%d", id) {
				continue
			}
			assert.Equal(t, id, t.JSON(resp).Get("data.id").Int(), "GET /users/%d echoed another id", id)
		}
	}
	require.NotZero(t, seen, "no users listed")
}

// getMissingUser accepts either an empty body or "{}".
func getMissingUser(t *T) {
	resp := t.Get(fmt.Sprintf("/users/%d", MissingUserID), nil)
	t.RequireStatus(resp, 404)

	if resp.IsEmpty() {
		return
	}
	body, _ := resp.GetBodyAsString()
	assert.True(t, t.JSON(resp).IsEmptyObject(), "expected an empty body or {}, got %q", body)
}
