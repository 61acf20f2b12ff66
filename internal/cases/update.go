package cases

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

func updateCases() []Case {
	return []Case{
		{Group: "update", Name: "known user", Run: updateKnownUser},
		{Group: "update", Name: "missing user", Run: updateMissingUser},
	}
}

func updateKnownUser(t *T) {
	resp := t.Put(fmt.Sprintf("/users/%d", KnownUserID), map[string]interface{}{"name": "Matthew", "job": "Senior QA"})
	t.RequireStatus(resp, 200)
	t.RequireValid(t.fixture.Schemas.UserUpdated, resp)

	doc := t.JSON(resp)
	assert.Equal(t, "Matthew", doc.String("name"))
	assert.Equal(t, "Senior QA", doc.String("job"))
	t.RequireFields(doc, "updatedAt")
}

// updateMissingUser pins the API's behavior of accepting updates to users
// that do not exist.
func updateMissingUser(t *T) {
	resp := t.Put(fmt.Sprintf("/users/%d", MissingUpdateID), map[string]interface{}{"name": "Ghost", "job": "Unknown"})
	t.RequireStatus(resp, 200)
	t.RequireFields(t.JSON(resp), "updatedAt")
}
