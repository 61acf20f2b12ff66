package cases

import (
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func createCases() []Case {
	return []Case{
		{Group: "create", Name: "happy path", Run: createHappyPath},
		{Group: "create", Name: "extra field", Run: createExtraField},
		{Group: "create", Name: "missing optional field", Run: createMissingOptionalField},
	}
}

func createHappyPath(t *T) {
	resp := t.Post("/users", map[string]interface{}{"name": "Matthew", "job": "QA Engineer"})
	t.RequireStatus(resp, 201)
	t.RequireValid(t.fixture.Schemas.UserCreated, resp)

	doc := t.JSON(resp)
	assert.Equal(t, "Matthew", doc.String("name"))
	assert.Equal(t, "QA Engineer", doc.String("job"))
	t.RequireFields(doc, "id", "createdAt")
}

// createExtraField tolerates an API that drops unknown fields, but one that
// echoes them must echo the value sent.
func createExtraField(t *T) {
	resp := t.Post("/users", map[string]interface{}{"name": "Alice", "job": "SDET", "admin": true})
	t.RequireStatus(resp, 201)

	doc := t.JSON(resp)
	t.RequireFields(doc, "id", "createdAt")
	assert.Equal(t, "Alice", doc.String("name"))

	if doc.Has("admin") {
		t.Debug("unknown field echoed: admin=%s", doc.Raw("admin"))
		assert.Equal(t, gjson.True, doc.Get("admin").Type, "admin echoed as %s", doc.Raw("admin"))
	}
}

func createMissingOptionalField(t *T) {
	resp := t.Post("/users", map[string]interface{}{"name": "Matthew"})
	t.RequireStatus(resp, 201)

	doc := t.JSON(resp)
	assert.Equal(t, "Matthew", doc.String("name"))
	assert.False(t, doc.Has("job"), "job was not sent but came back as %s", doc.Raw("job"))
}
