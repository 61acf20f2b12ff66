package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reqresPage2 = `{
	"page": 2,
	"per_page": 6,
	"total": 12,
	"total_pages": 2,
	"data": [
		{"id": 7, "email": "michael.lawson@reqres.in", "first_name": "Michael", "last_name": "Lawson", "avatar": "https://reqres.in/img/faces/7-image.jpg"},
		{"id": 8, "email": "lindsay.ferguson@reqres.in", "first_name": "Lindsay", "last_name": "Ferguson", "avatar": "https://reqres.in/img/faces/8-image.jpg"}
	],
	"support": {"url": "https://contentcaddy.io", "text": "Tired of writing endless social media content?"},
	"_meta": {"powered_by": "ReqRes"}
}`

func TestEmbeddedDocumentsCompile(t *testing.T) {
	set, err := Open("")
	require.NoError(t, err)

	assert.NotNil(t, set.UserList)
	assert.NotNil(t, set.User)
	assert.NotNil(t, set.UserCreated)
	assert.NotNil(t, set.UserUpdated)
}

func TestUserListDocument(t *testing.T) {
	set, err := Open("")
	require.NoError(t, err)

	result := set.UserList.Validate([]byte(reqresPage2))
	assert.True(t, result.Valid, result.Errors.Error())

	missing := set.UserList.Validate([]byte(`{"page": 2, "per_page": 6, "total": 12, "data": []}`))
	require.False(t, missing.Valid)
	assert.Contains(t, missing.FirstViolation(), "total_pages")

	wrongItem := set.UserList.Validate([]byte(`{"page": 2, "per_page": 6, "total": 12, "total_pages": 2,
		"data": [{"id": "7", "email": "x", "first_name": "a", "last_name": "b", "avatar": "c"}]}`))
	require.False(t, wrongItem.Valid)
	assert.Contains(t, wrongItem.FirstViolation(), "/data/0/id")
}

func TestUserDocuments(t *testing.T) {
	set, err := Open("")
	require.NoError(t, err)

	assert.True(t, set.User.Validate([]byte(`{"data":{"id":2,"email":"janet.weaver@reqres.in","first_name":"Janet","last_name":"Weaver","avatar":"a"}}`)).Valid)
	assert.False(t, set.User.Validate([]byte(`{}`)).Valid)

	assert.True(t, set.UserCreated.Validate([]byte(`{"name":"Matthew","job":"QA Engineer","id":"728","createdAt":"2026-10-17T10:00:00.000Z"}`)).Valid)
	assert.True(t, set.UserCreated.Validate([]byte(`{"name":"Alice","admin":true,"id":728,"createdAt":"2026-10-17T10:00:00.000Z"}`)).Valid)
	assert.False(t, set.UserCreated.Validate([]byte(`{"name":"Matthew"}`)).Valid)

	assert.True(t, set.UserUpdated.Validate([]byte(`{"name":"Ghost","job":"Unknown","updatedAt":"2026-10-17T10:00:00.000Z"}`)).Valid)
	assert.False(t, set.UserUpdated.Validate([]byte(`{"name":"Ghost"}`)).Valid)
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{UserListFile, UserFile, UserCreatedFile, UserUpdatedFile} {
		data, err := embedded.ReadFile(name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	set, err := Open(dir)
	require.NoError(t, err)
	assert.True(t, set.UserList.Validate([]byte(reqresPage2)).Valid)
}

func TestOpenDirectoryErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorContains(t, err, "schema directory")

	file := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))
	_, err = Open(file)
	assert.ErrorContains(t, err, "not a directory")

	_, err = Open(t.TempDir())
	assert.ErrorContains(t, err, "reading schema user_list.json")
}
