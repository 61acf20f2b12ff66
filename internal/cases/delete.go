package cases

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

func deleteCases() []Case {
	return []Case{
		{Group: "delete", Name: "twice", Run: deleteTwice},
	}
}

// deleteTwice pins the API's behavior of answering 204 to a repeated delete.
func deleteTwice(t *T) {
	path := fmt.Sprintf("/users/%d", KnownUserID)

	first := t.Delete(path)
	assert.Equal(t, 204, first.StatusCode, "first delete")

	second := t.Delete(path)
	assert.Equal(t, 204, second.StatusCode, "second delete")
}
