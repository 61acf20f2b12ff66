// Package schemas holds the Schema Documents the contract cases validate
// against. The documents ship embedded in the binary; a directory on disk can
// replace them.
package schemas

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/wesleyorama2/usercheck/pkg/jsonschema"
)

const (
	UserListFile    = "user_list.json"
	UserFile        = "user.json"
	UserCreatedFile = "user_created.json"
	UserUpdatedFile = "user_updated.json"
)

//go:embed *.json
var embedded embed.FS

// Embedded returns the documents compiled into the binary.
func Embedded() fs.FS {
	return embedded
}

// Set is the compiled collection of documents used by the cases.
type Set struct {
	UserList    *jsonschema.Validator
	User        *jsonschema.Validator
	UserCreated *jsonschema.Validator
	UserUpdated *jsonschema.Validator
}

// Load compiles every document from fsys.
func Load(fsys fs.FS) (*Set, error) {
	set := &Set{}
	targets := []struct {
		name string
		dst  **jsonschema.Validator
	}{
		{UserListFile, &set.UserList},
		{UserFile, &set.User},
		{UserCreatedFile, &set.UserCreated},
		{UserUpdatedFile, &set.UserUpdated},
	}

	for _, target := range targets {
		validator, err := jsonschema.LoadFS(fsys, target.name)
		if err != nil {
			return nil, err
		}
		*target.dst = validator
	}

	return set, nil
}

// Open loads the documents from dir, or the embedded copies when dir is empty.
func Open(dir string) (*Set, error) {
	if dir == "" {
		return Load(embedded)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schema directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schema directory: %s is not a directory", dir)
	}

	return Load(os.DirFS(dir))
}
