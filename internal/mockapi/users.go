package mockapi

import (
	"fmt"
	"strings"
)

// User is one row of the seeded directory.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

type support struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

var defaultSupport = support{
	URL:  "https://reqres.in/#support-heading",
	Text: "To keep ReqRes free, contributions towards server costs are appreciated!",
}

func newUser(id int, first, last string) User {
	return User{
		ID:        id,
		Email:     fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(first), strings.ToLower(last)),
		FirstName: first,
		LastName:  last,
		Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
	}
}

// SeedUsers returns the twelve users the public API serves.
func SeedUsers() []User {
	return []User{
		newUser(1, "George", "Bluth"),
		newUser(2, "Janet", "Weaver"),
		newUser(3, "Emma", "Wong"),
		newUser(4, "Eve", "Holt"),
		newUser(5, "Charles", "Morris"),
		newUser(6, "Tracey", "Ramos"),
		newUser(7, "Michael", "Lawson"),
		newUser(8, "Lindsay", "Ferguson"),
		newUser(9, "Tobias", "Funke"),
		newUser(10, "Byron", "Fields"),
		newUser(11, "George", "Edwards"),
		newUser(12, "Rachel", "Howell"),
	}
}
