package jokeapi

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one of the joke categories offered by the picker.
type Category string

const (
	Any         Category = "any"
	Programming Category = "programming"
	Misc        Category = "misc"
	Dark        Category = "dark"
	Pun         Category = "pun"
	Spooky      Category = "spooky"
	Christmas   Category = "christmas"
)

// DefaultCategory is selected on startup.
const DefaultCategory = Any

var ErrUnknownCategory = errors.New("unknown joke category")

var categories = []Category{Any, Programming, Misc, Dark, Pun, Spooky, Christmas}

// Categories returns the categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches s against the known categories, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
