package reference

import (
	"fmt"
	"strings"

	"github.com/CubeCoding7/ECDApp/internal/normalize"
)

// Item is a single name and description pair from a reference list
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ParseLine parses a `name: description` log line. The line is split on the
// first colon, so descriptions may contain colons. The name is normalized and
// the description trimmed. ok is false when either side is empty.
func ParseLine(line string) (Item, bool) {
	name, description, found := strings.Cut(line, ":")
	if !found {
		return Item{}, false
	}
	entry := Item{
		Name:        normalize.Name(name),
		Description: strings.TrimSpace(description),
	}
	if entry.Name == "" || entry.Description == "" {
		return Item{}, false
	}
	return entry, true
}

// FormatLine renders an entry as a log line, including the trailing newline
func FormatLine(e Item) string {
	return fmt.Sprintf("%s: %s\n", e.Name, e.Description)
}

// newItem validates and canonicalizes user input for insertion
func newItem(name, description string) (Item, error) {
	entry := Item{
		Name:        normalize.Name(name),
		Description: strings.TrimSpace(description),
	}
	switch {
	case entry.Name == "":
		return Item{}, fmt.Errorf("%w: name is required", ErrInvalidEntry)
	case entry.Description == "":
		return Item{}, fmt.Errorf("%w: description is required", ErrInvalidEntry)
	case strings.Contains(entry.Name, ":"):
		return Item{}, fmt.Errorf("%w: name must not contain a colon", ErrInvalidEntry)
	case strings.ContainsAny(entry.Description, "\r\n"):
		return Item{}, fmt.Errorf("%w: description must be a single line", ErrInvalidEntry)
	}
	return entry, nil
}
