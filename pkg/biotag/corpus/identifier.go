package corpus

import (
	"fmt"
	"strings"

	"github.com/cognicore/biotag/pkg/biotag/internalerr"
)

// Identifier references a normalized concept.
type Identifier struct {
	Source   string
	ID       string
	Subgroup string
	Group    string
}

// String renders the identifier as source:id:subgroup:group.
func (id Identifier) String() string {
	return id.Source + ":" + id.ID + ":" + id.Subgroup + ":" + id.Group
}

// ParseIdentifier parses the source:id:subgroup:group form.
// The id field may itself contain colons (GO:0005515); the first field is
// always the source and the last two are subgroup and group.
func ParseIdentifier(text string) (Identifier, error) {
	fields := strings.Split(strings.TrimSpace(text), ":")
	if len(fields) < 4 {
		return Identifier{}, fmt.Errorf("identifier %q: %w", text, internalerr.ErrInvalidInput)
	}
	n := len(fields)
	return Identifier{
		Source:   fields[0],
		ID:       strings.Join(fields[1:n-2], ":"),
		Subgroup: fields[n-2],
		Group:    fields[n-1],
	}, nil
}

// ParseIdentifiers parses a '|' separated list of identifiers.
func ParseIdentifiers(text string) ([]Identifier, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, "|")
	ids := make([]Identifier, 0, len(parts))
	for _, p := range parts {
		id, err := ParseIdentifier(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FormatIdentifiers joins identifiers with '|'.
func FormatIdentifiers(ids []Identifier) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, "|")
}
