package corpus

import (
	"fmt"
	"strings"

	"github.com/cognicore/biotag/pkg/biotag/internalerr"
)

// ParserLevel is the depth of linguistic processing applied to tokens.
// Each level implies every level below it.
type ParserLevel int

const (
	LevelTokenization ParserLevel = iota
	LevelPOS
	LevelLemmatization
	LevelChunking
	LevelDependency
)

var levelNames = []string{"tokenization", "pos", "lemmatization", "chunking", "dependency"}

func (l ParserLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// Covers reports whether l includes the processing of other.
func (l ParserLevel) Covers(other ParserLevel) bool {
	return l >= other
}

// ParseLevel converts a level name to a ParserLevel.
func ParseLevel(name string) (ParserLevel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range levelNames {
		if n == name {
			return ParserLevel(i), nil
		}
	}
	return 0, fmt.Errorf("parser level %q: %w", name, internalerr.ErrInvalidInput)
}
