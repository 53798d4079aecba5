package stoplist

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manager holds terms that must never be reported as concept names, such as
// common words that collide with gene symbols ("was", "can", "set").
type Manager struct {
	stops map[string]Reason
}

// Reason explains why a term is stopped.
type Reason struct {
	Source string // file or component that contributed the term
	Note   string
}

// NewManager creates a stoplist with the given terms.
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]Reason, len(initialStops))
	for _, s := range initialStops {
		stops[normalize(s)] = Reason{}
	}
	return &Manager{stops: stops}
}

// Load reads a YAML stoplist:
//
//	terms: [was, can, set]
func Load(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	m := NewManager(nil)
	for _, t := range cfg.Terms {
		m.Add(t, Reason{Source: path})
	}
	return m, nil
}

// IsStop checks if a term is stopped. Matching ignores case and surrounding space.
func (m *Manager) IsStop(term string) bool {
	if m == nil {
		return false
	}
	_, ok := m.stops[normalize(term)]
	return ok
}

// Add adds a term with a reason.
func (m *Manager) Add(term string, reason Reason) {
	m.stops[normalize(term)] = reason
}

// Remove removes a term.
func (m *Manager) Remove(term string) {
	delete(m.stops, normalize(term))
}

// Why returns the reason a term was stopped.
func (m *Manager) Why(term string) (Reason, bool) {
	r, ok := m.stops[normalize(term)]
	return r, ok
}

// All returns all stopped terms, sorted.
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
