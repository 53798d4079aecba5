package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/biotag/pkg/biotag/internalerr"
)

// Args are the string options of a configured module.
type Args map[string]string

// String returns the value of key or def.
func (a Args) String(key, def string) string {
	if v, ok := a[key]; ok && v != "" {
		return v
	}
	return def
}

// Int parses key as an integer, returning def when unset.
func (a Args) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("argument %s=%q: %w", key, v, internalerr.ErrInvalidConfig)
	}
	return n, nil
}

// Bool parses key as a boolean, returning def when unset.
func (a Args) Bool(key string, def bool) (bool, error) {
	v, ok := a[key]
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("argument %s=%q: %w", key, v, internalerr.ErrInvalidConfig)
	}
	return b, nil
}

// List splits key on commas, dropping empty items.
func (a Args) List(key string) []string {
	var out []string
	for _, item := range strings.Split(a[key], ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Spec names a registered module and its arguments.
type Spec struct {
	Name string `yaml:"name"`
	Args Args   `yaml:"args"`
}

// Constructor builds a module from its arguments.
type Constructor func(args Args) (Module, error)

// Registry maps module names to constructors.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register adds a constructor under name.
func (r *Registry) Register(name string, c Constructor) error {
	if _, ok := r.ctors[name]; ok {
		return fmt.Errorf("module %q: %w", name, internalerr.ErrDuplicate)
	}
	r.ctors[name] = c
	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ctors))
	for n := range r.ctors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build constructs the modules of specs in order, stopping at the first error.
func (r *Registry) Build(specs []Spec) ([]Module, error) {
	modules := make([]Module, 0, len(specs))
	for _, s := range specs {
		c, ok := r.ctors[s.Name]
		if !ok {
			return nil, &UnknownModuleError{Name: s.Name}
		}
		m, err := c(s.Args)
		if err != nil {
			return nil, fmt.Errorf("build module %s: %w", s.Name, err)
		}
		modules = append(modules, m)
	}
	return modules, nil
}
