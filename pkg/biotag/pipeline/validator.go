package pipeline

// Validator checks that a module chain is assembled correctly before any
// document is processed.
type Validator struct {
	provided map[ResourceKind]bool
}

// NewValidator creates a validator that treats seed as already provided, for
// chains that start from a pre-processed corpus.
func NewValidator(seed ...ResourceKind) *Validator {
	v := &Validator{provided: make(map[ResourceKind]bool)}
	for _, k := range seed {
		v.provided[k] = true
	}
	return v
}

// Validate walks the modules in order. Every requirement must be provided by
// the seed or an earlier module; a sentence-level requirement such as Tokens
// also requires Sentences. Every kind other than Annotations and Relations
// may be provided once. On success the provided set grows by what
// the chain provides; on failure it is left unchanged.
func (v *Validator) Validate(modules []Module) error {
	provided := make(map[ResourceKind]bool, len(v.provided))
	for k := range v.provided {
		provided[k] = true
	}

	for _, m := range modules {
		c := m.Contract()
		if c == nil {
			return &MissingContractError{Module: m.Name(), Reason: "no Requires/Provides declaration"}
		}
		requires, err := expand(m, c.Requires)
		if err != nil {
			return err
		}
		requires = withSentences(requires)
		for _, k := range requires {
			if !provided[k] {
				return &UnsatisfiedRequirementError{Module: m.Name(), Missing: k}
			}
		}
		provides, err := expand(m, c.Provides)
		if err != nil {
			return err
		}
		for _, k := range provides {
			if provided[k] && !multiProvider[k] {
				return &DuplicateProviderError{Module: m.Name(), Kind: k}
			}
		}
		for _, k := range provides {
			provided[k] = true
		}
	}

	v.provided = provided
	return nil
}

// Provided reports whether kind is available after the modules validated so far.
func (v *Validator) Provided(kind ResourceKind) bool {
	return v.provided[kind]
}

// Validate checks modules against the given seed.
func Validate(modules []Module, seed ...ResourceKind) error {
	return NewValidator(seed...).Validate(modules)
}

// expand replaces DynamicNLP with the kinds of the module's parser level.
func expand(m Module, kinds []ResourceKind) ([]ResourceKind, error) {
	var out []ResourceKind
	seen := make(map[ResourceKind]bool, len(kinds))
	add := func(k ResourceKind) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, k := range kinds {
		if k != DynamicNLP {
			add(k)
			continue
		}
		lr, ok := m.(LevelReporter)
		if !ok {
			return nil, &MissingContractError{Module: m.Name(), Reason: "declares DynamicNLP but reports no parser level"}
		}
		for _, lk := range KindsForLevel(lr.NLPLevel()) {
			add(lk)
		}
	}
	return out, nil
}

// withSentences puts Sentences first when any sentence-level kind is required.
func withSentences(kinds []ResourceKind) []ResourceKind {
	for _, k := range kinds {
		if k == Sentences {
			return kinds
		}
	}
	for _, k := range kinds {
		if sentenceLevel[k] {
			return append([]ResourceKind{Sentences}, kinds...)
		}
	}
	return kinds
}
