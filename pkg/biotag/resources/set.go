package resources

import "github.com/cognicore/biotag/pkg/biotag/nlp"

// ResourceSet is one instance of every pooled kind, held by a single worker
// between Take and Put.
type ResourceSet struct {
	ID       string
	Parser   nlp.Parser
	Splitter nlp.SentenceSplitter

	order   []nlp.Tagger
	taggers map[string]nlp.Tagger
	owner   *Context
}

// Tagger returns the instance of the named model.
func (rs *ResourceSet) Tagger(name string) (nlp.Tagger, bool) {
	tg, ok := rs.taggers[name]
	return tg, ok
}

// Taggers returns the model instances in name order.
func (rs *ResourceSet) Taggers() []nlp.Tagger {
	out := make([]nlp.Tagger, len(rs.order))
	copy(out, rs.order)
	return out
}
