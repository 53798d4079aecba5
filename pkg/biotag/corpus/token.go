package corpus

// Feature keys written by parsers.
const (
	FeatureLemma  = "LEMMA"
	FeaturePOS    = "POS"
	FeatureChunk  = "CHUNK"
	FeatureDepTok = "DEP_TOK"
	FeatureDepTag = "DEP_TAG"
)

// Feature is one key/value pair of a token.
type Feature struct {
	Key   string
	Value string
}

// Token is a word of a sentence. Start and End are character offsets into the
// sentence text (End exclusive), Index is the position in the sentence.
type Token struct {
	Start    int
	End      int
	Index    int
	Text     string
	Label    string
	features []Feature
}

// Set replaces every value of key.
func (t *Token) Set(key, value string) {
	out := t.features[:0]
	for _, f := range t.features {
		if f.Key != key {
			out = append(out, f)
		}
	}
	t.features = append(out, Feature{Key: key, Value: value})
}

// Add appends a value for key, keeping existing ones.
func (t *Token) Add(key, value string) {
	t.features = append(t.features, Feature{Key: key, Value: value})
}

// Get returns the first value of key.
func (t *Token) Get(key string) (string, bool) {
	for _, f := range t.features {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every value of key in insertion order.
func (t *Token) Values(key string) []string {
	var vals []string
	for _, f := range t.features {
		if f.Key == key {
			vals = append(vals, f.Value)
		}
	}
	return vals
}

// Has reports whether the token carries key.
func (t *Token) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Features returns a copy of the ordered feature list.
func (t *Token) Features() []Feature {
	out := make([]Feature, len(t.features))
	copy(out, t.features)
	return out
}
