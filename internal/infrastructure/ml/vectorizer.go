package ml

import (
	"math"
	"regexp"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Vocabulary bounds for the shipped model
const (
	DefaultMaxFeatures = 30
	defaultMinDF       = 5
	defaultMaxDF       = 0.8
)

// tokenPattern matches runs of at least two word characters; single
// characters never become terms.
var tokenPattern = regexp.MustCompile(`[a-z0-9]{2,}`)

// Vectorizer converts normalized text into L2-normalized TF-IDF rows
// over a bounded unigram/bigram vocabulary. Vocabulary is kept sorted
// alphabetically, which is also the column order of the lexical block.
type Vectorizer struct {
	MaxFeatures int       `json:"max_features"`
	MinDF       int       `json:"min_df"`
	MaxDF       float64   `json:"max_df"`
	Vocabulary  []string  `json:"vocabulary"`
	IDF         []float64 `json:"idf"`
}

// NewVectorizer creates an unfitted vectorizer with at most maxFeatures
// vocabulary terms. Non-positive maxFeatures falls back to the default.
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{
		MaxFeatures: maxFeatures,
		MinDF:       defaultMinDF,
		MaxDF:       defaultMaxDF,
	}
}

// Fitted reports whether Fit has produced a vocabulary
func (v *Vectorizer) Fitted() bool {
	return len(v.Vocabulary) > 0
}

// Fit builds the vocabulary and IDF weights from normalized training
// texts. Terms below MinDF documents or above the MaxDF fraction are
// dropped; if more than MaxFeatures remain, the most frequent terms by
// total corpus count win, ties resolving alphabetically.
func (v *Vectorizer) Fit(texts []string) error {
	if len(texts) == 0 {
		return ErrNoTrainingData
	}

	df := make(map[string]int)
	total := make(map[string]int)
	for _, text := range texts {
		terms := analyze(text)
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			total[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	maxDocs := v.MaxDF * float64(len(texts))
	candidates := make([]string, 0, len(df))
	for term, n := range df {
		if n < v.MinDF || float64(n) > maxDocs {
			continue
		}
		candidates = append(candidates, term)
	}
	if len(candidates) == 0 {
		return ErrEmptyVocabulary
	}

	if len(candidates) > v.MaxFeatures {
		sort.Slice(candidates, func(i, j int) bool {
			if total[candidates[i]] != total[candidates[j]] {
				return total[candidates[i]] > total[candidates[j]]
			}
			return candidates[i] < candidates[j]
		})
		candidates = candidates[:v.MaxFeatures]
	}
	sort.Strings(candidates)

	v.Vocabulary = candidates
	v.IDF = make([]float64, len(candidates))
	n := float64(len(texts))
	for i, term := range candidates {
		// Smoothed IDF, as if every term appeared in one extra document
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return nil
}

// Transform maps one normalized text onto the fitted vocabulary.
// Out-of-vocabulary terms contribute nothing; an all-zero row stays
// all-zero rather than being normalized.
func (v *Vectorizer) Transform(text string) ([]float64, error) {
	if !v.Fitted() {
		return nil, ErrVectorizerNotFitted
	}
	row := make([]float64, len(v.Vocabulary))
	for _, term := range analyze(text) {
		if i, ok := v.lookup(term); ok {
			row[i]++
		}
	}
	for i := range row {
		row[i] *= v.IDF[i]
	}
	if norm := floats.Norm(row, 2); norm > 0 {
		floats.Scale(1/norm, row)
	}
	return row, nil
}

// TransformAll transforms a batch of normalized texts
func (v *Vectorizer) TransformAll(texts []string) ([][]float64, error) {
	if !v.Fitted() {
		return nil, ErrVectorizerNotFitted
	}
	rows := make([][]float64, len(texts))
	for i, text := range texts {
		row, err := v.Transform(text)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

// lookup binary-searches the sorted vocabulary, so transforms share the
// fitted state without any mutable index.
func (v *Vectorizer) lookup(term string) (int, bool) {
	i := sort.SearchStrings(v.Vocabulary, term)
	if i < len(v.Vocabulary) && v.Vocabulary[i] == term {
		return i, true
	}
	return 0, false
}

// analyze produces the unigram and bigram terms of one document. Stop
// words are removed before bigrams form, so a bigram can span a dropped
// stop word.
func analyze(text string) []string {
	tokens := tokenPattern.FindAllString(text, -1)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !englishStopWords[tok] {
			kept = append(kept, tok)
		}
	}
	terms := make([]string, 0, 2*len(kept))
	terms = append(terms, kept...)
	for i := 0; i+1 < len(kept); i++ {
		terms = append(terms, kept[i]+" "+kept[i+1])
	}
	return terms
}
