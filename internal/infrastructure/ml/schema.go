package ml

import "fmt"

// SchemaVersion identifies the feature layout. Bump it whenever column
// order or membership changes; serving refuses artifacts from another
// version.
const SchemaVersion = "1"

// Schema is the wire-format contract between training and inference:
// the scaled statistical block in fixed order, then one TF-IDF column
// per vocabulary term in alphabetical order.
type Schema struct {
	Version     string   `json:"version"`
	Statistical []string `json:"statistical_columns"`
	Vocabulary  []string `json:"vocabulary"`
}

// NewSchema freezes the layout for a fitted vocabulary
func NewSchema(vocabulary []string) *Schema {
	return &Schema{
		Version:     SchemaVersion,
		Statistical: statFeatureNames(),
		Vocabulary:  vocabulary,
	}
}

// Width is the full feature-vector length
func (s *Schema) Width() int {
	return len(s.Statistical) + len(s.Vocabulary)
}

// ColumnNames returns every column in vector order
func (s *Schema) ColumnNames() []string {
	names := make([]string, 0, s.Width())
	names = append(names, s.Statistical...)
	for _, term := range s.Vocabulary {
		names = append(names, "tfidf_"+term)
	}
	return names
}

// Assemble concatenates one scaled statistical row and one lexical row,
// asserting the widths the schema promises.
func (s *Schema) Assemble(scaled, lexical []float64) ([]float64, error) {
	if len(scaled) != len(s.Statistical) || len(lexical) != len(s.Vocabulary) {
		return nil, fmt.Errorf("%w: got %d+%d columns, schema has %d+%d",
			ErrDimensionMismatch, len(scaled), len(lexical), len(s.Statistical), len(s.Vocabulary))
	}
	row := make([]float64, 0, s.Width())
	row = append(row, scaled...)
	row = append(row, lexical...)
	return row, nil
}

// Check verifies a loaded schema is one this build can serve
func (s *Schema) Check() error {
	if s.Version != SchemaVersion {
		return fmt.Errorf("%w: schema version %q, want %q",
			ErrIncompatibleArtifacts, s.Version, SchemaVersion)
	}
	want := statFeatureNames()
	if len(s.Statistical) != len(want) {
		return fmt.Errorf("%w: %d statistical columns, want %d",
			ErrIncompatibleArtifacts, len(s.Statistical), len(want))
	}
	for i, name := range want {
		if s.Statistical[i] != name {
			return fmt.Errorf("%w: statistical column %d is %q, want %q",
				ErrIncompatibleArtifacts, i, s.Statistical[i], name)
		}
	}
	return nil
}
