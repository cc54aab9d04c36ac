package ml_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fake-review-detector/internal/infrastructure/ml"
)

// tinyArtifacts fits a minimal but internally consistent model: five
// vocabulary terms, an 18-column scaler, and a forest over the full
// 23-column width.
func tinyArtifacts(t *testing.T) *ml.Artifacts {
	t.Helper()

	vec := ml.NewVectorizer(30)
	var corpus []string
	corpus = repeatDocs(corpus, "battery was draining fast", 5)
	corpus = repeatDocs(corpus, "excellent kettle", 2)
	require.NoError(t, vec.Fit(corpus))

	scaler := ml.NewScaler()
	rows := make([][]float64, 4)
	for i := range rows {
		row := make([]float64, 18)
		for j := range row {
			row[j] = float64((i + 1) * (j + 1))
		}
		rows[i] = row
	}
	require.NoError(t, scaler.Fit(rows))

	schema := ml.NewSchema(vec.Vocabulary)

	var x [][]float64
	var y []int
	for i := 0; i < 20; i++ {
		row := make([]float64, schema.Width())
		if i%2 == 0 {
			row[0] = -1 - float64(i)*0.1
			y = append(y, 0)
		} else {
			row[0] = 1 + float64(i)*0.1
			y = append(y, 1)
		}
		row[1] = float64(i)
		x = append(x, row)
	}
	forest := ml.NewForest(ml.ForestParams{
		Trees:           3,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		FeatureFraction: 1.0,
		Seed:            42,
	})
	require.NoError(t, forest.Fit(context.Background(), x, y))

	return &ml.Artifacts{Schema: schema, Scaler: scaler, Vectorizer: vec, Forest: forest}
}

func TestArtifacts_SaveLoad(t *testing.T) {
	t.Run("round trip preserves the model exactly", func(t *testing.T) {
		a := tinyArtifacts(t)
		dir := t.TempDir()

		require.NoError(t, ml.SaveArtifacts(dir, a))
		for _, name := range []string{ml.SchemaFile, ml.ScalerFile, ml.VectorizerFile, ml.ForestFile} {
			_, err := os.Stat(filepath.Join(dir, name))
			require.NoError(t, err)
		}

		loaded, err := ml.LoadArtifacts(dir)
		require.NoError(t, err)

		assert.Equal(t, a.Schema.Vocabulary, loaded.Schema.Vocabulary)
		assert.Equal(t, a.Scaler.Mean, loaded.Scaler.Mean)
		assert.Equal(t, a.Vectorizer.IDF, loaded.Vectorizer.IDF)

		probe := make([]float64, a.Schema.Width())
		probe[0] = 1.4
		want, err := a.Forest.PredictProba([][]float64{probe})
		require.NoError(t, err)
		got, err := loaded.Forest.PredictProba([][]float64{probe})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("save refuses artifacts with a missing component", func(t *testing.T) {
		a := tinyArtifacts(t)
		a.Forest = nil

		err := ml.SaveArtifacts(t.TempDir(), a)
		require.Error(t, err)
		assert.ErrorIs(t, err, ml.ErrIncompatibleArtifacts)
		assert.Contains(t, err.Error(), "missing component")
	})

	t.Run("save refuses an unfitted component", func(t *testing.T) {
		a := tinyArtifacts(t)
		a.Scaler = ml.NewScaler()

		err := ml.SaveArtifacts(t.TempDir(), a)
		assert.ErrorIs(t, err, ml.ErrIncompatibleArtifacts)
	})

	t.Run("save refuses a vocabulary out of step with the schema", func(t *testing.T) {
		a := tinyArtifacts(t)

		other := ml.NewVectorizer(30)
		var corpus []string
		corpus = repeatDocs(corpus, "keep", 5)
		corpus = repeatDocs(corpus, "filler1 filler2", 2)
		require.NoError(t, other.Fit(corpus))
		a.Vectorizer = other

		err := ml.SaveArtifacts(t.TempDir(), a)
		require.Error(t, err)
		assert.ErrorIs(t, err, ml.ErrIncompatibleArtifacts)
		assert.Contains(t, err.Error(), "terms")
	})

	t.Run("loading an empty directory fails on the first file", func(t *testing.T) {
		_, err := ml.LoadArtifacts(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), ml.SchemaFile)
	})
}

func TestMetrics_SaveLoad(t *testing.T) {
	ev, err := ml.Evaluate([]int{0, 0, 1, 1}, []int{0, 1, 1, 1}, []float64{0.1, 0.6, 0.8, 0.9})
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, ml.SaveMetrics(dir, ev, "random_forest"))

	for _, name := range []string{ml.MetricsFile, ml.FullMetricsFile} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		require.NoError(t, statErr)
	}

	doc, err := ml.LoadMetricsDocument(dir)
	require.NoError(t, err)

	assert.Equal(t, "random_forest", doc["model_type"])
	assert.InDelta(t, ev.Accuracy, doc["accuracy"].(float64), 1e-9)
	assert.InDelta(t, ev.ROCAUC, doc["roc_auc"].(float64), 1e-9)
}
