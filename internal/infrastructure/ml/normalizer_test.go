package ml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fake-review-detector/internal/infrastructure/ml"
)

func TestNormalizeText(t *testing.T) {
	t.Run("lowercases everything", func(t *testing.T) {
		assert.Equal(t, "great product", ml.NormalizeText("GREAT Product"))
	})

	t.Run("strips urls", func(t *testing.T) {
		assert.Equal(t, "amazing deal at", ml.NormalizeText("Amazing deal at http://spam.example/buy-now"))
		assert.Equal(t, "visit  today", ml.NormalizeText("Visit www.spam.example today"))
	})

	t.Run("removes special characters but keeps basic punctuation", func(t *testing.T) {
		assert.Equal(t, "50 off!!!", ml.NormalizeText("50% off!!!"))
		assert.Equal(t, "really? yes, really.", ml.NormalizeText("Really? Yes, really."))
	})

	t.Run("drops non-ascii letters", func(t *testing.T) {
		assert.Equal(t, "caf", ml.NormalizeText("café"))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "padded", ml.NormalizeText("  padded  "))
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		assert.Equal(t, "", ml.NormalizeText(""))
		assert.Equal(t, "", ml.NormalizeText("   "))
	})
}
