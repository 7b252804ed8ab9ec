package xmlsafe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateElementCount(t *testing.T) {
	t.Run("counts angle brackets, including end tags", func(t *testing.T) {
		doc := []byte(`<Root><Child/></Root>`)
		assert.Equal(t, 3, EstimateElementCount(doc))
	})

	t.Run("overcounts when comments are present", func(t *testing.T) {
		doc := []byte(`<Root><!-- <fake/> --></Root>`)
		assert.Greater(t, EstimateElementCount(doc), 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, 0, EstimateElementCount(nil))
	})
}
