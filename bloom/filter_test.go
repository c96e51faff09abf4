package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fkarasek/ownmanual/bloom"
	"github.com/stretchr/testify/assert"
)

func TestNewImageFilter(t *testing.T) {
	t.Parallel()

	f := bloom.NewImageFilter()

	assert.False(t, f.Test("airbag.png"))

	f.Add("airbag.png")

	assert.True(t, f.Test("airbag.png"))
	assert.False(t, f.Test("seatbelt.png"))
}

func TestFilter_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewImageFilter()

	f.Add("airbag.png")
	countAfterFirst := f.EstimatedCount()

	// Adding the same filename multiple times should not change the filter
	f.Add("airbag.png")
	f.Add("airbag.png")

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.True(t, f.Test("airbag.png"))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems    = 10000
		fpRate      = 0.01
		testLookups = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Add(fmt.Sprintf("present_%d.png", i))
	}

	falsePositives := 0
	for i := range testLookups {
		if f.Test(fmt.Sprintf("absent_%d.png", i)) {
			falsePositives++
		}
	}

	// False positive rate should be approximately 1%
	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testLookups)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
