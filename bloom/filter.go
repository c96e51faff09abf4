// Package bloom provides image URL deduplication using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter for image URL deduplication. A positive
// Test result may be a false positive, so callers confirm against the
// image store before skipping a download; negatives are exact.
type Filter struct {
	f *bloom.BloomFilter
}

// A manual carries a few hundred distinct images at most; size the
// per-run filter well above that.
const (
	expectedImages = 4096
	imageFPRate    = 0.001
)

// NewImageFilter creates a Bloom filter sized for one manual's image
// population.
func NewImageFilter() *Filter {
	return NewFilter(expectedImages, imageFPRate)
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a URL to the filter.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
