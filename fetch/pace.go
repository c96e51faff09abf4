package fetch

import (
	"context"

	"golang.org/x/time/rate"
)

// Default request rates against the vendor API. Topic requests are paced
// conservatively; image downloads are static assets and tolerate more.
const (
	DefaultTopicRPS = 3
	DefaultImageRPS = 10
)

// Pacer spaces requests to the vendor API using token buckets, one for
// topic requests and one for image downloads. Bursting is not allowed.
// A nil Pacer performs no pacing.
type Pacer struct {
	topics *rate.Limiter
	images *rate.Limiter
}

// NewPacer creates a Pacer with the given requests-per-second limits.
func NewPacer(topicRPS, imageRPS float64) *Pacer {
	return &Pacer{
		topics: rate.NewLimiter(rate.Limit(topicRPS), 1),
		images: rate.NewLimiter(rate.Limit(imageRPS), 1),
	}
}

// WaitTopic blocks until the rate limit allows a topic request.
func (p *Pacer) WaitTopic(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.topics.Wait(ctx)
}

// WaitImage blocks until the rate limit allows an image download.
func (p *Pacer) WaitImage(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.images.Wait(ctx)
}
