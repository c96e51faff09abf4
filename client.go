package ownmanual

import "context"

// ManualClient retrieves manual data from the vendor's web API.
// Implementations handle session cookie authentication; all methods
// return EUNAUTHORIZED when the session has expired and EUNAVAILABLE for
// network or server failures.
type ManualClient interface {
	// TopicTree fetches the table of contents rooted at the given key.
	TopicTree(ctx context.Context, key string) (*TOC, error)

	// TopicContent fetches the content of a single topic.
	TopicContent(ctx context.Context, key string) (*TopicContent, error)

	// Image downloads an image referenced by topic content.
	// The URL is absolute, as found in the content's src attributes.
	Image(ctx context.Context, url string) ([]byte, error)
}

// Converter transforms topic body HTML into markdown for the per-topic
// content files.
type Converter interface {
	Convert(html string) (string, error)
}

// ImageRewriter extracts and rewrites image references in topic HTML.
type ImageRewriter interface {
	// ImageRefs returns the image URLs referenced by the HTML, in
	// document order. Both src and the vendor's lazy-loading data-src
	// attributes are considered.
	ImageRefs(html string) ([]string, error)

	// RewriteImageRefs replaces each image reference for which rewrite
	// returns true with the returned value. References for which rewrite
	// returns false are left untouched.
	RewriteImageRefs(html string, rewrite func(src string) (string, bool)) (string, error)
}

// FetchProgress reports progress during the fetch stage.
type FetchProgress struct {
	Topic     *Topic
	Completed int
	Total     int
	Images    int
	Err       error
}

// FetchProgressFunc is called as topics are processed.
type FetchProgressFunc func(FetchProgress)
