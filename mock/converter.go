package mock

import "github.com/fkarasek/ownmanual"

var _ ownmanual.Converter = (*Converter)(nil)

// Converter is a mock implementation of ownmanual.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ ownmanual.ImageRewriter = (*ImageRewriter)(nil)

// ImageRewriter is a mock implementation of ownmanual.ImageRewriter.
type ImageRewriter struct {
	ImageRefsFn        func(html string) ([]string, error)
	RewriteImageRefsFn func(html string, rewrite func(src string) (string, bool)) (string, error)
}

func (r *ImageRewriter) ImageRefs(html string) ([]string, error) {
	return r.ImageRefsFn(html)
}

func (r *ImageRewriter) RewriteImageRefs(html string, rewrite func(src string) (string, bool)) (string, error) {
	return r.RewriteImageRefsFn(html, rewrite)
}
