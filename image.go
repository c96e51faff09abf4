package ownmanual

import (
	"net/url"
	"regexp"
	"strings"
)

// ImageAsset is a downloaded image referenced by topic content.
type ImageAsset struct {
	// SourceURL is the absolute URL the image was downloaded from.
	SourceURL string

	// Filename is the deterministic local filename under the images
	// directory, derived from the URL.
	Filename string

	// Data is the binary payload.
	Data []byte
}

var filenameUnsafeRe = regexp.MustCompile(`[^\w.-]`)

// imageExts are recognized in URL order of preference when sniffing the
// file extension. The vendor serves most diagrams as SVG icons and
// photographs as PNG or JPEG.
var imageExts = []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp"}

// ImageFilename derives a deterministic, filesystem-safe filename for an
// image URL. The vendor encodes the asset identity in the "key" query
// parameter; when present it becomes the filename, otherwise the whole
// URL is hashed by the caller-provided fallback.
//
// The extension is sniffed from the URL and appended when missing so the
// renderer can map filenames back to MIME types.
func ImageFilename(rawURL string, fallback func(string) string) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		if key := u.Query().Get("key"); key != "" {
			name = filenameUnsafeRe.ReplaceAllString(key, "_")
		}
	}
	if name == "" {
		name = fallback(rawURL)
	}

	ext := sniffExt(rawURL)
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return name
}

func sniffExt(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, ext := range imageExts {
		if strings.Contains(lower, ext) {
			if ext == ".jpeg" {
				return ".jpg"
			}
			return ext
		}
	}
	return ".png"
}

// MimeType returns the MIME type for an image filename based on its
// extension. Unknown extensions default to image/png, matching the
// download-side extension default.
func MimeType(filename string) string {
	switch strings.ToLower(pathExt(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

func pathExt(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i:]
	}
	return ""
}
