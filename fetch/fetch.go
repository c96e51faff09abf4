// Package fetch orchestrates downloading a manual: the table of
// contents, each topic's content, and the images the topics reference.
// Topics are fetched sequentially in TOC order so that partial output is
// always a clean prefix of the manual.
package fetch

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fkarasek/ownmanual"
	"github.com/fkarasek/ownmanual/bloom"
)

// Fetcher coordinates the fetch stage. Client, Topics, Images, Converter
// and HTML are required; the rest are optional.
type Fetcher struct {
	Client    ownmanual.ManualClient
	Topics    ownmanual.TopicStore
	Images    ownmanual.ImageStore
	Converter ownmanual.Converter
	HTML      ownmanual.ImageRewriter

	// Manifest, when set, records the run and its per-topic outcomes.
	Manifest ownmanual.ManifestService

	// Pacer spaces requests to the vendor API. Nil means no pacing.
	Pacer *Pacer

	// RetryDelays configures backoff between fetch attempts.
	// Nil means DefaultRetryDelays.
	RetryDelays []time.Duration

	// Resume skips topics with a position below it, picking up an
	// interrupted run where it left off.
	Resume int

	// Logger, if provided, receives retry and image warnings.
	Logger LogFunc
}

// SkippedTopic pairs a topic with the error that caused its skip.
type SkippedTopic struct {
	Topic *ownmanual.Topic
	Err   error
}

// Result holds the outcome of a fetch run.
type Result struct {
	RunID      string
	Total      int
	Fetched    int
	Skipped    int
	Categories int
	Images     int

	SkippedTopics []SkippedTopic
}

// Run fetches the manual rooted at rootKey. Individual topic failures are
// recorded and skipped; authentication failures, schema changes, and
// storage errors abort the run. The progress callback, if provided,
// receives an event per processed topic.
func (f *Fetcher) Run(ctx context.Context, rootKey string, progress ownmanual.FetchProgressFunc) (*Result, error) {
	delays := f.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	if err := f.Pacer.WaitTopic(ctx); err != nil {
		return nil, err
	}
	toc, err := Retry(ctx, "topic tree", func(ctx context.Context) (*ownmanual.TOC, error) {
		return f.Client.TopicTree(ctx, rootKey)
	}, f.Logger, delays)
	if err != nil {
		return nil, err
	}

	topics := ownmanual.FlattenTOC(toc)
	if len(topics) == 0 {
		return nil, ownmanual.Errorf(ownmanual.EINVALID, "topic tree for %q has no topics", rootKey)
	}

	if err := f.Topics.SaveIndex(ctx, topics); err != nil {
		return nil, err
	}

	result := &Result{Total: len(topics)}

	var run *ownmanual.Run
	if f.Manifest != nil {
		if run, err = f.Manifest.BeginRun(ctx, rootKey); err != nil {
			return nil, err
		}
		result.RunID = run.ID
	}

	seen := bloom.NewImageFilter()
	completed := 0

	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return result, f.finish(ctx, run, result, err)
		}
		if topic.Position < f.Resume {
			completed++
			continue
		}

		if topic.Category {
			f.record(ctx, run, topic, ownmanual.StatusCategory, "", nil)
			result.Categories++
			completed++
			if progress != nil {
				progress(ownmanual.FetchProgress{Topic: topic, Completed: completed, Total: len(topics)})
			}
			continue
		}

		images, err := f.fetchTopic(ctx, run, topic, seen, delays)
		completed++

		switch {
		case err == nil:
			result.Fetched++
			result.Images += images
		case isFatal(err):
			return result, f.finish(ctx, run, result, err)
		default:
			result.Skipped++
			result.SkippedTopics = append(result.SkippedTopics, SkippedTopic{Topic: topic, Err: err})
			f.record(ctx, run, topic, ownmanual.StatusSkipped, "", err)
		}

		if progress != nil {
			progress(ownmanual.FetchProgress{
				Topic:     topic,
				Completed: completed,
				Total:     len(topics),
				Images:    images,
				Err:       err,
			})
		}
	}

	return result, f.finish(ctx, run, result, nil)
}

// fetchTopic downloads one topic, localizes its images, converts the body
// to markdown, and persists everything. Fatal errors are marked so the
// run aborts; others cause the topic to be skipped.
func (f *Fetcher) fetchTopic(ctx context.Context, run *ownmanual.Run, topic *ownmanual.Topic, seen *bloom.Filter, delays []time.Duration) (int, error) {
	if err := f.Pacer.WaitTopic(ctx); err != nil {
		return 0, fatal(err)
	}

	content, err := Retry(ctx, topic.Label, func(ctx context.Context) (*ownmanual.TopicContent, error) {
		return f.Client.TopicContent(ctx, topic.Key)
	}, f.Logger, delays)
	if err != nil {
		switch ownmanual.ErrorCode(err) {
		case ownmanual.EUNAUTHORIZED, ownmanual.EINVALID:
			return 0, fatal(err)
		}
		return 0, err
	}

	downloaded, body, err := f.localizeImages(ctx, topic, content.BodyHTML, seen, delays)
	if err != nil {
		return 0, err
	}

	markdown, err := f.Converter.Convert(body)
	if err != nil {
		// Only empty bodies fail conversion; the topic keeps its title.
		markdown = ""
	}

	title := content.Title
	if title == "" {
		title = topic.Label
	}
	full := "# " + title + "\n\n" + markdown

	if err := f.Topics.SaveTopic(ctx, topic, full, content.Raw); err != nil {
		return 0, fatal(err)
	}

	f.record(ctx, run, topic, ownmanual.StatusOK, HashString(full), nil)
	return downloaded, nil
}

// localizeImages downloads each image the topic references, once across
// the whole run, and rewrites its src to the on-disk location relative to
// the topic's directory. Images that fail to download keep their remote
// URL.
func (f *Fetcher) localizeImages(ctx context.Context, topic *ownmanual.Topic, html string, seen *bloom.Filter, delays []time.Duration) (int, string, error) {
	refs, err := f.HTML.ImageRefs(html)
	if err != nil {
		return 0, "", err
	}
	if len(refs) == 0 {
		return 0, html, nil
	}

	downloaded := 0
	local := make(map[string]string, len(refs))
	for _, ref := range refs {
		if _, ok := local[ref]; ok {
			continue
		}

		filename := ownmanual.ImageFilename(ref, HashString)

		// The filter can report false positives, so confirm on disk.
		if seen.Test(filename) && f.Images.HasImage(filename) {
			local[ref] = relImagePath(topic, filename)
			continue
		}
		if f.Images.HasImage(filename) {
			seen.Add(filename)
			local[ref] = relImagePath(topic, filename)
			continue
		}

		if err := f.Pacer.WaitImage(ctx); err != nil {
			return downloaded, "", fatal(err)
		}
		data, err := Retry(ctx, ref, func(ctx context.Context) ([]byte, error) {
			return f.Client.Image(ctx, ref)
		}, f.Logger, delays)
		if err != nil {
			if code := ownmanual.ErrorCode(err); code == ownmanual.EUNAUTHORIZED {
				return downloaded, "", fatal(err)
			}
			if f.Logger != nil {
				f.Logger("  image %s: %v", ref, err)
			}
			continue
		}

		if err := f.Images.SaveImage(ctx, filename, data); err != nil {
			return downloaded, "", fatal(err)
		}
		seen.Add(filename)
		downloaded++
		local[ref] = relImagePath(topic, filename)
	}

	rewritten, err := f.HTML.RewriteImageRefs(html, func(src string) (string, bool) {
		path, ok := local[src]
		return path, ok
	})
	if err != nil {
		return downloaded, "", err
	}

	return downloaded, rewritten, nil
}

// record writes a topic record when a manifest is configured. Recording
// failures are not allowed to fail the fetch.
func (f *Fetcher) record(ctx context.Context, run *ownmanual.Run, topic *ownmanual.Topic, status, hash string, cause error) {
	if f.Manifest == nil || run == nil {
		return
	}

	rec := &ownmanual.TopicRecord{
		RunID:       run.ID,
		Key:         topic.Key,
		Label:       topic.Label,
		Path:        topic.Path,
		Position:    topic.Position,
		Status:      status,
		ContentHash: hash,
	}
	if cause != nil {
		rec.Error = cause.Error()
	}

	if err := f.Manifest.RecordTopic(ctx, rec); err != nil && f.Logger != nil {
		f.Logger("  manifest record %s: %v", topic.Path, err)
	}
}

func (f *Fetcher) finish(ctx context.Context, run *ownmanual.Run, result *Result, cause error) error {
	if f.Manifest != nil && run != nil {
		run.Fetched = result.Fetched
		run.Skipped = result.Skipped
		run.Categories = result.Categories
		run.Images = result.Images
		if err := f.Manifest.FinishRun(ctx, run); err != nil && cause == nil {
			cause = err
		}
	}
	return cause
}

// fatalErr marks errors that abort the whole run instead of skipping the
// current topic.
type fatalErr struct{ err error }

func (e fatalErr) Error() string { return e.err.Error() }
func (e fatalErr) Unwrap() error { return e.err }

func fatal(err error) error { return fatalErr{err: err} }

func isFatal(err error) bool {
	var fe fatalErr
	if errors.As(err, &fe) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// relImagePath returns the path from the topic's directory to the shared
// images directory, e.g. "../../images/a.png" for a depth-one topic.
func relImagePath(topic *ownmanual.Topic, filename string) string {
	depth := strings.Count(topic.Path, "/")
	return strings.Repeat("../", depth+1) + "images/" + filename
}

// HashString returns a 16-character hex digest, used as the content hash
// for manifest records and as the fallback image filename stem.
func HashString(s string) string {
	sum := xxhash.Sum64String(s)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	return hex.EncodeToString(b[:])
}
