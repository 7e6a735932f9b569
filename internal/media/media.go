// Package media uploads story images and videos to object storage and
// returns the url+kind pair the document model stores.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/model"
)

var (
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrTooLarge        = errors.New("media file too large")
)

// DefaultMaxBytes is the upload cap when none is configured.
const DefaultMaxBytes int64 = 50 << 20

// AcceptMode restricts which media kinds an upload field takes.
type AcceptMode string

const (
	AcceptImage AcceptMode = "image"
	AcceptVideo AcceptMode = "video"
	AcceptBoth  AcceptMode = "both"
)

// ParseAcceptMode maps "" to AcceptBoth.
func ParseAcceptMode(s string) (AcceptMode, error) {
	switch m := AcceptMode(s); m {
	case "":
		return AcceptBoth, nil
	case AcceptImage, AcceptVideo, AcceptBoth:
		return m, nil
	}
	return "", fmt.Errorf("unknown accept mode %q", s)
}

func (m AcceptMode) allows(k model.MediaKind) bool {
	return m == AcceptBoth || string(m) == string(k)
}

// File is one upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores a file and returns where it can be fetched.
type Uploader interface {
	Upload(ctx context.Context, f File, accept AcceptMode) (model.Media, error)
}

// ObjectPutter writes one object to a bucket.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
}

type Options struct {
	Bucket string
	// PublicBaseURL prefixes object keys in returned urls; it should
	// already include the bucket path when the store needs one.
	PublicBaseURL string
	MaxBytes      int64
}

// Service validates uploads and writes them through an ObjectPutter.
type Service struct {
	putter ObjectPutter
	opts   Options
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(p ObjectPutter, opts Options, log zerolog.Logger) *Service {
	if opts.Bucket == "" {
		opts.Bucket = "story-media"
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	return &Service{putter: p, opts: opts, log: log, now: time.Now}
}

// Classify returns the media kind of contentType if accept allows it.
func Classify(contentType string, accept AcceptMode) (model.MediaKind, error) {
	var kind model.MediaKind
	switch {
	case strings.HasPrefix(contentType, "image/"):
		kind = model.MediaImage
	case strings.HasPrefix(contentType, "video/"):
		kind = model.MediaVideo
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	if !accept.allows(kind) {
		return "", fmt.Errorf("%w: %s not accepted here", ErrUnsupportedType, kind)
	}
	return kind, nil
}

func (s *Service) Upload(ctx context.Context, f File, accept AcceptMode) (model.Media, error) {
	kind, err := Classify(f.ContentType, accept)
	if err != nil {
		return model.Media{}, err
	}
	if f.Size > s.opts.MaxBytes {
		return model.Media{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, f.Size, s.opts.MaxBytes)
	}

	key := s.objectKey(f.Name, f.ContentType)
	if err := s.putter.PutObject(ctx, s.opts.Bucket, key, f.Body, f.Size, f.ContentType); err != nil {
		return model.Media{}, fmt.Errorf("upload %s: %w", key, err)
	}
	s.log.Info().Str("bucket", s.opts.Bucket).Str("key", key).Str("kind", string(kind)).Int64("size", f.Size).Msg("media uploaded")
	return model.Media{URL: s.publicURL(key), Kind: kind}, nil
}

// objectKey is stories/<random>-<unix millis>.<ext>.
func (s *Service) objectKey(name, contentType string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if ext == "" {
		if i := strings.IndexByte(contentType, '/'); i >= 0 {
			ext = strings.ToLower(contentType[i+1:])
			if j := strings.IndexAny(ext, ";+ "); j >= 0 {
				ext = ext[:j]
			}
		}
	}
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("stories/%s-%d.%s", shortuuid.New(), s.now().UnixMilli(), ext)
}

func (s *Service) publicURL(key string) string {
	base := strings.TrimRight(s.opts.PublicBaseURL, "/")
	if base == "" {
		return "/" + s.opts.Bucket + "/" + key
	}
	return base + "/" + key
}
