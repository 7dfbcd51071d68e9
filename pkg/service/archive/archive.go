// Package archive opens the destination of a JSONL export: a local file,
// standard output, or a Cloud Storage object.
package archive

import (
	"context"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

const (
	gcsScheme   = "gs://"
	contentType = "application/x-ndjson"
	// Stdout is the destination that writes to standard output
	Stdout = "-"
)

var ErrInvalidDestination = goerr.New("invalid export destination")

// GCSLocation is a parsed gs:// URL
type GCSLocation struct {
	Bucket string
	Object string
}

// IsGCS reports whether dest is a Cloud Storage URL
func IsGCS(dest string) bool {
	return strings.HasPrefix(dest, gcsScheme)
}

// ParseGCSURL splits gs://bucket/prefix/name into bucket and object. When the
// object part is empty or ends with a slash, a timestamped file name is
// appended.
func ParseGCSURL(dest string, now time.Time) (*GCSLocation, error) {
	if !IsGCS(dest) {
		return nil, goerr.Wrap(ErrInvalidDestination, "not a gs:// URL", goerr.V("destination", dest))
	}

	bucket, object, _ := strings.Cut(strings.TrimPrefix(dest, gcsScheme), "/")
	if bucket == "" {
		return nil, goerr.Wrap(ErrInvalidDestination, "bucket is required", goerr.V("destination", dest))
	}
	if object == "" || strings.HasSuffix(object, "/") {
		object = path.Join(object, DefaultFileName(now))
	}

	return &GCSLocation{Bucket: bucket, Object: object}, nil
}

// DefaultFileName names an export taken at now
func DefaultFileName(now time.Time) string {
	return "argus-export-" + now.UTC().Format("20060102T150405Z") + ".jsonl"
}

type options struct {
	credentialsFile string
	now             func() time.Time
}

// Option configures Open
type Option func(*options)

// WithCredentialsFile uses a service account key instead of application default credentials
func WithCredentialsFile(path string) Option {
	return func(o *options) {
		o.credentialsFile = path
	}
}

// WithClock overrides the time used for generated object names
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Open returns a writer for dest. Data written to a Cloud Storage object is
// committed only when Close returns nil.
func Open(ctx context.Context, dest string, opts ...Option) (io.WriteCloser, error) {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	switch {
	case dest == "":
		return nil, goerr.Wrap(ErrInvalidDestination, "destination is required")

	case dest == Stdout:
		return nopCloser{Writer: os.Stdout}, nil

	case IsGCS(dest):
		loc, err := ParseGCSURL(dest, o.now())
		if err != nil {
			return nil, err
		}
		return openGCS(ctx, loc, o)

	default:
		f, err := os.Create(dest)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create export file", goerr.V("path", dest))
		}
		return f, nil
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type gcsWriter struct {
	*storage.Writer
	client *storage.Client
	loc    *GCSLocation
}

func openGCS(ctx context.Context, loc *GCSLocation, o *options) (io.WriteCloser, error) {
	var clientOpts []option.ClientOption
	if o.credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(o.credentialsFile))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS storage client")
	}

	w := client.Bucket(loc.Bucket).Object(loc.Object).NewWriter(ctx)
	w.ContentType = contentType

	return &gcsWriter{Writer: w, client: client, loc: loc}, nil
}

func (w *gcsWriter) Close() error {
	closeErr := w.Writer.Close()
	clientErr := w.client.Close()

	if closeErr != nil {
		return goerr.Wrap(closeErr, "failed to commit GCS object",
			goerr.V("bucket", w.loc.Bucket),
			goerr.V("object", w.loc.Object))
	}
	if clientErr != nil {
		return goerr.Wrap(clientErr, "failed to close GCS storage client")
	}
	return nil
}
