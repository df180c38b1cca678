package genosnp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/biogo/hts/bgzf"
	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/pgzip"
	"google.golang.org/api/iterator"
)

const (
	schemeGCS = "gs://"
	schemeS3  = "s3://"
)

// Opener opens input and output paths. Paths may be local, gs://bucket/key or
// s3://bucket/key; cloud clients are created on first use. Files ending in
// .gz, .bgz or .zst are (de)compressed transparently. An Opener is not safe
// for concurrent use.
type Opener struct {
	ctx context.Context
	gcs *storage.Client
	s3  *s3.Client
}

func NewOpener(ctx context.Context) *Opener {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Opener{ctx: ctx}
}

// Close releases any cloud clients.
func (o *Opener) Close() error {
	if o.gcs != nil {
		return o.gcs.Close()
	}
	return nil
}

// Open returns a reader over the decompressed contents of path.
func (o *Opener) Open(path string) (io.ReadCloser, error) {
	raw, err := o.openRaw(path)
	if err != nil {
		return nil, err
	}

	var dec io.ReadCloser
	switch CompressionFromPath(path) {
	case CompressionGzip:
		dec, err = gzip.NewReader(raw)
	case CompressionBGZF:
		dec, err = bgzf.NewReader(raw, 0)
	case CompressionZStandard:
		dec, err = newZStandardReader(raw)
	default:
		return raw, nil
	}
	if err != nil {
		raw.Close()
		return nil, pfx.Err(fmt.Errorf("file %s could not be decompressed: %w", path, err))
	}

	return &readCloser{Reader: dec, closers: []io.Closer{dec, raw}}, nil
}

// Create returns a writer that replaces the contents of path. The file is
// complete only after Close returns without error; call Abort instead of
// Close to discard what was written.
func (o *Opener) Create(path string) (AbortWriteCloser, error) {
	raw, err := o.createRaw(path)
	if err != nil {
		return nil, err
	}

	var enc io.WriteCloser
	switch CompressionFromPath(path) {
	case CompressionGzip:
		enc = pgzip.NewWriter(raw)
	case CompressionBGZF:
		enc = bgzf.NewWriter(raw, 1)
	case CompressionZStandard:
		enc, err = newZStandardWriter(raw)
		if err != nil {
			raw.Abort()
			return nil, err
		}
	default:
		return raw, nil
	}

	return &writeCloser{Writer: enc, enc: enc, raw: raw}, nil
}

// List returns the paths of the files directly inside dir, sorted. dir may be
// a local directory or a gs:// or s3:// prefix.
func (o *Opener) List(dir string) ([]string, error) {
	var (
		out []string
		err error
	)
	switch {
	case strings.HasPrefix(dir, schemeGCS):
		out, err = o.listGCS(dir)
	case strings.HasPrefix(dir, schemeS3):
		out, err = o.listS3(dir)
	default:
		out, err = listLocal(dir)
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(out)
	return out, nil
}

func listLocal(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, pfx.Err(fmt.Errorf("directory %s does not exist: %w", dir, err))
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("directory %s exists, but cannot be read: %w", dir, err))
	}

	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

// splitBucketPrefix is splitBucketPath for directories: the prefix may be
// empty, and a non-empty prefix always ends in a slash.
func splitBucketPrefix(dir, scheme string) (bucket, prefix string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(dir, scheme), "/", 2)
	if parts[0] == "" {
		return "", "", pfx.Err(fmt.Errorf("invalid path %s (expected %sbucket/prefix)", dir, scheme))
	}
	if len(parts) == 2 && parts[1] != "" {
		prefix = strings.TrimSuffix(parts[1], "/") + "/"
	}
	return parts[0], prefix, nil
}

func (o *Opener) listGCS(dir string) ([]string, error) {
	client, err := o.gcsClient()
	if err != nil {
		return nil, err
	}
	bucket, prefix, err := splitBucketPrefix(dir, schemeGCS)
	if err != nil {
		return nil, err
	}

	var out []string
	it := client.Bucket(bucket).Objects(o.ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("could not list %s: %w", dir, err))
		}
		// Sub-prefixes come back with only Prefix set
		if attrs.Name == "" || strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		out = append(out, schemeGCS+bucket+"/"+attrs.Name)
	}
	return out, nil
}

func (o *Opener) listS3(dir string) ([]string, error) {
	client, err := o.s3Client()
	if err != nil {
		return nil, err
	}
	bucket, prefix, err := splitBucketPrefix(dir, schemeS3)
	if err != nil {
		return nil, err
	}

	var out []string
	pages := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(o.ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("could not list %s: %w", dir, err))
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			out = append(out, schemeS3+bucket+"/"+key)
		}
	}
	return out, nil
}

func (o *Opener) openRaw(path string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(path, schemeGCS):
		return o.openGCS(path)
	case strings.HasPrefix(path, schemeS3):
		return o.openS3(path)
	}
	return openLocal(path)
}

func (o *Opener) createRaw(path string) (AbortWriteCloser, error) {
	switch {
	case strings.HasPrefix(path, schemeGCS):
		client, err := o.gcsClient()
		if err != nil {
			return nil, err
		}
		bucket, key, err := splitBucketPath(path, schemeGCS)
		if err != nil {
			return nil, err
		}
		// Cancelling the context before Close discards the upload
		ctx, cancel := context.WithCancel(o.ctx)
		return &gcsWriter{Writer: client.Bucket(bucket).Object(key).NewWriter(ctx), cancel: cancel}, nil
	case strings.HasPrefix(path, schemeS3):
		client, err := o.s3Client()
		if err != nil {
			return nil, err
		}
		bucket, key, err := splitBucketPath(path, schemeS3)
		if err != nil {
			return nil, err
		}
		return &s3Writer{ctx: o.ctx, client: client, bucket: bucket, key: key}, nil
	}

	return createLocal(path)
}

// createLocal writes to a temporary file next to path, which replaces path on
// Close.
func createLocal(path string) (AbortWriteCloser, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("file %s could not be created: %w", path, err))
	}
	return &localWriter{File: f, path: path}, nil
}

// openLocal distinguishes a path that does not exist from one that exists
// but cannot be read.
func openLocal(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err == nil {
		return f, nil
	}

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		return nil, pfx.Err(fmt.Errorf("file %s does not exist: %w", path, err))
	}
	return nil, pfx.Err(fmt.Errorf("file %s exists, but cannot be read: %w", path, err))
}

func (o *Opener) gcsClient() (*storage.Client, error) {
	if o.gcs != nil {
		return o.gcs, nil
	}
	client, err := storage.NewClient(o.ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}
	o.gcs = client
	return client, nil
}

func (o *Opener) openGCS(path string) (io.ReadCloser, error) {
	client, err := o.gcsClient()
	if err != nil {
		return nil, err
	}
	bucket, key, err := splitBucketPath(path, schemeGCS)
	if err != nil {
		return nil, err
	}

	r, err := client.Bucket(bucket).Object(key).NewReader(o.ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, pfx.Err(fmt.Errorf("file %s does not exist: %w", path, err))
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("file %s exists, but cannot be read: %w", path, err))
	}
	return r, nil
}

func (o *Opener) s3Client() (*s3.Client, error) {
	if o.s3 != nil {
		return o.s3, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(o.ctx)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("failed to load AWS config: %w", err))
	}
	o.s3 = s3.NewFromConfig(cfg)
	return o.s3, nil
}

func (o *Opener) openS3(path string) (io.ReadCloser, error) {
	client, err := o.s3Client()
	if err != nil {
		return nil, err
	}
	bucket, key, err := splitBucketPath(path, schemeS3)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(o.ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	var noKey *s3types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil, pfx.Err(fmt.Errorf("file %s does not exist: %w", path, err))
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("file %s exists, but cannot be read: %w", path, err))
	}
	return out.Body, nil
}

func splitBucketPath(path, scheme string) (bucket, key string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(path, scheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", pfx.Err(fmt.Errorf("invalid path %s (expected %sbucket/key)", path, scheme))
	}
	return parts[0], parts[1], nil
}

// AbortWriteCloser is an output whose contents only become visible at Close.
// Abort discards everything written instead.
type AbortWriteCloser interface {
	io.WriteCloser
	Abort() error
}

type localWriter struct {
	*os.File
	path string
}

func (w *localWriter) Close() error {
	if err := w.File.Close(); err != nil {
		os.Remove(w.File.Name())
		return pfx.Err(err)
	}
	if err := os.Chmod(w.File.Name(), 0o644); err != nil {
		os.Remove(w.File.Name())
		return pfx.Err(err)
	}
	if err := os.Rename(w.File.Name(), w.path); err != nil {
		os.Remove(w.File.Name())
		return pfx.Err(fmt.Errorf("file %s could not be replaced: %w", w.path, err))
	}
	return nil
}

func (w *localWriter) Abort() error {
	w.File.Close()
	if err := os.Remove(w.File.Name()); err != nil {
		return pfx.Err(err)
	}
	return nil
}

type gcsWriter struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *gcsWriter) Close() error {
	defer w.cancel()
	if err := w.Writer.Close(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

func (w *gcsWriter) Abort() error {
	w.cancel()
	// Close reports the cancellation; the object is not created
	_ = w.Writer.Close()
	return nil
}

// s3Writer buffers the object and uploads it on Close.
type s3Writer struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	buf    bytes.Buffer
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *s3Writer) Close() error {
	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   bytes.NewReader(w.buf.Bytes()),
	})
	if err != nil {
		return pfx.Err(fmt.Errorf("failed to upload to s3://%s/%s: %w", w.bucket, w.key, err))
	}
	return nil
}

func (w *s3Writer) Abort() error {
	w.buf.Reset()
	return nil
}

// readCloser closes each of closers in order, returning the first error.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	return closeAll(r.closers)
}

// writeCloser compresses into raw.
type writeCloser struct {
	io.Writer
	enc io.WriteCloser
	raw AbortWriteCloser
}

func (w *writeCloser) Close() error {
	if err := w.enc.Close(); err != nil {
		w.raw.Abort()
		return pfx.Err(err)
	}
	return w.raw.Close()
}

func (w *writeCloser) Abort() error {
	_ = w.enc.Close()
	return w.raw.Abort()
}

func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
