package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"golang.org/x/sync/errgroup"

	"github.com/BrownsugarZeer/fivek-crawler/internal/fivek"
)

// writeChunkSize is the copy buffer size for streaming image bodies.
const writeChunkSize = 32 * 1024

// Dest is the download destination: a blob bucket plus, for local
// file-backed destinations, the directory the bucket is rooted at.
type Dest struct {
	bucket *blob.Bucket
	dir    string
}

// OpenDir opens a local directory as the destination. The directory is
// created if absent.
func OpenDir(dir string) (*Dest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve saving dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create saving dir: %w", err)
	}

	bucket, err := fileblob.OpenBucket(abs, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, fmt.Errorf("open saving dir: %w", err)
	}
	return &Dest{bucket: bucket, dir: abs}, nil
}

// OpenURL opens a destination bucket URL (s3://, gs://, mem://, ...).
// The relevant gocloud driver must be linked in by the caller.
func OpenURL(ctx context.Context, rawURL string) (*Dest, error) {
	bucket, err := blob.OpenBucket(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("open destination %s: %w", rawURL, err)
	}
	return &Dest{bucket: bucket}, nil
}

// NewDest wraps an already-open bucket. Used by tests.
func NewDest(bucket *blob.Bucket) *Dest {
	return &Dest{bucket: bucket}
}

// Close releases the underlying bucket.
func (d *Dest) Close() error {
	return d.bucket.Close()
}

// Bucket exposes the underlying bucket for read-backs in tests.
func (d *Dest) Bucket() *blob.Bucket {
	return d.bucket
}

// EnsureDir prepares the destination directory for one expert and
// returns its path. For file-backed destinations the directory is
// created including parents; an already existing directory is success,
// reported through the existed flag. Bucket destinations have no
// directories to create.
func (d *Dest) EnsureDir(expert string) (string, bool, error) {
	key := fivek.ExpertDir(expert)
	if d.dir == "" {
		return key, false, nil
	}

	p := filepath.Join(d.dir, filepath.FromSlash(key))
	info, err := os.Stat(p)
	existed := err == nil && info.IsDir()

	if err := os.MkdirAll(p, 0o755); err != nil {
		return "", false, fmt.Errorf("create expert dir: %w", err)
	}
	return p, existed, nil
}

// Prepare ensures the directory of every expert exists before any
// download starts. Pre-existing directories produce a notice on the
// given writer; any creation error is fatal for the run.
func (d *Dest) Prepare(ctx context.Context, experts []string, notice io.Writer) error {
	if notice == nil {
		notice = io.Discard
	}

	g, _ := errgroup.WithContext(ctx)
	for _, expert := range experts {
		g.Go(func() error {
			p, existed, err := d.EnsureDir(expert)
			if err != nil {
				return err
			}
			if existed {
				fmt.Fprintf(notice, "[fivek] target directory (%s) already exists\n", p)
			}
			return nil
		})
	}
	return g.Wait()
}

// Write streams r into the destination under key in fixed-size chunks.
// A clean copy is committed on Close; a failed copy abandons the writer
// and returns the copy error.
func (d *Dest) Write(ctx context.Context, key string, r io.Reader) (int64, error) {
	w, err := d.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return 0, fmt.Errorf("open writer %s: %w", key, err)
	}

	buf := make([]byte, writeChunkSize)
	n, err := io.CopyBuffer(w, r, buf)
	if err != nil {
		w.Close()
		return n, fmt.Errorf("write %s: %w", key, err)
	}

	if err := w.Close(); err != nil {
		return n, fmt.Errorf("commit %s: %w", key, err)
	}
	return n, nil
}
