package parquet2bcf

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
)

const gcsPrefix = "gs://"

// IsRemote reports whether path names a Google Cloud Storage object.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, gcsPrefix)
}

// openSource opens a local file or a gs://bucket/object path for reading.
func openSource(ctx context.Context, path string) (io.ReadCloser, error) {
	if !IsRemote(path) {
		f, err := os.Open(ExpandHome(path))
		if err != nil {
			return nil, pfx.Err(err)
		}
		return f, nil
	}

	bucket, object, ok := strings.Cut(strings.TrimPrefix(path, gcsPrefix), "/")
	if !ok || bucket == "" || object == "" {
		return nil, pfx.Err(fmt.Errorf("%s is not of the form gs://bucket/object", path))
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, pfx.Err(err)
	}

	return &gcsReader{Reader: r, client: client}, nil
}

type gcsReader struct {
	*storage.Reader
	client *storage.Client
}

func (g *gcsReader) Close() error {
	err := g.Reader.Close()
	if cerr := g.client.Close(); err == nil {
		err = cerr
	}
	return err
}

// openText opens path like openSource and transparently decompresses it when
// the name ends in .gz.
func openText(ctx context.Context, path string) (io.ReadCloser, error) {
	src, err := openSource(ctx, path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return src, nil
	}

	zr, err := gzip.NewReader(src)
	if err != nil {
		src.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return &gzipReader{Reader: zr, src: src}, nil
}

type gzipReader struct {
	*gzip.Reader
	src io.Closer
}

func (g *gzipReader) Close() error {
	err := g.Reader.Close()
	if cerr := g.src.Close(); err == nil {
		err = cerr
	}
	return err
}
