// Package compression decodes compressed request bodies.
package compression

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

type decoderFunc func(io.Reader) (io.ReadCloser, error)

var decoders = map[string]decoderFunc{
	"gzip":    gzipDecoder,
	"x-gzip":  gzipDecoder,
	"deflate": zlib.NewReader,
	"zstd":    zstdDecoder,
}

func gzipDecoder(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func zstdDecoder(r io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}

// Encodings lists the accepted Content-Encoding values.
func Encodings() []string {
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewReader wraps r so it yields the decoded body. An empty or "identity"
// encoding returns r unchanged.
func NewReader(encoding string, r io.Reader) (io.ReadCloser, error) {
	encoding = strings.ToLower(strings.TrimSpace(encoding))
	if encoding == "" || encoding == "identity" {
		return io.NopCloser(r), nil
	}
	dec, ok := decoders[encoding]
	if !ok {
		return nil, &UnsupportedEncodingError{Encoding: encoding}
	}
	rc, err := dec(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s body: %w", encoding, err)
	}
	return rc, nil
}

type UnsupportedEncodingError struct {
	Encoding string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported content encoding %q (accepted: %s)", e.Encoding, strings.Join(Encodings(), ", "))
}

// DecompressMiddleware replaces a compressed request body with its decoded
// stream. The decoded length is unknown, so ContentLength becomes -1 and any
// body limit downstream applies to decoded bytes.
func DecompressMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoding := r.Header.Get("Content-Encoding")
		if encoding == "" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := NewReader(encoding, r.Body)
		if err != nil {
			status := http.StatusBadRequest
			if _, ok := err.(*UnsupportedEncodingError); ok {
				status = http.StatusUnsupportedMediaType
			}
			http.Error(w, err.Error(), status)
			return
		}
		defer body.Close()

		r.Body = body
		r.Header.Del("Content-Encoding")
		r.ContentLength = -1
		next.ServeHTTP(w, r)
	})
}
