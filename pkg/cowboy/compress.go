package cowboy

import (
	"bytes"
	"compress/gzip"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/potatosalad/cowboy/internal/h2/stream"
)

// CompressConfig defines the configuration options for response compression.
type CompressConfig struct {
	// Level specifies the compression level (1-9 for gzip, 0-11 for brotli)
	Level int
	// MinSize specifies the minimum body size to compress (default: 1024 bytes)
	MinSize int
}

// DefaultCompressConfig returns a CompressConfig with sensible defaults.
func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		Level:   6, // balanced compression
		MinSize: 1024,
	}
}

// Compress rewrites a Response command to a compressed equivalent when the
// request's accept-encoding allows it. Brotli is preferred over gzip.
// Bodies below MinSize, or requests accepting neither encoding, pass
// through unchanged.
func Compress(req *stream.Request, resp stream.Response, config CompressConfig) stream.Response {
	if config.MinSize <= 0 {
		config.MinSize = 1024
	}
	if len(resp.Body) < config.MinSize {
		return resp
	}
	accept := req.Headers["accept-encoding"]

	switch {
	case acceptsEncoding(accept, "br"):
		var buf bytes.Buffer
		w := brotli.NewWriterLevel(&buf, config.Level)
		if _, err := w.Write(resp.Body); err != nil {
			return resp
		}
		if err := w.Close(); err != nil {
			return resp
		}
		return encoded(resp, buf.Bytes(), "br")
	case acceptsEncoding(accept, "gzip"):
		var buf bytes.Buffer
		w, err := gzip.NewWriterLevel(&buf, normalizeGzipLevel(config.Level))
		if err != nil {
			return resp
		}
		if _, err := w.Write(resp.Body); err != nil {
			return resp
		}
		if err := w.Close(); err != nil {
			return resp
		}
		return encoded(resp, buf.Bytes(), "gzip")
	}
	return resp
}

func encoded(resp stream.Response, body []byte, encoding string) stream.Response {
	headers := make([][2]string, 0, len(resp.Headers)+1)
	for _, h := range resp.Headers {
		if h[0] == "content-length" || h[0] == "content-encoding" {
			continue
		}
		headers = append(headers, h)
	}
	headers = append(headers, [2]string{"content-encoding", encoding})
	return stream.Response{Status: resp.Status, Headers: headers, Body: body}
}

// acceptsEncoding reports whether an accept-encoding header lists the
// given coding with a non-zero quality.
func acceptsEncoding(accept, coding string) bool {
	for _, part := range strings.Split(accept, ",") {
		part = strings.TrimSpace(part)
		name, params, _ := strings.Cut(part, ";")
		if strings.TrimSpace(name) != coding {
			continue
		}
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			v, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
			return err != nil || v != 0
		}
		return true
	}
	return false
}

func normalizeGzipLevel(level int) int {
	if level < gzip.BestSpeed || level > gzip.BestCompression {
		return gzip.DefaultCompression
	}
	return level
}
