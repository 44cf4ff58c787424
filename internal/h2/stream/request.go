package stream

import (
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/http2"
)

// BodyLengthUnknown marks a request that has a body with no content-length.
const BodyLengthUnknown int64 = -1

// NewRequest builds a Request from a fully decoded header field list. fin
// reports whether the HEADERS frame carried END_STREAM. Violations return a
// *StreamErr the engine converts into RST_STREAM.
func NewRequest(conn Messenger, peer net.Addr, streamID uint32, fields [][2]string, fin bool) (*Request, error) {
	if err := validateRequestFields(fields); err != nil {
		return nil, &StreamErr{StreamID: streamID, Code: http2.ErrCodeProtocol, Cause: err.Error()}
	}

	req := &Request{
		Conn:     conn,
		Peer:     peer,
		StreamID: streamID,
		Version:  "HTTP/2",
		Headers:  make(map[string]string),
	}

	for _, f := range fields {
		name, value := f[0], f[1]
		switch name {
		case ":method":
			req.Method = value
		case ":scheme":
			req.Scheme = value
		case ":authority":
			req.Authority = value
		case ":path":
			req.Path, req.Qs = splitPath(value)
		default:
			appendHeader(req.Headers, name, value)
		}
	}

	req.Host, req.Port = parseAuthority(req.Scheme, req.Authority)

	req.HasBody = !fin
	switch {
	case fin:
		req.BodyLength = 0
	default:
		cl, ok := req.Headers["content-length"]
		if !ok {
			req.BodyLength = BodyLengthUnknown
			break
		}
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil || n < 0 {
			return nil, &StreamErr{StreamID: streamID, Code: http2.ErrCodeProtocol,
				Cause: "invalid content-length: " + cl}
		}
		req.BodyLength = n
	}

	return req, nil
}

// appendHeader folds a repeated header name into a single joined value.
// cookie joins with "; " per RFC 7540 §8.1.2.5; everything else with ", ".
func appendHeader(headers map[string]string, name, value string) {
	prev, ok := headers[name]
	if !ok {
		headers[name] = value
		return
	}
	sep := ", "
	if name == "cookie" {
		sep = "; "
	}
	headers[name] = prev + sep + value
}

// splitPath separates the path from the query string at the first '?'.
func splitPath(p string) (path, qs string) {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		return p[:i], p[i+1:]
	}
	return p, ""
}

// parseAuthority splits host[:port], defaulting the port from the scheme.
// Bracketed IPv6 literals are unwrapped.
func parseAuthority(scheme, authority string) (host string, port int) {
	port = 80
	if scheme == "https" {
		port = 443
	}
	if authority == "" {
		return "", port
	}
	host = authority
	if h, p, err := net.SplitHostPort(authority); err == nil {
		if n, err := strconv.Atoi(p); err == nil {
			return h, n
		}
		host = h
		return host, port
	}
	// No port present; still unwrap a bare IPv6 literal.
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}
	return host, port
}
