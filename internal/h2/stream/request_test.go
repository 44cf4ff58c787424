package stream

import (
	"testing"

	"golang.org/x/net/http2"
)

func baseFields(extra ...[2]string) [][2]string {
	fields := [][2]string{
		{":method", "GET"},
		{":scheme", "https"},
		{":authority", "example.org"},
		{":path", "/"},
	}
	return append(fields, extra...)
}

func TestNewRequestBasic(t *testing.T) {
	req, err := NewRequest(nil, nil, 1, baseFields(), true)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.Method != "GET" {
		t.Errorf("Method = %q, want GET", req.Method)
	}
	if req.Scheme != "https" {
		t.Errorf("Scheme = %q, want https", req.Scheme)
	}
	if req.Host != "example.org" || req.Port != 443 {
		t.Errorf("Host:Port = %s:%d, want example.org:443", req.Host, req.Port)
	}
	if req.Path != "/" || req.Qs != "" {
		t.Errorf("Path = %q Qs = %q", req.Path, req.Qs)
	}
	if req.HasBody {
		t.Errorf("HasBody = true for END_STREAM request")
	}
	if req.BodyLength != 0 {
		t.Errorf("BodyLength = %d, want 0", req.BodyLength)
	}
	if req.Version != "HTTP/2" {
		t.Errorf("Version = %q", req.Version)
	}
}

func TestNewRequestAuthorityParsing(t *testing.T) {
	cases := []struct {
		scheme    string
		authority string
		host      string
		port      int
	}{
		{"https", "example.org", "example.org", 443},
		{"http", "example.org", "example.org", 80},
		{"https", "example.org:8443", "example.org", 8443},
		{"http", "localhost:3000", "localhost", 3000},
		{"https", "[::1]:8443", "::1", 8443},
		{"https", "[::1]", "::1", 443},
	}
	for _, tc := range cases {
		fields := [][2]string{
			{":method", "GET"},
			{":scheme", tc.scheme},
			{":authority", tc.authority},
			{":path", "/"},
		}
		req, err := NewRequest(nil, nil, 1, fields, true)
		if err != nil {
			t.Errorf("%s %s: %v", tc.scheme, tc.authority, err)
			continue
		}
		if req.Host != tc.host || req.Port != tc.port {
			t.Errorf("%s %s: got %s:%d, want %s:%d",
				tc.scheme, tc.authority, req.Host, req.Port, tc.host, tc.port)
		}
	}
}

func TestNewRequestPathQuery(t *testing.T) {
	fields := [][2]string{
		{":method", "GET"},
		{":scheme", "https"},
		{":authority", "example.org"},
		{":path", "/search?q=cowboy&page=2"},
	}
	req, err := NewRequest(nil, nil, 1, fields, true)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.Path != "/search" {
		t.Errorf("Path = %q, want /search", req.Path)
	}
	if req.Qs != "q=cowboy&page=2" {
		t.Errorf("Qs = %q", req.Qs)
	}
}

func TestNewRequestBodyLength(t *testing.T) {
	// content-length parses into the declared body length.
	req, err := NewRequest(nil, nil, 1, baseFields([2]string{"content-length", "42"}), false)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if !req.HasBody {
		t.Errorf("HasBody = false without END_STREAM")
	}
	if req.BodyLength != 42 {
		t.Errorf("BodyLength = %d, want 42", req.BodyLength)
	}

	// Absent content-length means unknown.
	req, err = NewRequest(nil, nil, 1, baseFields(), false)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.BodyLength != BodyLengthUnknown {
		t.Errorf("BodyLength = %d, want unknown", req.BodyLength)
	}

	// Unparseable content-length is a protocol stream error.
	_, err = NewRequest(nil, nil, 1, baseFields([2]string{"content-length", "banana"}), false)
	se, ok := err.(*StreamErr)
	if !ok {
		t.Fatalf("expected *StreamErr, got %v", err)
	}
	if se.Code != http2.ErrCodeProtocol {
		t.Errorf("Code = %v, want PROTOCOL_ERROR", se.Code)
	}
	if se.StreamID != 1 {
		t.Errorf("StreamID = %d, want 1", se.StreamID)
	}
}

func TestNewRequestHeaderJoining(t *testing.T) {
	fields := baseFields(
		[2]string{"accept", "text/html"},
		[2]string{"accept", "application/json"},
		[2]string{"cookie", "a=1"},
		[2]string{"cookie", "b=2"},
		[2]string{"cookie", "c=3"},
	)
	req, err := NewRequest(nil, nil, 1, fields, true)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if got := req.Headers["accept"]; got != "text/html, application/json" {
		t.Errorf("accept = %q, want comma join", got)
	}
	if got := req.Headers["cookie"]; got != "a=1; b=2; c=3" {
		t.Errorf("cookie = %q, want semicolon join", got)
	}
	if _, ok := req.Headers[":method"]; ok {
		t.Errorf("pseudo-headers must be stripped from Headers")
	}
}

func TestNewRequestValidation(t *testing.T) {
	cases := []struct {
		name   string
		fields [][2]string
	}{
		{"missing method", [][2]string{{":scheme", "https"}, {":path", "/"}}},
		{"missing scheme", [][2]string{{":method", "GET"}, {":path", "/"}}},
		{"missing path", [][2]string{{":method", "GET"}, {":scheme", "https"}}},
		{"empty path", [][2]string{{":method", "GET"}, {":scheme", "https"}, {":path", ""}}},
		{"uppercase name", baseFields([2]string{"Accept", "text/html"})},
		{"pseudo after regular", [][2]string{{":method", "GET"}, {"accept", "*"}, {":scheme", "https"}, {":path", "/"}}},
		{"duplicate pseudo", [][2]string{{":method", "GET"}, {":method", "POST"}, {":scheme", "https"}, {":path", "/"}}},
		{"unknown pseudo", baseFields([2]string{":proto", "h2"})},
		{"connection header", baseFields([2]string{"connection", "close"})},
		{"bad te", baseFields([2]string{"te", "gzip"})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRequest(nil, nil, 1, tc.fields, true)
			se, ok := err.(*StreamErr)
			if !ok {
				t.Fatalf("expected *StreamErr, got %v", err)
			}
			if se.Code != http2.ErrCodeProtocol {
				t.Errorf("Code = %v, want PROTOCOL_ERROR", se.Code)
			}
		})
	}
}
