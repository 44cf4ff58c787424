package frame

import (
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder()

	fields := [][2]string{
		{":method", "GET"},
		{":scheme", "https"},
		{":authority", "example.org"},
		{":path", "/index.html"},
		{"accept", "text/html"},
		{"user-agent", "cowboy-test"},
	}

	block, err := enc.Encode(fields)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := dec.Decode(block)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(fields) {
		t.Fatalf("got %d fields, want %d", len(got), len(fields))
	}
	for i := range fields {
		if got[i] != fields[i] {
			t.Errorf("field %d = %v, want %v", i, got[i], fields[i])
		}
	}
}

func TestHeaderDynamicTableAcrossBlocks(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder()

	fields := [][2]string{
		{":method", "GET"},
		{":scheme", "https"},
		{":path", "/"},
		{"x-custom-header", "a rather long value that should enter the dynamic table"},
	}

	first, err := enc.Encode(fields)
	if err != nil {
		t.Fatalf("encode first: %v", err)
	}
	second, err := enc.Encode(fields)
	if err != nil {
		t.Fatalf("encode second: %v", err)
	}
	// The second block references the dynamic table and must be smaller.
	if len(second) >= len(first) {
		t.Errorf("second block (%d bytes) not smaller than first (%d bytes)", len(second), len(first))
	}

	for i, block := range [][]byte{first, second} {
		got, err := dec.Decode(block)
		if err != nil {
			t.Fatalf("decode block %d: %v", i, err)
		}
		if len(got) != len(fields) {
			t.Fatalf("block %d: got %d fields, want %d", i, len(got), len(fields))
		}
		for j := range fields {
			if got[j] != fields[j] {
				t.Errorf("block %d field %d = %v, want %v", i, j, got[j], fields[j])
			}
		}
	}
}

func TestDecodeRepeatedFields(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder()

	fields := [][2]string{
		{":method", "GET"},
		{":scheme", "https"},
		{":path", "/"},
		{"set-cookie", "a=1"},
		{"set-cookie", "b=2"},
	}
	block, err := enc.Encode(fields)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := dec.Decode(block)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Repeated names stay separate fields at the codec layer; joining is
	// the request builder's concern.
	count := 0
	for _, f := range got {
		if f[0] == "set-cookie" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("got %d set-cookie fields, want 2", count)
	}
}

func TestDecodeTruncatedBlock(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder()

	block, err := enc.Encode([][2]string{
		{":method", "GET"},
		{"x-long", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := dec.Decode(block[:len(block)-5]); err == nil {
		t.Errorf("expected error decoding truncated block")
	}
}
