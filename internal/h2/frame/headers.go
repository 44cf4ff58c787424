package frame

import (
	"bytes"
	"fmt"

	"golang.org/x/net/http2/hpack"
)

// Encoder encodes header field lists with a per-connection HPACK dynamic
// table. One instance per connection direction; the connection serializes
// access.
type Encoder struct {
	encoder *hpack.Encoder
	buf     *bytes.Buffer
}

// NewEncoder creates an HPACK encoder with the default 4KB dynamic table.
func NewEncoder() *Encoder {
	buf := new(bytes.Buffer)
	return &Encoder{
		encoder: hpack.NewEncoder(buf),
		buf:     buf,
	}
}

// Encode encodes the field list in order and returns a copy of the header
// block. Field order matters: pseudo-headers must already be first.
func (e *Encoder) Encode(fields [][2]string) ([]byte, error) {
	e.buf.Reset()
	for _, f := range fields {
		if err := e.encoder.WriteField(hpack.HeaderField{Name: f[0], Value: f[1]}); err != nil {
			return nil, err
		}
	}
	block := make([]byte, e.buf.Len())
	copy(block, e.buf.Bytes())
	return block, nil
}

// Decoder decodes header blocks with a per-connection HPACK dynamic table.
type Decoder struct {
	decoder *hpack.Decoder
	fields  [][2]string
}

// NewDecoder creates an HPACK decoder with the default 4KB dynamic table.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.decoder = hpack.NewDecoder(4096, func(hf hpack.HeaderField) {
		d.fields = append(d.fields, [2]string{hf.Name, hf.Value})
	})
	return d
}

// Decode decodes a complete header block into a field list. The block must
// be fully reassembled first; a truncated block is a decode error so that
// the engine treats it as COMPRESSION_ERROR.
func (d *Decoder) Decode(block []byte) ([][2]string, error) {
	d.fields = nil
	if _, err := d.decoder.Write(block); err != nil {
		return nil, fmt.Errorf("hpack decode: %w", err)
	}
	if err := d.decoder.Close(); err != nil {
		return nil, fmt.Errorf("hpack finalize: %w", err)
	}
	fields := d.fields
	d.fields = nil
	return fields, nil
}
