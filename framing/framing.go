// Package framing implements the RFC 5734 EPP transport framing: converting
// XML payloads to and from length-prefixed data units on a TLS byte stream.
//
// # Data Unit Structure
//
// Each unit on the wire has the following structure:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  Total Length (4 bytes) - includes these 4 bytes        │
//	├─────────────────────────────────────────────────────────┤
//	│  EPP XML Instance (variable) - UTF-8 XML document       │
//	└─────────────────────────────────────────────────────────┘
//
// # Byte Order (Endianness)
//
// The Total Length field uses BIG-ENDIAN (network byte order), as specified
// in RFC 5734 Section 4:
//
//	"The total length value MUST be transmitted in network (big endian)
//	 byte order."
//
// Note that the length covers the header itself: a unit carrying N payload
// bytes has Total Length N+4, and a header of 4 denotes an empty payload.
//
// # Usage
//
// To frame an outgoing message:
//
//	wire := framing.Encode(xmlBytes)
//
// To recover messages from an incoming stream, feed raw reads to a Decoder;
// the decoder buffers partial units across reads for the life of the
// connection:
//
//	dec := framing.NewDecoder()
//	for {
//	    n, _ := conn.Read(buf)
//	    payloads, err := dec.Feed(buf[:n])
//	    for _, p := range payloads {
//	        // p is one complete XML document
//	    }
//	}
//
// # Reference
//
// RFC 5734 Section 4: https://www.rfc-editor.org/rfc/rfc5734#section-4
package framing

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// HeaderSize is the length-header size in bytes.
const HeaderSize = 4

// ErrInvalidLength is returned when a unit header declares a total length
// smaller than the header itself. The stream cannot be resynchronized after
// this; the connection should be torn down.
var ErrInvalidLength = errors.New("framing: total length smaller than header")

// Encode frames a payload for transmission by prepending the 4-byte
// big-endian total length (payload length plus the header itself).
// This layer enforces no upper bound; registry-side limits are the
// caller's concern.
func Encode(payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf[0:HeaderSize], uint32(HeaderSize+len(payload))) // #nosec G115 -- EPP documents are nowhere near 4 GiB
	copy(buf[HeaderSize:], payload)
	return buf
}

// Decoder reassembles framed units from a byte stream. A single unit may
// arrive split across arbitrarily many reads, and a single read may carry
// several complete units plus the head of the next one; the decoder's
// internal buffer persists across Feed calls to handle both.
//
// Decoder is not safe for concurrent use; the connection's read loop is its
// only caller.
type Decoder struct {
	buf []byte
}

// NewDecoder returns a Decoder with an empty receive buffer.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends chunk to the receive buffer and extracts every complete unit
// now available, in arrival order. Payloads are returned with trailing NUL
// bytes and surrounding whitespace trimmed; units whose payload is empty
// after trimming are consumed silently rather than returned. Partial units
// stay buffered for the next Feed.
func (d *Decoder) Feed(chunk []byte) ([][]byte, error) {
	d.buf = append(d.buf, chunk...)

	var payloads [][]byte
	for len(d.buf) >= HeaderSize {
		total := int(binary.BigEndian.Uint32(d.buf[0:HeaderSize]))
		if total < HeaderSize {
			return payloads, ErrInvalidLength
		}
		if len(d.buf) < total {
			break
		}

		payload := trimPayload(d.buf[HeaderSize:total])
		d.buf = d.buf[total:]

		if len(payload) > 0 {
			payloads = append(payloads, payload)
		}
	}

	if len(d.buf) == 0 {
		// Drop the reference so consumed frames can be collected instead of
		// pinning the backing array.
		d.buf = nil
	}
	return payloads, nil
}

// Buffered reports the number of bytes waiting for the rest of a unit.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Reset discards any partially received unit. Called when a connection is
// (re)established so stale bytes from a previous session cannot leak into
// the new one.
func (d *Decoder) Reset() {
	d.buf = nil
}

// trimPayload strips trailing NUL padding and surrounding whitespace, copying
// the result out of the receive buffer so it stays valid after the buffer is
// resliced.
func trimPayload(raw []byte) []byte {
	trimmed := bytes.TrimSpace(bytes.TrimRight(raw, "\x00"))
	if len(trimmed) == 0 {
		return nil
	}
	out := make([]byte, len(trimmed))
	copy(out, trimmed)
	return out
}
