package server

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/symbol"
)

// ErrBadChunk reports a response packet out of sequence or past the end
// of its payload.
var ErrBadChunk = errors.New("bad chunk")

// Op identifies a request and the responses it produces.
type Op uint8

const (
	OpReadDescriptor Op = 0x01
	OpRead           Op = 0x02
	OpWrite          Op = 0x03
	OpSerialize      Op = 0x04
	OpMerge          Op = 0x05
	OpDiff           Op = 0x06
	OpError          Op = 0xff
)

var opNames = map[Op]string{
	OpReadDescriptor: "READ_DESCRIPTOR",
	OpRead:           "READ",
	OpWrite:          "WRITE",
	OpSerialize:      "SERIALIZE",
	OpMerge:          "MERGE",
	OpDiff:           "DIFF",
	OpError:          "ERROR",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("OP(%#02x)", uint8(op))
}

// Request is an already decoded request.
type Request struct {
	Op     Op
	TreeID uint16
	// Path addresses the element of Read and Write.
	Path symbol.Path
	// Value is written by Write, starting at the element Path addresses.
	Value []byte
	// Source is the other tree of Merge and Diff.
	Source desc.Tree
}

// HeaderSize is the encoded size of a Header.
const HeaderSize = 12

// Header starts every response packet. A response whose payload exceeds
// one packet is split; each packet carries the offset of its chunk in the
// whole payload and the payload's total length.
type Header struct {
	Op     Op
	TreeID uint16
	Offset uint32
	Total  uint32
}

// AppendBinary appends the little endian wire form of h.
func (h Header) AppendBinary(dst []byte) ([]byte, error) {
	dst = append(dst, byte(h.Op), 0)
	dst = binary.LittleEndian.AppendUint16(dst, h.TreeID)
	dst = binary.LittleEndian.AppendUint32(dst, h.Offset)
	dst = binary.LittleEndian.AppendUint32(dst, h.Total)
	return dst, nil
}

// ParseHeader splits a response packet into its header and chunk.
func ParseHeader(p []byte) (Header, []byte, error) {
	if len(p) < HeaderSize {
		return Header{}, nil, fmt.Errorf("%w: packet of %d bytes", desc.ErrBufferTooSmall, len(p))
	}
	h := Header{
		Op:     Op(p[0]),
		TreeID: binary.LittleEndian.Uint16(p[2:]),
		Offset: binary.LittleEndian.Uint32(p[4:]),
		Total:  binary.LittleEndian.Uint32(p[8:]),
	}
	return h, p[HeaderSize:], nil
}

// Assembler rebuilds payloads from response packets.
type Assembler struct {
	buf []byte
	n   int
}

// Add consumes one packet and reports whether its payload is complete. The
// payload stays valid until the next call.
func (a *Assembler) Add(p []byte) (Header, []byte, bool, error) {
	h, chunk, err := ParseHeader(p)
	if err != nil {
		return h, nil, false, err
	}
	if h.Offset == 0 {
		a.buf = make([]byte, h.Total)
		a.n = 0
	}
	if int(h.Offset) != a.n || int(h.Offset)+len(chunk) > len(a.buf) {
		return h, nil, false, fmt.Errorf("%w: chunk [%d:%d] of %d after %d", ErrBadChunk,
			h.Offset, int(h.Offset)+len(chunk), h.Total, a.n)
	}
	a.n += copy(a.buf[h.Offset:], chunk)
	if a.n < len(a.buf) {
		return h, nil, false, nil
	}
	return h, a.buf, true, nil
}
