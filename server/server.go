// Package server hosts trees in numbered slots and answers requests
// against them.
//
// Requests arrive decoded; responses leave as packets of at most
// MaxPacketSize bytes, each a Header followed by a chunk of the payload,
// through the Send callback. Failures produce an OpError response carrying
// the error text and are also returned from Handle.
//
// Each slot has its own lock. Read, ReadDescriptor, Serialize and Diff
// share it; Write and Merge hold it exclusively. Merge works on a copy and
// swaps it in, so a failed merge leaves the slot as it was.
package server

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/kowhai/debug"
	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/encode"
	"github.com/signadot/kowhai/libdiff"
	"github.com/signadot/kowhai/locate"
	"github.com/signadot/kowhai/merge"
	"github.com/signadot/kowhai/symbol"
)

var ErrNoSuchTree = errors.New("no such tree")

// Slot is a tree to host. The server owns the tree once added; use
// Server.Tree to read it back.
type Slot struct {
	ID    uint16
	Tree  desc.Tree
	Names *symbol.Names
}

type slot struct {
	mu    sync.RWMutex
	tree  desc.Tree
	names *symbol.Names
}

type Server struct {
	MaxPacketSize int
	Send          func([]byte) error

	mu    sync.RWMutex
	slots map[uint16]*slot
}

func NewServer(maxPacket int, send func([]byte) error, trees ...Slot) (*Server, error) {
	s := &Server{
		MaxPacketSize: maxPacket,
		Send:          send,
		slots:         map[uint16]*slot{},
	}
	for _, t := range trees {
		if err := s.Add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add hosts t, replacing any slot with the same id.
func (s *Server) Add(t Slot) error {
	if err := desc.Validate(t.Tree.Desc); err != nil {
		return fmt.Errorf("tree %d: %w", t.ID, err)
	}
	if err := t.Tree.Check(); err != nil {
		return fmt.Errorf("tree %d: %w", t.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[t.ID] = &slot{tree: t.Tree, names: t.Names}
	return nil
}

// Tree returns a copy of the tree in slot id.
func (s *Server) Tree(id uint16) (desc.Tree, error) {
	sl, err := s.slot(id)
	if err != nil {
		return desc.Tree{}, err
	}
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.tree.Clone(), nil
}

func (s *Server) slot(id uint16) (*slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchTree, id)
	}
	return sl, nil
}

// Handle performs req and sends its response.
func (s *Server) Handle(req Request) error {
	if debug.Server() {
		debug.Logf("server %s tree %d path %s value %v\n", req.Op, req.TreeID, req.Path, req.Value)
	}
	payload, err := s.handle(req)
	if err != nil {
		if debug.Server() {
			debug.Logf("server %s tree %d failed: %v\n", req.Op, req.TreeID, err)
		}
		if serr := s.respond(OpError, req.TreeID, []byte(err.Error())); serr != nil {
			return errors.Join(err, serr)
		}
		return err
	}
	return s.respond(req.Op, req.TreeID, payload)
}

func (s *Server) handle(req Request) ([]byte, error) {
	sl, err := s.slot(req.TreeID)
	if err != nil {
		return nil, err
	}
	switch req.Op {
	case OpReadDescriptor:
		sl.mu.RLock()
		defer sl.mu.RUnlock()
		return sl.tree.Desc.MarshalBinary()
	case OpRead:
		sl.mu.RLock()
		defer sl.mu.RUnlock()
		b, _, err := locate.Element(sl.tree, req.Path)
		if err != nil {
			return nil, err
		}
		return slices.Clone(b), nil
	case OpWrite:
		sl.mu.Lock()
		defer sl.mu.Unlock()
		return nil, write(sl.tree, req.Path, req.Value)
	case OpSerialize:
		sl.mu.RLock()
		defer sl.mu.RUnlock()
		return serialize(sl.tree, sl.names)
	case OpMerge:
		sl.mu.Lock()
		defer sl.mu.Unlock()
		data, err := merge.MergeCopy(sl.tree, req.Source)
		if err != nil {
			return nil, err
		}
		sl.tree.Data = data
		return nil, nil
	case OpDiff:
		sl.mu.RLock()
		defer sl.mu.RUnlock()
		return diff(sl.tree, req.Source, sl.names)
	}
	return nil, fmt.Errorf("unknown op %s", req.Op)
}

// write stores v from the element addressed by path onwards. v may span
// several elements of the node's array but not run past it.
func write(t desc.Tree, path symbol.Path, v []byte) error {
	_, loc, err := locate.Element(t, path)
	if err != nil {
		return err
	}
	arr, aloc, err := locate.Node(t, path)
	if err != nil {
		return err
	}
	avail := aloc.Offset + len(arr) - loc.Offset
	if len(v) > avail {
		return fmt.Errorf("%w: %d bytes to %s, %d available", desc.ErrBufferTooSmall, len(v), path, avail)
	}
	copy(t.Data[loc.Offset:], v)
	return nil
}

func serialize(t desc.Tree, names *symbol.Names) ([]byte, error) {
	n, err := encode.SerializedSize(t, names.Quoted)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	n, err = encode.Serialize(t, names.Quoted, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// diff summarizes changes one per line: kind, path, and the hex bytes of
// each side present.
func diff(t, src desc.Tree, names *symbol.Names) ([]byte, error) {
	var b strings.Builder
	for c, err := range libdiff.Changes(t, src) {
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "%s %s", c.Kind, c.Path().Format(names))
		for _, side := range []*libdiff.Side{c.Left, c.Right} {
			if side != nil {
				fmt.Fprintf(&b, " %x", side.Data)
			} else {
				b.WriteString(" -")
			}
		}
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

func (s *Server) respond(op Op, id uint16, payload []byte) error {
	room := s.MaxPacketSize - HeaderSize
	if room <= 0 && len(payload) > 0 {
		return fmt.Errorf("%w: packets of %d bytes cannot carry a payload", desc.ErrBufferTooSmall, s.MaxPacketSize)
	}
	if room < 0 {
		return fmt.Errorf("%w: packets of %d bytes cannot carry a header", desc.ErrBufferTooSmall, s.MaxPacketSize)
	}
	off := 0
	for {
		n := min(room, len(payload)-off)
		h := Header{Op: op, TreeID: id, Offset: uint32(off), Total: uint32(len(payload))}
		p, _ := h.AppendBinary(make([]byte, 0, HeaderSize+n))
		p = append(p, payload[off:off+n]...)
		if err := s.Send(p); err != nil {
			return err
		}
		off += n
		if off >= len(payload) {
			return nil
		}
	}
}
