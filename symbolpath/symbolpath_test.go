package symbolpath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/locate"
	"github.com/signadot/kowhai/symbol"
)

func sequential() desc.Descriptor {
	return desc.NewBuilder().
		Branch(1, 1).
		Scalar(desc.Int16, 2, 2).
		Branch(3, 3).
		Scalar(desc.Uint8, 4, 1).
		Branch(5, 2).
		Scalar(desc.Float, 6, 1).
		Scalar(desc.Int8, 7, 2).
		End().
		End().
		Scalar(desc.Uint32, 8, 1).
		End().
		MustDescriptor()
}

func withUnion() desc.Descriptor {
	return desc.NewBuilder().
		Branch(1, 1).
		Scalar(desc.Uint8, 2, 1).
		Union(3, 2).
		Scalar(desc.Uint8, 4, 1).
		Scalar(desc.Int32, 5, 1).
		End().
		Scalar(desc.Uint16, 6, 1).
		End().
		MustDescriptor()
}

func TestNodePath(t *testing.T) {
	d := sequential()
	tests := []struct {
		node int
		want symbol.Path
	}{
		{0, symbol.Path{{Name: 1}}},
		{1, symbol.Path{{Name: 1}, {Name: 2}}},
		{4, symbol.Path{{Name: 1}, {Name: 3}, {Name: 5}}},
		{6, symbol.Path{{Name: 1}, {Name: 3}, {Name: 5}, {Name: 7}}},
		{9, symbol.Path{{Name: 1}, {Name: 8}}},
	}
	for _, tt := range tests {
		got, err := NodePath(d, tt.node)
		if err != nil {
			t.Fatalf("node %d: %v", tt.node, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("node %d (-want +got):\n%s", tt.node, diff)
		}
	}
}

func TestFromNodeTooSmall(t *testing.T) {
	d := sequential()
	out := make(symbol.Path, 3)
	if _, err := FromNode(d, 6, out); !errors.Is(err, desc.ErrBufferTooSmall) {
		t.Errorf("depth 4 into 3: got %v", err)
	}
	n, err := FromNode(d, 4, out)
	if err != nil || n != 3 {
		t.Errorf("depth 3 into 3: got %d, %v", n, err)
	}
	if _, err := FromNode(d, 7, out); !errors.Is(err, desc.ErrNotFound) {
		t.Errorf("branch end: got %v", err)
	}
}

// every element's address maps back to the path used to locate it
func TestAddressInvertsLocation(t *testing.T) {
	d := sequential()
	tree, err := desc.NewTree(d)
	if err != nil {
		t.Fatal(err)
	}
	var paths []symbol.Path
	for i := range 2 {
		paths = append(paths, symbol.Path{{Name: 1}, {Name: 2, Index: uint16(i)}})
	}
	for i := range 3 {
		paths = append(paths, symbol.Path{{Name: 1}, {Name: 3, Index: uint16(i)}, {Name: 4}})
		for j := range 2 {
			paths = append(paths, symbol.Path{{Name: 1}, {Name: 3, Index: uint16(i)}, {Name: 5, Index: uint16(j)}, {Name: 6}})
			for k := range 2 {
				paths = append(paths, symbol.Path{{Name: 1}, {Name: 3, Index: uint16(i)}, {Name: 5, Index: uint16(j)}, {Name: 7, Index: uint16(k)}})
			}
		}
	}
	paths = append(paths, symbol.Path{{Name: 1}, {Name: 8}})
	covered := 0
	for _, p := range paths {
		loc, err := locate.Resolve(d, p)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		for b := range loc.Size {
			got, err := AddressPath(tree, loc.Offset+b)
			if err != nil {
				t.Fatalf("%s+%d: %v", p, b, err)
			}
			if !got.Equal(p) {
				t.Errorf("address %d: got %s, want %s", loc.Offset+b, got, p)
			}
			covered++
		}
	}
	if covered != len(tree.Data) {
		t.Errorf("covered %d of %d bytes", covered, len(tree.Data))
	}
}

func TestAddressUnion(t *testing.T) {
	tree, err := desc.NewTree(withUnion())
	if err != nil {
		t.Fatal(err)
	}
	// 0 a, 1..9 union[2] of 4 bytes, 9..11 c
	tests := []struct {
		addr int
		want symbol.Path
	}{
		{0, symbol.Path{{Name: 1}, {Name: 2}}},
		{1, symbol.Path{{Name: 1}, {Name: 3}, {Name: 4}}},
		{2, symbol.Path{{Name: 1}, {Name: 3}, {Name: 5}}},
		{4, symbol.Path{{Name: 1}, {Name: 3}, {Name: 5}}},
		{5, symbol.Path{{Name: 1}, {Name: 3, Index: 1}, {Name: 4}}},
		{8, symbol.Path{{Name: 1}, {Name: 3, Index: 1}, {Name: 5}}},
		{9, symbol.Path{{Name: 1}, {Name: 6}}},
		{10, symbol.Path{{Name: 1}, {Name: 6}}},
	}
	for _, tt := range tests {
		got, err := AddressPath(tree, tt.addr)
		if err != nil {
			t.Fatalf("address %d: %v", tt.addr, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("address %d (-want +got):\n%s", tt.addr, diff)
		}
	}
}

func TestAddressErrors(t *testing.T) {
	tree, err := desc.NewTree(sequential())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := AddressPath(tree, len(tree.Data)); !errors.Is(err, desc.ErrNotFound) {
		t.Errorf("past end: got %v", err)
	}
	if _, err := AddressPath(tree, -1); !errors.Is(err, desc.ErrNotFound) {
		t.Errorf("negative: got %v", err)
	}
	// deepest element needs 4 segments
	loc, err := locate.Resolve(tree.Desc, symbol.Path{{Name: 1}, {Name: 3}, {Name: 5}, {Name: 7}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FromAddress(tree, loc.Offset, make(symbol.Path, 3)); !errors.Is(err, desc.ErrBufferTooSmall) {
		t.Errorf("short output: got %v", err)
	}
}
