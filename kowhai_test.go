package kowhai

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/libdiff"
	"github.com/signadot/kowhai/symbol"
)

// root
//
//	gain     int16[2]
//	channel  branch[2] { mode uint8 }
func fixture(data ...byte) Tree {
	d := desc.NewBuilder().
		Branch(1, 1).
		Scalar(desc.Int16, 2, 2).
		Branch(3, 2).
		Scalar(desc.Uint8, 4, 1).
		End().
		End().
		MustDescriptor()
	return Tree{Desc: d, Data: data}
}

func TestGetSetPathOf(t *testing.T) {
	tr := fixture(0, 0, 0, 0, 0, 0)
	p := Path{symbol.New(1, 0), symbol.New(3, 1), symbol.New(4, 0)}
	if err := Set(tr, p, []byte{9}); err != nil {
		t.Fatal(err)
	}
	got, err := Get(tr, p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{9}, got); diff != "" {
		t.Errorf("element mismatch (-want +got):\n%s", diff)
	}
	back, err := PathOf(tr, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(p) {
		t.Errorf("PathOf(5) = %s, want %s", back, p)
	}
	if err := Set(tr, p, []byte{1, 2}); !errors.Is(err, desc.ErrBufferTooSmall) {
		t.Errorf("got %v, want ErrBufferTooSmall", err)
	}
}

func TestNodePath(t *testing.T) {
	tr := fixture()
	got, err := NodePath(tr.Desc, 3)
	if err != nil {
		t.Fatal(err)
	}
	if s := got.String(); s != "1.3.4" {
		t.Errorf("NodePath(3) = %s, want 1.3.4", s)
	}
	if size, err := Size(tr.Desc); err != nil || size != 6 {
		t.Errorf("Size = %d, %v; want 6", size, err)
	}
}

func TestDiffMerge(t *testing.T) {
	dst := fixture(1, 0, 2, 0, 3, 4)
	src := fixture(1, 0, 5, 0, 3, 6)
	changes, err := Diff(dst, src)
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, c := range changes {
		if c.Kind != libdiff.Changed {
			t.Errorf("unexpected %s at %s", c.Kind, c.Path())
		}
		paths = append(paths, c.Path().String())
	}
	if diff := cmp.Diff([]string{"1.2[1]", "1.3[1].4"}, paths); diff != "" {
		t.Errorf("changed paths mismatch (-want +got):\n%s", diff)
	}
	if err := Merge(dst, src); err != nil {
		t.Fatal(err)
	}
	if changes, err = Diff(dst, src); err != nil || len(changes) != 0 {
		t.Errorf("after merge: %v, %v", changes, err)
	}
}

func TestSerialize(t *testing.T) {
	names := symbol.NamesFromMap(map[string]uint16{"root": 1, "gain": 2, "channel": 3, "mode": 4})
	text, err := Serialize(fixture(0xff, 0xff, 7, 0, 1, 2), names)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`{"name": "root", "type": 64, "symbol": 1, "count": 1, "tag": 0, "children": [`,
		`"value": [-1, 7] }`,
		`"name": "mode", "type": 115, "symbol": 4, "count": 1, "tag": 0, "value": 2 }`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in\n%s", want, text)
		}
	}
	if strings.Count(text, `"name": "mode"`) != 2 {
		t.Errorf("want one mode record per channel element:\n%s", text)
	}
}
