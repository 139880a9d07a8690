package main

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/libdiff"
	"github.com/signadot/kowhai/symbol"
	"github.com/signadot/kowhai/treefile"
)

const doc = `
tree:
  name: settings
  type: branch
  children:
  - {name: gain, type: int16, count: 3, value: [-1, 7, 300]}
  - {name: level, type: float, value: 0.5}
`

func load(t *testing.T) *treefile.File {
	t.Helper()
	f, err := treefile.Load([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestGetValue(t *testing.T) {
	f := load(t)
	tests := []struct {
		path  string
		whole bool
		want  string
	}{
		{"settings.gain", false, "-1"},
		{"settings.gain[2]", false, "300"},
		{"settings.gain[1]", true, "[-1, 7, 300]"},
		{"settings.level", false, "0.500000"},
		{"settings", false, "ffff07002c010000003f"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := symbol.Parse(tt.path, f.Names)
			if err != nil {
				t.Fatal(err)
			}
			got, err := getValue(f.Tree, p, tt.whole)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetValue(t *testing.T) {
	f := load(t)
	for _, a := range []string{"settings.gain[1]=-2", "settings.level=2.5", "settings.gain=0x10"} {
		if err := setValue(f, a); err != nil {
			t.Fatalf("%s: %v", a, err)
		}
	}
	want := []byte{0x10, 0, 0xfe, 0xff, 0x2c, 0x01, 0, 0, 0x20, 0x40}
	if diff := cmp.Diff(want, f.Tree.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	for _, bad := range []string{"settings.gain", "settings.gain=70000", "settings.nope=1", "settings.level=x"} {
		if err := setValue(f, bad); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}
}

func TestDiffTrees(t *testing.T) {
	a, b := load(t), load(t)
	if err := setValue(b, "settings.gain[2]=5"); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	cfg := &DiffConfig{MainConfig: &MainConfig{}, Where: `kind == "changed"`}
	differs, err := diffTrees(cfg, &buf, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !differs {
		t.Error("trees reported equal")
	}
	if diff := cmp.Diff("changed  settings.gain[2] 2c01 0500\n", buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	cfg.Where = `kind == "added"`
	buf.Reset()
	if differs, err = diffTrees(cfg, &buf, a, b); err != nil || differs || buf.Len() != 0 {
		t.Errorf("filtered diff: %v, %v, %q", differs, err, buf.String())
	}
}

func TestChangeLine(t *testing.T) {
	c := libdiff.Change{
		Kind: libdiff.Added,
		Right: &libdiff.Side{
			Node: desc.Node{Type: desc.Uint8, Symbol: 4, Count: 1},
			Path: symbol.Path{symbol.New(1, 0), symbol.New(4, 2)},
			Data: []byte{0xab},
		},
	}
	if got := changeLine(c, nil, nil, nil); got != "added    1.4[2] - ab\n" {
		t.Errorf("got %q", got)
	}
	left := symbol.NamesFromMap(map[string]uint16{"settings": 1})
	right := symbol.NamesFromMap(map[string]uint16{"settings": 1, "mode": 4})
	if got := changeLine(c, left, right, nil); got != "added    settings.mode[2] - ab\n" {
		t.Errorf("got %q", got)
	}
}

const reordered = `
tree:
  name: settings
  type: branch
  children:
  - {name: level, type: float, value: 0.5}
  - {name: extra, type: uint8, value: 9}
  - {name: gain, type: int16, count: 3, value: [-1, 7, 5]}
`

func TestDiffTreesSharedNames(t *testing.T) {
	a := load(t)
	b, err := treefile.LoadNames([]byte(reordered), a.Names)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		where string
		want  string
	}{
		{"", "changed  settings.gain[2] 2c01 0500\nadded    settings.extra - 09\n"},
		{`name == "extra"`, "added    settings.extra - 09\n"},
	}
	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := &DiffConfig{MainConfig: &MainConfig{}, Where: tt.where}
			differs, err := diffTrees(cfg, &buf, a, b)
			if err != nil {
				t.Fatal(err)
			}
			if !differs {
				t.Error("trees reported equal")
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
