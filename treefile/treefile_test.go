package treefile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/kowhai/desc"
	"github.com/signadot/kowhai/libdiff"
	"github.com/signadot/kowhai/merge"
	"github.com/signadot/kowhai/symbol"
)

const settingsYAML = `
symbols:
  settings: 1
tree:
  name: settings
  type: branch
  children:
  - name: gain
    type: int16
    count: 2
    value: [-1, 7]
  - name: channel
    type: branch
    count: 2
    children:
    - name: mode
      type: uint8
      value: 3
  - name: variant
    type: union
    tag: 4
    children:
    - {name: a, type: int32}
    - {name: b, type: uint8, count: 3}
values:
  settings:
    channel: [{mode: 4}, {mode: 5}]
`

func loadSettings(t *testing.T) *File {
	t.Helper()
	f, err := Load([]byte(settingsYAML))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestLoad(t *testing.T) {
	f := loadSettings(t)
	want := desc.Descriptor{
		{Type: desc.BranchStart, Symbol: 1, Count: 1},
		{Type: desc.Int16, Symbol: 2, Count: 2},
		{Type: desc.BranchStart, Symbol: 3, Count: 2},
		{Type: desc.Uint8, Symbol: 4, Count: 1},
		{Type: desc.BranchEnd},
		{Type: desc.BranchUnionStart, Symbol: 5, Count: 1, Tag: 4},
		{Type: desc.Int32, Symbol: 6, Count: 1},
		{Type: desc.Uint8, Symbol: 7, Count: 3},
		{Type: desc.BranchEnd},
		{Type: desc.BranchEnd},
	}
	if diff := cmp.Diff(want, f.Tree.Desc); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
	data := []byte{0xff, 0xff, 7, 0, 4, 5, 0, 0, 0, 0}
	if diff := cmp.Diff(data, f.Tree.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	if id, ok := f.Names.Symbol("variant"); !ok || id != 5 {
		t.Errorf("variant = %d, %v", id, ok)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{"bad type", "tree: {name: x, type: int64}", desc.ErrUnsupportedType},
		{"no name", "tree: {type: int8}", desc.ErrInvalidDescriptor},
		{"branch value", "tree: {name: x, type: branch, value: 1}", desc.ErrInvalidDescriptor},
		{"scalar children", "tree: {name: x, type: int8, children: [{name: y, type: int8}]}", desc.ErrInvalidDescriptor},
		{"value overflow", "tree: {name: x, type: uint8, value: 256}", desc.ErrUnsupportedType},
		{"unknown value", "tree: {name: x, type: branch, children: [{name: y, type: int8}]}\nvalues: {x: {z: 1}}", desc.ErrInvalidSymbolPath},
		{"short list", "tree: {name: x, type: int8, count: 2}\nvalues: {x: [1]}", desc.ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			if !errors.Is(err, tt.err) {
				t.Errorf("got %v, want %v", err, tt.err)
			}
		})
	}
}

func TestValues(t *testing.T) {
	f := loadSettings(t)
	got, err := Values(f.Tree, f.Names)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"settings": map[string]any{
			"gain": []any{int64(-1), int64(7)},
			"channel": []any{
				map[string]any{"mode": uint64(4)},
				map[string]any{"mode": uint64(5)},
			},
			"variant": map[string]any{
				"a": int64(0),
				"b": []any{uint64(0), uint64(0), uint64(0)},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValuesRoundTrip(t *testing.T) {
	f := loadSettings(t)
	view, err := Values(f.Tree, f.Names)
	if err != nil {
		t.Fatal(err)
	}
	before := f.Tree.Clone()
	if err := SetValues(f.Tree, f.Names, view); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before.Data, f.Tree.Data); diff != "" {
		t.Errorf("data changed (-before +after):\n%s", diff)
	}
}

func TestPatch(t *testing.T) {
	f := loadSettings(t)
	patch := `[
		{"op": "replace", "path": "/settings/variant/a", "value": 513},
		{"op": "replace", "path": "/settings/gain/1", "value": -300}
	]`
	if err := Patch(f.Tree, f.Names, []byte(patch)); err != nil {
		t.Fatal(err)
	}
	want := []byte{0xff, 0xff, 0xd4, 0xfe, 4, 5, 1, 2, 0, 0}
	if diff := cmp.Diff(want, f.Tree.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchUnionLastAlternative(t *testing.T) {
	f := loadSettings(t)
	patch := `[{"op": "replace", "path": "/settings/variant/b", "value": [9, 8, 7]}]`
	if err := Patch(f.Tree, f.Names, []byte(patch)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{9, 8, 7, 0}, f.Tree.Data[6:]); diff != "" {
		t.Errorf("union bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchAtomic(t *testing.T) {
	f := loadSettings(t)
	before := f.Tree.Clone()
	patch := `[
		{"op": "replace", "path": "/settings/gain/0", "value": 1},
		{"op": "replace", "path": "/settings/channel/0/mode", "value": 1000}
	]`
	if err := Patch(f.Tree, f.Names, []byte(patch)); !errors.Is(err, desc.ErrUnsupportedType) {
		t.Fatalf("got %v, want ErrUnsupportedType", err)
	}
	if diff := cmp.Diff(before.Data, f.Tree.Data); diff != "" {
		t.Errorf("failed patch changed data (-before +after):\n%s", diff)
	}
	if err := Patch(f.Tree, f.Names, []byte(`[{"op": "remove", "path": "/nope"}]`)); err == nil {
		t.Error("patch of a missing path succeeded")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	f := loadSettings(t)
	d, err := f.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	g, err := Load(d)
	if err != nil {
		t.Fatalf("reload %s: %v", d, err)
	}
	if diff := cmp.Diff(f.Tree, g.Tree); diff != "" {
		t.Errorf("tree mismatch after round trip (-want +got):\n%s\n%s", diff, d)
	}
}

func TestFromTreeNumericNames(t *testing.T) {
	d := desc.NewBuilder().Branch(10, 1).Scalar(desc.Float, 20, 1).End().MustDescriptor()
	tr := desc.Tree{Desc: d, Data: []byte{0, 0, 0xc0, 0x3f}}
	f, err := FromTree(tr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Root.Name != "10" || f.Root.Children[0].Name != "20" {
		t.Fatalf("unexpected schema %+v", f.Root)
	}
	out, err := f.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	g, err := Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tr, g.Tree); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

const dstYAML = `
tree:
  name: settings
  type: branch
  children:
  - {name: gain, type: int16, value: 1}
  - {name: mode, type: uint8, value: 2}
`

const srcYAML = `
tree:
  name: settings
  type: branch
  children:
  - {name: extra, type: int16, value: 99}
  - {name: gain, type: int16, value: 5}
  - {name: mode, type: uint8, value: 7}
`

func TestLoadNamesShared(t *testing.T) {
	dst, err := Load([]byte(dstYAML))
	if err != nil {
		t.Fatal(err)
	}
	src, err := LoadNames([]byte(srcYAML), dst.Names)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"settings", "gain", "mode"} {
		d, _ := dst.Names.Symbol(name)
		s, _ := src.Names.Symbol(name)
		if d != s {
			t.Errorf("%s: dst %d, src %d", name, d, s)
		}
	}
	if _, ok := dst.Names.Symbol("extra"); ok {
		t.Error("loading src added extra to the dst table")
	}
	extra, _ := src.Names.Symbol("extra")
	if extra != 4 {
		t.Errorf("extra = %d, want 4", extra)
	}

	changes, err := libdiff.Collect(dst.Tree, src.Tree)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, c := range changes {
		names := dst.Names
		if c.Kind == libdiff.Added {
			names = src.Names
		}
		got = append(got, c.Kind.String()+" "+c.Path().Format(names))
	}
	want := []string{"changed settings.gain", "changed settings.mode", "added settings.extra"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}

	if err := merge.Merge(dst.Tree, src.Tree); err != nil {
		t.Fatal(err)
	}
	vals, err := Values(dst.Tree, dst.Names)
	if err != nil {
		t.Fatal(err)
	}
	wantVals := map[string]any{
		"settings": map[string]any{"gain": int64(5), "mode": uint64(7)},
	}
	if diff := cmp.Diff(wantVals, vals); diff != "" {
		t.Errorf("merged values mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadNamesConflict(t *testing.T) {
	names := symbol.NamesFromMap(map[string]uint16{"settings": 1, "gain": 2})
	tests := []struct {
		name string
		doc  string
	}{
		{"name moved", "symbols: {gain: 9}\n" + dstYAML},
		{"id taken", "symbols: {mode: 2}\n" + dstYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadNames([]byte(tt.doc), names); !errors.Is(err, ErrSymbolConflict) {
				t.Errorf("got %v, want ErrSymbolConflict", err)
			}
		})
	}
	f, err := LoadNames([]byte("symbols: {gain: 2}\n"+dstYAML), names)
	if err != nil {
		t.Fatalf("agreeing symbols: %v", err)
	}
	if id, _ := f.Names.Symbol("mode"); id != 3 {
		t.Errorf("mode = %d, want 3", id)
	}
}
