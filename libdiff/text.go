package libdiff

import (
	"bufio"
	"io"
	"strings"

	"github.com/signadot/kowhai/encode"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// TextDiff computes a line oriented diff of two renditions of a tree, such
// as the output of encode.Serialize on each side.
func TextDiff(from, to string) []diffpatch.Diff {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// WriteTextDiff prints diffs as a unified listing, prefixing inserted lines
// with "+", deleted lines with "-" and the rest with a space.
func WriteTextDiff(w io.Writer, diffs []diffpatch.Diff, colors *encode.Colors) error {
	bw := bufio.NewWriter(w)
	for _, d := range diffs {
		prefix, attr := " ", encode.SepColor
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix, attr = "+", encode.InsertColor
		case diffpatch.DiffDelete:
			prefix, attr = "-", encode.DeleteColor
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			text := prefix + strings.TrimSuffix(line, "\n")
			if d.Type != diffpatch.DiffEqual {
				text = colors.Get(0, attr)(text)
			}
			if _, err := bw.WriteString(text + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
