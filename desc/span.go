package desc

import "fmt"

// Span returns the number of data bytes and the number of descriptor
// entries occupied by the subtree rooted at d[i]. For a branch the node
// count includes the closing BranchEnd.
//
// A union contributes its largest child once per array element: Count
// repeats the whole overlapping region back to back.
func Span(d Descriptor, i int) (size, nodes int, err error) {
	return span(d, i, 0)
}

func span(d Descriptor, i, depth int) (int, int, error) {
	if depth > len(d) {
		return 0, 0, fmt.Errorf("%w: nesting deeper than %d nodes", ErrInvalidDescriptor, len(d))
	}
	if i < 0 || i >= len(d) {
		return 0, 0, fmt.Errorf("%w: index %d outside %d nodes", ErrInvalidDescriptor, i, len(d))
	}
	n := d[i]
	if n.Type == BranchEnd {
		return 0, 0, fmt.Errorf("%w: unexpected branch end at %d", ErrInvalidDescriptor, i)
	}
	if n.Count == 0 {
		return 0, 0, fmt.Errorf("%w: zero count at %d", ErrInvalidDescriptor, i)
	}
	layout := n.Type.Layout()
	if layout == NoLayout {
		w, err := TypeWidth(n.Type)
		if err != nil {
			return 0, 0, fmt.Errorf("%w at %d", err, i)
		}
		return w * int(n.Count), 1, nil
	}
	body := 0
	j := i + 1
	for {
		if j >= len(d) {
			return 0, 0, fmt.Errorf("%w: branch at %d has no end", ErrInvalidDescriptor, i)
		}
		if d[j].Type == BranchEnd {
			break
		}
		s, c, err := span(d, j, depth+1)
		if err != nil {
			return 0, 0, err
		}
		if layout == Overlapping {
			body = max(body, s)
		} else {
			body += s
		}
		j += c
	}
	return body * int(n.Count), j - i + 1, nil
}

func Size(d Descriptor, i int) (int, error) {
	s, _, err := Span(d, i)
	return s, err
}

func NodeCount(d Descriptor, i int) (int, error) {
	_, c, err := Span(d, i)
	return c, err
}

// ElementSize is the size of one array element of d[i].
func ElementSize(d Descriptor, i int) (int, error) {
	s, _, err := Span(d, i)
	if err != nil {
		return 0, err
	}
	return s / int(d[i].Count), nil
}

// Size returns the data size of the top level run of d, which is normally
// a single root branch. A BranchEnd at the top level is an error.
func (d Descriptor) Size() (int, error) {
	total := 0
	for i := 0; i < len(d); {
		s, c, err := Span(d, i)
		if err != nil {
			return 0, err
		}
		total += s
		i += c
	}
	return total, nil
}
