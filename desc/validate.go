package desc

import "fmt"

// Validate checks that d is a well formed descriptor: a single root,
// balanced branches, non zero counts, known kinds and unique sibling
// symbols. An empty branch is valid and occupies no data.
func Validate(d Descriptor) error {
	if len(d) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidDescriptor)
	}
	next, err := validateNode(d, 0, 0)
	if err != nil {
		return err
	}
	if next != len(d) {
		return fmt.Errorf("%w: trailing %s at %d", ErrInvalidDescriptor, d[next], next)
	}
	return nil
}

// validateNode checks d[i] and returns the index following it.
func validateNode(d Descriptor, i, depth int) (int, error) {
	if depth > len(d) {
		return 0, fmt.Errorf("%w: nesting deeper than %d nodes", ErrInvalidDescriptor, len(d))
	}
	n := d[i]
	if n.Type == BranchEnd {
		return 0, fmt.Errorf("%w: unexpected branch end at %d", ErrInvalidDescriptor, i)
	}
	if n.Count == 0 {
		return 0, fmt.Errorf("%w: zero count at %d", ErrInvalidDescriptor, i)
	}
	if !n.Type.IsBranch() {
		if _, err := TypeWidth(n.Type); err != nil {
			return 0, fmt.Errorf("%w: %w at %d", ErrInvalidDescriptor, err, i)
		}
		return i + 1, nil
	}
	seen := map[uint16]int{}
	j := i + 1
	for {
		if j >= len(d) {
			return 0, fmt.Errorf("%w: branch at %d has no end", ErrInvalidDescriptor, i)
		}
		if d[j].Type == BranchEnd {
			break
		}
		if prev, ok := seen[d[j].Symbol]; ok {
			return 0, fmt.Errorf("%w: symbol %d at %d repeats sibling at %d",
				ErrInvalidDescriptor, d[j].Symbol, j, prev)
		}
		seen[d[j].Symbol] = j
		next, err := validateNode(d, j, depth+1)
		if err != nil {
			return 0, err
		}
		j = next
	}
	return j + 1, nil
}
