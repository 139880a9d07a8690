package desc

// Builder assembles a descriptor in preorder.
//
//	d, err := desc.NewBuilder().
//		Branch(1, 1).
//		Scalar(desc.Int16, 2, 3).
//		End().
//		Descriptor()
type Builder struct {
	nodes Descriptor
	open  int
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Branch(symbol, count uint16) *Builder {
	b.open++
	return b.add(Node{Type: BranchStart, Symbol: symbol, Count: count})
}

func (b *Builder) Union(symbol, count uint16) *Builder {
	b.open++
	return b.add(Node{Type: BranchUnionStart, Symbol: symbol, Count: count})
}

func (b *Builder) Scalar(t Type, symbol, count uint16) *Builder {
	return b.add(Node{Type: t, Symbol: symbol, Count: count})
}

func (b *Builder) End() *Builder {
	b.open--
	return b.add(Node{Type: BranchEnd})
}

// Tag sets the tag of the most recently added node.
func (b *Builder) Tag(tag uint16) *Builder {
	if len(b.nodes) > 0 {
		b.nodes[len(b.nodes)-1].Tag = tag
	}
	return b
}

func (b *Builder) add(n Node) *Builder {
	b.nodes = append(b.nodes, n)
	return b
}

// Descriptor closes any open branches and validates the result.
func (b *Builder) Descriptor() (Descriptor, error) {
	for b.open > 0 {
		b.End()
	}
	res := make(Descriptor, len(b.nodes))
	copy(res, b.nodes)
	if err := Validate(res); err != nil {
		return nil, err
	}
	return res, nil
}

// MustDescriptor is Descriptor for static fixtures; it panics on error.
func (b *Builder) MustDescriptor() Descriptor {
	d, err := b.Descriptor()
	if err != nil {
		panic(err)
	}
	return d
}
