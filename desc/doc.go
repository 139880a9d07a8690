// Package desc provides the descriptor model for kowhai trees.
//
// # Overview
//
// A descriptor is a flat array of [Node] records in preorder. A branch
// node ([BranchStart] or [BranchUnionStart]) is followed by its children and
// closed by a [BranchEnd] sentinel. Array repetition is never unrolled in the
// descriptor: a node with Count N stands for N consecutive values (scalars)
// or N consecutive repetitions of the branch body (branches) in the data
// buffer.
//
// The data buffer holds no framing at all. Its layout is fully determined by
// walking the descriptor:
//
//   - a scalar consumes Count * width bytes,
//   - a sequential branch consumes the concatenation of its children, Count times,
//   - a union branch consumes its largest child, Count times; all children
//     start at the same offset.
//
// The storage rule for a branch kind is read from [Type.Layout] and nowhere
// else.
//
// # Cursors
//
// Traversals carry a [Cursor], a (descriptor index, data offset) pair, by
// value. Callers never share a mutable position between recursive frames.
//
// # Byte order
//
// Multi-byte scalars are little-endian in the data buffer.
//
// # Errors
//
// All packages in this module report failures with the sentinel errors
// defined here, wrapped with context. Use errors.Is to classify them.
package desc
