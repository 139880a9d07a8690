// Package encode renders trees as text.
//
// The text form is one record per node, indented with a tab per level:
//
//	{"name": "root", "type": 64, "symbol": 1, "count": 1, "tag": 0, "children": [
//		{"name": "gain", "type": 113, "symbol": 2, "count": 2, "tag": 0, "value": [-1, 7] }
//	]}
//
// Serialize writes it into a caller supplied buffer and fails cleanly when
// the buffer is too small. Encode writes it, or the structured Record form
// as JSON or YAML, to an io.Writer.
package encode
