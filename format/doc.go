// Package format names the output renditions of a tree: the indented
// pseudo-JSON text form, strict JSON, and YAML.
package format
