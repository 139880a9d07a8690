// Package debug turns on trace output from environment variables.
//
// Each flag is read once at init:
//
//	KOW_DEBUG_DIFF     tree differ
//	KOW_DEBUG_MERGE    tree merger
//	KOW_DEBUG_LOCATE   node locator
//	KOW_DEBUG_PATH     symbol path builder
//	KOW_DEBUG_SERVER   tree slot server
package debug

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

type debug struct {
	Diff   bool
	Merge  bool
	Locate bool
	Path   bool
	Server bool
}

var d *debug

func init() {
	d = &debug{}
	d.Diff = boolEnv("KOW_DEBUG_DIFF")
	d.Merge = boolEnv("KOW_DEBUG_MERGE")
	d.Locate = boolEnv("KOW_DEBUG_LOCATE")
	d.Path = boolEnv("KOW_DEBUG_PATH")
	d.Server = boolEnv("KOW_DEBUG_SERVER")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	return d.Diff
}
func Merge() bool {
	return d.Merge
}
func Locate() bool {
	return d.Locate
}
func Path() bool {
	return d.Path
}
func Server() bool {
	return d.Server
}

// Indent returns depth tabs, for nesting trace lines by tree depth.
func Indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("\t", depth)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(append(d, '\n'))
}
