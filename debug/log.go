package debug

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/signadot/kowhai/desc"
)

// Logf writes a trace line to stderr. Node descriptors and byte slices
// are rendered in a readable form.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case desc.Node:
			args[i] = x.String()
		case []byte:
			args[i] = hex.EncodeToString(x)
		default:
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
