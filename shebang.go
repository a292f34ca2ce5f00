package main

import (
	"os"
	"strings"
)

// readSource reads path and strips a leading shebang line if present.
// File reading and shebang stripping are explicitly out-of-scope
// collaborators (spec.md §1); this is the thinnest version that still
// lets the driver hand clean source text to the Lexer.
func readSource(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return stripShebang(string(raw)), nil
}

// stripShebang removes a leading "#!…\n" line, if any.
func stripShebang(src string) string {
	if !strings.HasPrefix(src, "#!") {
		return src
	}
	if idx := strings.IndexByte(src, '\n'); idx >= 0 {
		return src[idx+1:]
	}
	return ""
}
