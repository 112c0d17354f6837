//go:build tools

// Package tools pins golang.org/x/tools/cmd/stringer as a build-time
// dependency so `go generate` (see the //go:generate stringer directives in
// vm/chunk.go, vm/scanner.go and vm/rules.go) resolves against the version
// go.mod records, without stringer ever being importable from ordinary build
// output.
package tools

import _ "golang.org/x/tools/cmd/stringer"
