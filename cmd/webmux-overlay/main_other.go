//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "webmux-overlay runs in the browser; build it with: GOOS=js GOARCH=wasm go build ./cmd/webmux-overlay")
	fmt.Fprintln(os.Stderr, "or let `webmux build` do it for you")
	os.Exit(2)
}
