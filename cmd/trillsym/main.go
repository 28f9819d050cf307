// Command trillsym is a small developer tool wrapping the runtime's
// demangler, in the same flag-driven spirit as the loader's own
// build-time CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/trill-lang/trillrt/internal/demangle"
)

func main() {
	var symbol = flag.String("s", "", "mangled symbol to demangle")
	flag.Parse()

	if *symbol == "" {
		for _, arg := range flag.Args() {
			demangleOne(arg)
		}
		if flag.NArg() == 0 {
			fmt.Fprintln(os.Stderr, "usage: trillsym -s <symbol> [symbol ...]")
			os.Exit(2)
		}
		return
	}
	demangleOne(*symbol)
}

func demangleOne(symbol string) {
	readable, err := demangle.Demangle(symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", symbol, err)
		os.Exit(1)
	}
	fmt.Println(readable)
}
