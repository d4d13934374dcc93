// Command simplecross runs the matching engine against a text action
// file, one input line per row, and writes result lines to stdout.
// With no argument it reads stdin. Durability and transport are off;
// this is the bare core.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"simplecross/service"
)

func main() {
	in := io.Reader(os.Stdin)
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	svc := service.New(service.Deps{})
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		for _, line := range svc.Apply(sc.Text()) {
			fmt.Fprintln(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
