package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	a := newApp(os.Stdout)
	err := newRootCmd(a).ExecuteContext(context.Background())
	if cerr := a.close(context.Background()); cerr != nil {
		fmt.Fprintf(os.Stderr, "Failed to close backend: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
