package main

import (
	"context"
	"fmt"
	"os"

	"taskpilot/internal/cli"
)

func main() {
	if err := cli.RunServer(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
