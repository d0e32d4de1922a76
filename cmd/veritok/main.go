package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/veritok/veritok/internal/cli"
)

func main() {
	// Optional .env in the working directory; environment wins
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
