package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"songs-downloader/internal/cli"
)

func main() {
	// Optional .env in the working directory; real environment wins.
	_ = godotenv.Load()

	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
