package main

import (
	"fmt"
	"os"

	"github.com/hal/ghfolio/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env in the working directory; absence is fine.
	_ = godotenv.Load()

	if err := cmd.New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
