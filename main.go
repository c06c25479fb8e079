package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/example/fogmap/cmd"
)

func main() {
	// A local .env is optional; absence is the normal case.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
