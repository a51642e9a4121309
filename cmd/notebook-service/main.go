package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/linguanote/linguanote/notebookservice"
)

func main() {
	// Local development convenience; absence of .env is fine.
	_ = godotenv.Load()

	if err := notebookservice.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
