package main

import (
	"log"

	"github.com/flarebyte/baldrick-casetrail/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; explicit config takes precedence anyway.
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
