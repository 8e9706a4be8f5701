package main

import (
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/godilite/feedback-insights/internal/cmd"
)

func main() {
	_ = godotenv.Load(".env")
	cmd.Execute()
}
