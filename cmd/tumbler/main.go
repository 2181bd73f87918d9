package main

import (
	_ "github.com/joho/godotenv/autoload" // automatically load .env files

	"github.com/ayn2op/tumbler/internal/cmd"
)

func main() {
	cmd.Execute()
}
