package main

import (
	"github.com/joho/godotenv"

	"github.com/jpmoralesv/finanzas-cli/internal/cli"
)

func main() {
	// A local .env feeds FINZ_* variables into viper's AutomaticEnv.
	_ = godotenv.Load()

	cli.Execute()
}
