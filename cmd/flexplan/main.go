package main

import (
	"os"

	"flexPlan/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
