package main

import (
	"os"

	"github.com/PetitePluie-255/FetchX/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
