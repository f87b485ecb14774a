package main

import (
	"context"
	"os"

	"github.com/cargaona/dmx/cmd/dmx/commands"
)

func main() {
	if err := commands.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
