package main

import (
	"log/slog"
	"os"

	"github.com/Zelus7/fantasy-dvp-builder/cmd/dvpbuilder/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}
