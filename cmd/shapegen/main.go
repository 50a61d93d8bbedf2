package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/shapegen/cmd/shapegen/commands"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		if hint := errors.FlattenHints(err); hint != "" {
			pterm.Info.WithWriter(os.Stderr).Println(hint)
		}
		os.Exit(1)
	}
}
