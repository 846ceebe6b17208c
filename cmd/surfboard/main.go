package main

import (
	"fmt"
	"os"

	"github.com/lushwind/surfboard/cmd/surfboard/commands"
	"github.com/lushwind/surfboard/internal/display"
)

func main() {
	if err := commands.Execute(); err != nil {
		// Errors go to stdout alongside the status lines they follow.
		fmt.Println(display.ErrorMsg("%v", err))
		os.Exit(1)
	}
}
