package main

import (
	"fmt"
	"os"

	"github.com/de-tools/price-atlas/pkg/runtime/terminal"
	"github.com/de-tools/price-atlas/pkg/services/controlroom"
	"github.com/de-tools/price-atlas/pkg/store/source"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Sources:     source.NewDefaultRegistry(),
		ControlRoom: controlroom.NewService(controlroom.DemoDataset()),
		Output:      os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
