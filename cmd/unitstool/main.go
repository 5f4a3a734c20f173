package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mmonline245-max/unitstool/cmd/unitstool/commands"
	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
	"github.com/mmonline245-max/unitstool/internal/version"
)

// Bundles the compiled widget into the starter project written by init.
//
//go:generate go run . widget --source ../.. --public commands/skeleton/public

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("unitstool"),
		kong.Description("Static site generator for the UnitsTool calculator site."),
		kong.UsageOnError(),
		commands.Vars(version.String()),
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, cli)
	os.Exit(derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
}
