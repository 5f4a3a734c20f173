package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/mmonline245-max/unitstool/internal/widget"
)

// WidgetCmd implements the 'widget' command: it compiles the calculator to
// WebAssembly and installs it with wasm_exec.js into the static assets.
type WidgetCmd struct {
	Source  string `help:"unitstool module checkout to build from" default:"." type:"path"`
	Package string `help:"Import path of the widget command" default:"${widget_package}"`
	Public  string `help:"Static asset directory (overrides paths.public)" type:"path"`
	Go      string `help:"go binary to use" default:"go"`

	toolchain widget.Toolchain `kong:"-"`
	out       io.Writer        `kong:"-"`
}

func (w *WidgetCmd) Run(g *Global, root *CLI) error {
	public := w.Public
	if public == "" {
		cfg, err := root.loadConfig(g)
		if err != nil {
			return err
		}
		public = cfg.Paths.Public
	}

	tc := w.toolchain
	if tc == nil {
		tc = widget.GoToolchain{Path: w.Go}
	}
	ctx, cancel := signalContext()
	defer cancel()

	written, err := widget.Install(ctx, tc, widget.InstallOptions{
		SourceDir: w.Source,
		Package:   w.Package,
		PublicDir: public,
		Logger:    g.Logger,
	})
	if err != nil {
		return err
	}

	out := w.out
	if out == nil {
		out = os.Stdout
	}
	for _, path := range written {
		_, _ = fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return nil
}
