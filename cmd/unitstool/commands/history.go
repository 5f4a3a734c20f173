package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mmonline245-max/unitstool/internal/eventstore"
	derrors "github.com/mmonline245-max/unitstool/internal/foundation/errors"
)

// HistoryCmd prints recent builds.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of builds to show" default:"10"`

	out io.Writer `kong:"-"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled() {
		return derrors.ConfigError("build history is disabled (set history.path)").Build()
	}
	if h.Limit < 1 {
		return derrors.ValidationError("-n must be at least 1").WithContext("n", h.Limit).Build()
	}

	ctx, cancel := signalContext()
	defer cancel()

	log, err := eventstore.OpenBuildLog(ctx, cfg.History.Path, 0)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	out := h.out
	if out == nil {
		out = os.Stdout
	}
	return writeHistory(out, log.History(h.Limit))
}

func writeHistory(w io.Writer, builds []eventstore.BuildSummary) error {
	if len(builds) == 0 {
		_, err := fmt.Fprintln(w, "No builds recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tTRIGGER\tSTATUS\tDURATION\tPAGES\tDETAIL")
	for _, b := range builds {
		pages := "-"
		if b.Counts != nil {
			pages = fmt.Sprint(b.Counts.Pages)
		}
		detail := ""
		if b.ErrorStage != "" {
			detail = b.ErrorStage + ": " + b.Error
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(b.BuildID),
			b.StartedAt.Local().Format(time.DateTime),
			b.Trigger,
			b.Status,
			b.Duration.Round(time.Millisecond),
			pages,
			detail)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
