// Package cli implements the layermerge command-line interface.
//
// The commands read view tree documents (JSON, YAML, or TOML), flatten them
// through a [pipeline.Runner], and write documents, diagrams, or outlines.
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - flatten: merge nested containers into the root and write the result
//   - check: report whether a tree needs merging and is ready for it
//   - render: draw a tree as DOT, SVG, PNG, or a terminal outline
//   - inspect: browse a tree before and after flattening
//   - serve: run the HTTP API
//   - cache: manage the local result cache
//
// # Configuration
//
// Defaults come from $XDG_CONFIG_HOME/layermerge/config.toml (or --config).
// Flags given on the command line override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so commands and helpers share one logger.
//
// [pipeline.Runner]: github.com/matzehuels/layermerge/pkg/pipeline.Runner
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Timestamps read "15:04:05.00" so the
// short passes of a flatten run stay distinguishable.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one pass and logs it as "Flattened screen.json (12ms)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l so pass helpers log through the command's logger.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
