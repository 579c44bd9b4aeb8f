package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layermerge/pkg/merge"
	"github.com/matzehuels/layermerge/pkg/pipeline"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"merge stats hidden at info", LogInfo, func(l *log.Logger) { l.Debug("merge stats", "leaves", 2) }, false},
		{"merge stats shown with --verbose", LogDebug, func(l *log.Logger) { l.Debug("merge stats", "leaves", 2) }, true},
		{"not-ready warning at info", LogInfo, func(l *log.Logger) { l.Warn("Tree not ready") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressFlattenedLine(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	time.Sleep(10 * time.Millisecond)
	prog.done("Flattened screen.json")

	line := strings.TrimSpace(buf.String())
	if !regexp.MustCompile(`Flattened screen\.json \(\d+ms\)$`).MatchString(line) {
		t.Errorf("progress line = %q, want \"Flattened screen.json (<n>ms)\"", line)
	}
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("progress line = %q, want a HH:MM:SS.ms timestamp", line)
	}
}

func TestFlattenLogsProgress(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "screen.json")
	if err := os.WriteFile(in, []byte(nestedDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetArgs([]string{"flatten", in, "-o", filepath.Join(dir, "flat.json"), "--no-cache"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if !strings.Contains(logs.String(), "Flattened "+in+" (") {
		t.Errorf("logs = %q, want the Flattened progress line", logs.String())
	}
}

func TestLogResult(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		res   pipeline.Result
		want  string
	}{
		{
			name:  "merged",
			level: LogDebug,
			res:   pipeline.Result{Merged: true, Attempted: true, Report: pipeline.Report{NeedMerge: true}, Merge: merge.Stats{Leaves: 2, Placeholders: 1}},
			want:  "merge stats",
		},
		{
			name:  "already flat",
			level: LogInfo,
			res:   pipeline.Result{Report: pipeline.Report{NeedMerge: false, Ready: true}},
			want:  "Tree is already flat",
		},
		{
			name:  "not ready",
			level: LogInfo,
			res:   pipeline.Result{Report: pipeline.Report{NeedMerge: true, NotReady: 3, Threshold: 3}},
			want:  "Tree not ready: 3 unready nodes reached the threshold of 3",
		},
		{
			name:  "stopped at threshold",
			level: LogInfo,
			res:   pipeline.Result{Attempted: true, Report: pipeline.Report{NeedMerge: true, Ready: true}, Merge: merge.Stats{Reinserted: 2, Skipped: 1}},
			want:  "2 nodes reattached, 1 left out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := withLogger(context.Background(), newLogger(&buf, tt.level))
			logResult(ctx, &tt.res)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, LogInfo)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("Flattened screen.json")
	if !strings.Contains(buf.String(), "Flattened screen.json") {
		t.Error("attached logger should write to its buffer")
	}
}
