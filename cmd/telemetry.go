// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/oklog/ulid/v2"
	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/linecrunch/config"
)

var (
	meter = otel.Meter("github.com/cardinalhq/linecrunch")

	commandRunsCounter   metric.Int64Counter
	commandFailedCounter metric.Int64Counter
)

func init() {
	var err error
	commandRunsCounter, err = meter.Int64Counter(
		"linecrunch.command.runs",
		metric.WithDescription("Number of commands started"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create command.runs counter: %w", err))
	}

	commandFailedCounter, err = meter.Int64Counter(
		"linecrunch.command.failed",
		metric.WithDescription("Number of commands that ended with an error"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create command.failed counter: %w", err))
	}
}

// setupLogging installs the default logger for one command run. Text goes
// to stderr; when a diagnostics file is configured every record is also
// appended to it as JSON. The returned function closes that file.
func setupLogging(cfg *config.Config, stderr io.Writer, command string) (ulid.ULID, func() error, error) {
	runID := ulid.Make()

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Debug || os.Getenv("DEBUG") != "" {
		opts.Level = slog.LevelDebug
	}

	handlers := []slog.Handler{slog.NewTextHandler(stderr, opts)}
	closer := func() error { return nil }
	if cfg.DiagnosticsFile != "" {
		f, err := os.OpenFile(cfg.DiagnosticsFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return runID, closer, fmt.Errorf("failed to open diagnostics file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closer = f.Close
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)).With(
		slog.String("run", runID.String()),
		slog.String("command", command),
	))
	return runID, closer, nil
}
