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

package processing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/linecrunch/internal/filereader"
	"github.com/cardinalhq/linecrunch/internal/record"
)

// Result summarizes a driver run.
type Result struct {
	Read    int64
	Skipped int64
	Stopped bool
}

// Run pulls every record from r into p and completes p. Records that cannot
// be extracted are skipped with a warning; any other error aborts the run
// without completing p.
func Run(ctx context.Context, name string, r filereader.Reader, p Processor) (Result, error) {
	var res Result
	attrs := otelmetric.WithAttributes(attribute.String("processor", name))

	for {
		rec, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if record.IsRecoverable(err) {
				res.Skipped++
				recordsSkippedCounter.Add(ctx, 1, attrs)
				slog.Warn("Skipping record", slog.String("processor", name), slog.Any("error", err))
				continue
			}
			return res, err
		}
		res.Read++
		recordsProcessedCounter.Add(ctx, 1, attrs)

		action, err := p.Execute(ctx, rec.Number, rec)
		if err != nil {
			return res, fmt.Errorf("%s: %w", name, err)
		}
		if action == Stop {
			res.Stopped = true
			break
		}
	}

	if err := p.Complete(ctx); err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}
	slog.Debug("Processor completed",
		slog.String("processor", name),
		slog.Int64("read", res.Read),
		slog.Int64("skipped", res.Skipped),
		slog.Bool("stopped", res.Stopped))
	return res, nil
}
