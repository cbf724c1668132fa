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

package filereader

import (
	"fmt"

	"go.opentelemetry.io/otel"
	otelmetric "go.opentelemetry.io/otel/metric"
)

var (
	linesInCounter        otelmetric.Int64Counter
	recordsDroppedCounter otelmetric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/linecrunch/internal/filereader")

	var err error
	linesInCounter, err = meter.Int64Counter(
		"linecrunch.reader.lines.in",
		otelmetric.WithDescription("Number of lines read by readers from their input source"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create lines.in counter: %w", err))
	}

	recordsDroppedCounter, err = meter.Int64Counter(
		"linecrunch.reader.records.dropped",
		otelmetric.WithDescription("Number of records dropped by readers because they could not be extracted"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create records.dropped counter: %w", err))
	}
}
