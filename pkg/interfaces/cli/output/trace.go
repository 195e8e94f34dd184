package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vsinha/factorycalc/pkg/application/services/resolver"
	"github.com/vsinha/factorycalc/pkg/domain/entities"
	"github.com/vsinha/factorycalc/pkg/infrastructure/events"
)

// TraceEventTypes are the event types TraceHandler renders
var TraceEventTypes = []string{events.ItemExpandedEvent, events.ResolutionCompletedEvent}

// TracePrinter returns a trace callback that writes one line per expanded
// item, indented two spaces per depth level
func TracePrinter(w io.Writer) resolver.TraceFunc {
	return func(step resolver.TraceStep) {
		writeTraceLine(w, step.Depth, step.Item, step.Rate, "")
	}
}

// TraceHandler renders planning events in the TracePrinter format. A
// scenario served from the resolution cache gets a single root line marked
// "(cached)".
func TraceHandler(w io.Writer) events.Handler {
	return func(e events.Event) error {
		switch data := e.Data.(type) {
		case events.ItemExpanded:
			return writeTraceLine(w, data.Depth, data.Item, data.Rate, "")
		case events.ResolutionCompleted:
			if data.Cached {
				return writeTraceLine(w, 0, data.Scenario.Item, data.Scenario.Rate, "  (cached)")
			}
		}
		return nil
	}
}

func writeTraceLine(w io.Writer, depth int, item entities.ItemName, rate float64, suffix string) error {
	_, err := fmt.Fprintf(w, "%s%s:  %s%s\n",
		strings.Repeat("  ", depth),
		item,
		strconv.FormatFloat(rate, 'g', -1, 64),
		suffix)
	return err
}
