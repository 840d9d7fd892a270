package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTimingCollectorReportTree(t *testing.T) {
	collector := NewTimingCollector()

	run := collector.Start("run")
	load := run.Child("load")
	load.End()
	report := run.Child("report")
	report.Child("walk").End()
	report.End()
	run.End()

	var buf strings.Builder
	collector.Report(&buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 4, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "run: "))
	assert.True(t, strings.HasPrefix(lines[1], "├─ load: "))
	assert.True(t, strings.HasPrefix(lines[2], "└─ report: "))
	assert.True(t, strings.HasPrefix(lines[3], "   └─ walk: "))
}

func TestTimingCollectorNestsSequentialStarts(t *testing.T) {
	collector := NewTimingCollector()

	outer := collector.Start("outer")
	inner := collector.Start("inner")
	inner.End()
	outer.End()

	var buf strings.Builder
	collector.Report(&buf)
	assert.Contains(t, buf.String(), "└─ inner: ")
}

func TestEmptyCollectorReportsNothing(t *testing.T) {
	var buf strings.Builder
	NewTimingCollector().Report(&buf)
	assert.Equal(t, "", buf.String())
}

func TestContextRoundTrip(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	timer := StartTimer(ctx, "op")
	timer.End()

	var buf strings.Builder
	collector.Report(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), "op: "))
}

func TestStartTimerNestsUnderRootTimer(t *testing.T) {
	collector := NewTimingCollector()
	root := collector.Start("root")
	ctx := WithRootTimer(context.Background(), root)

	StartTimer(ctx, "child").End()
	root.End()

	var buf strings.Builder
	collector.Report(&buf)
	assert.Contains(t, buf.String(), "└─ child: ")
}

func TestNoCollectorIsNoOp(t *testing.T) {
	timer := StartTimer(context.Background(), "op")
	timer.Child("sub").End()
	timer.End()
}
