package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/ledger/query"
)

func TestReportFlagsConfig(t *testing.T) {
	flags := &ReportFlags{
		Predicate: `account =~ "Food"`,
		Sort:      "date",
		Head:      5,
		Subtotal:  true,
	}

	cfg := flags.Config(&Globals{Verify: true})

	assert.Equal(t, `account =~ "Food"`, cfg.Predicate)
	assert.Equal(t, "date", cfg.SortKey)
	assert.Equal(t, 5, cfg.HeadCount)
	assert.True(t, cfg.ShowSubtotal)
	assert.True(t, cfg.Verify)
}

func TestReportFlagsWideVariantsImplyNarrow(t *testing.T) {
	cfg := (&ReportFlags{RelatedAll: true, RevalueOnly: true}).Config(&Globals{})

	assert.True(t, cfg.ShowRelated)
	assert.True(t, cfg.ShowAllRelated)
	assert.True(t, cfg.ShowRevalued)
	assert.True(t, cfg.ShowRevaluedOnly)
}

func TestRenderExpressionErrorPointsAtPosition(t *testing.T) {
	_, err := query.Compile("amount > > 10")
	assert.Error(t, err)

	rendered := RenderError(err)
	lines := strings.Split(rendered, "\n")

	assert.Contains(t, rendered, "amount > > 10")
	last := lines[len(lines)-1]
	assert.Contains(t, last, "^")
	// Caret sits under position 9, after the three-space gutter.
	assert.Equal(t, 3+9, strings.Index(last, "^"))
}

func TestRenderErrorPlainFallback(t *testing.T) {
	err := NewCommandError(1)
	assert.Contains(t, RenderError(err), err.Error())
}
