package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/ledger/query"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// RenderError formats an error for terminal display. Expression errors get
// the offending expression echoed with a caret under the failure position;
// everything else renders its message styled.
func RenderError(err error) string {
	var exprErr *query.ExpressionError
	if errors.As(err, &exprErr) {
		return renderExpressionError(exprErr)
	}

	return errorStyle.Render(err.Error())
}

func renderExpressionError(e *query.ExpressionError) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(e.Msg))
	buf.WriteString("\n\n")

	buf.WriteString("   ")
	buf.WriteString(errContextStyle.Render(e.Expr))
	buf.WriteByte('\n')

	if e.Pos >= 0 && e.Pos <= len(e.Expr) {
		buf.WriteString("   ")
		buf.WriteString(strings.Repeat(" ", e.Pos))
		buf.WriteString(errCaretStyle.Render("^"))
	}

	return buf.String()
}
