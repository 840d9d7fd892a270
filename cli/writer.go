package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/robinvdvleuten/ledger/journal"
	"github.com/robinvdvleuten/ledger/output"
)

// registerWriter renders transactions as aligned register columns: date,
// payee, account, amount, running total. Column widths adapt to the
// terminal; payee and account are truncated to fit.
type registerWriter struct {
	w        io.Writer
	styles   *output.Styles
	payeeW   int
	accountW int
}

func newRegisterWriter(w io.Writer) *registerWriter {
	width := 80
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 40 {
			width = tw
		}
	}

	// Fixed columns: date (10), amount (15), total (20) plus separators.
	// Whatever remains is split between payee and account.
	rest := width - 10 - 15 - 20 - 4
	if rest < 20 {
		rest = 20
	}
	payeeW := rest * 2 / 5

	return &registerWriter{
		w:        w,
		styles:   output.NewStyles(w),
		payeeW:   payeeW,
		accountW: rest - payeeW,
	}
}

func (r *registerWriter) Accept(t *journal.Transaction) error {
	payee := runewidth.FillRight(runewidth.Truncate(t.Payee(), r.payeeW, "…"), r.payeeW)
	account := runewidth.FillRight(runewidth.Truncate(t.DisplayAccount().FullName(), r.accountW, "…"), r.accountW)
	amount := fmt.Sprintf("%15s", t.Amount.String())

	var total string
	if t.HasXData() && t.XData().Total != nil {
		total = t.XData().Total.String()
	}

	_, err := fmt.Fprintf(r.w, "%s %s %s %s %s\n",
		r.styles.Date(t.Date().String()),
		payee,
		r.styles.Account(account),
		r.styles.Amount(amount, t.Amount.Value.IsNegative()),
		r.styles.Dim(total),
	)
	return err
}

func (r *registerWriter) Flush() error { return nil }

// balanceWriter renders the account tree with subtree totals, indented by
// depth. The journal root arrives last and is rendered as the grand total.
type balanceWriter struct {
	w      io.Writer
	styles *output.Styles
}

func newBalanceWriter(w io.Writer) *balanceWriter {
	return &balanceWriter{w: w, styles: output.NewStyles(w)}
}

func (b *balanceWriter) Accept(a *journal.Account) error {
	if !a.HasXData() {
		return nil
	}
	xd := a.XData()

	if a.Parent == nil && a.Name == "" {
		_, err := fmt.Fprintf(b.w, "%s\n%20s\n",
			b.styles.Dim("--------------------"),
			b.styles.Amount(fmt.Sprintf("%20s", xd.Total.String()), false),
		)
		return err
	}

	depth := 0
	for p := a.Parent; p != nil; p = p.Parent {
		depth++
	}
	indent := ""
	for i := 1; i < depth; i++ {
		indent += "  "
	}

	_, err := fmt.Fprintf(b.w, "%20s  %s%s\n",
		b.styles.Amount(fmt.Sprintf("%20s", xd.Total.String()), false),
		indent,
		b.styles.Account(a.Name),
	)
	return err
}

func (b *balanceWriter) Flush() error { return nil }
