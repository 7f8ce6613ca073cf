// Package report renders balances and transfers for people to read.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/mmynk/pokernight/internal/calculator"
)

// cents rounds from the exact binary value of amount, so 2.675 (stored as
// 2.67499...) prints as 2.67.
func cents(amount float64) decimal.Decimal {
	return decimal.NewFromFloatWithExponent(amount, -2)
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(amount float64) string {
	return cents(amount).StringFixed(2)
}

// FormatSigned renders an amount with an explicit sign for non-zero values.
// Magnitudes that round to zero print as 0.00.
func FormatSigned(amount float64) string {
	d := cents(amount)
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	if d.IsZero() {
		return "0.00"
	}
	return d.StringFixed(2)
}

// DebtLine renders a transfer as "X owes Y $Z".
func DebtLine(t calculator.Transfer) string {
	return fmt.Sprintf("%s owes %s $%s", t.From, t.To, FormatAmount(t.Amount))
}

// Input is everything WriteText prints.
type Input struct {
	Title     string
	Games     []string
	Balances  []calculator.PlayerBalance
	Transfers []calculator.Transfer
}

// WriteText writes a plain-text report: the games covered, each player's
// net balance and the transfers that settle them.
func WriteText(w io.Writer, in Input) error {
	var b strings.Builder

	if in.Title != "" {
		fmt.Fprintf(&b, "%s\n%s\n\n", in.Title, strings.Repeat("=", len(in.Title)))
	}

	fmt.Fprintf(&b, "Games (%d)\n", len(in.Games))
	for _, g := range in.Games {
		fmt.Fprintf(&b, "  - %s\n", g)
	}
	b.WriteString("\n")

	b.WriteString("Balances\n")
	if len(in.Balances) == 0 {
		b.WriteString("  (none)\n")
	} else {
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', tabwriter.AlignRight)
		for _, bal := range in.Balances {
			fmt.Fprintf(tw, "  %s\t%s\t\n", bal.Player, FormatSigned(bal.Balance))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	b.WriteString("\n")

	b.WriteString("Transfers\n")
	if len(in.Transfers) == 0 {
		b.WriteString("  All square.\n")
	}
	for _, t := range in.Transfers {
		fmt.Fprintf(&b, "  %s\n", DebtLine(t))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
