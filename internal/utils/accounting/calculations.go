package accounting

import (
	"fmt"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a line's balance effect based on account type.
// This is used in both services and repositories to ensure consistent accounting logic.
func CalculateSignedAmount(line domain.JournalEntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	net := line.DebitAmount.Sub(line.CreditAmount)

	// Determine sign based on accounting convention
	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
}

// CalculateFundSignedAmount returns a line's balance effect on its fund.
// Funds are credit-normal: credits increase a fund, debits decrease it.
func CalculateFundSignedAmount(line domain.JournalEntryLine) decimal.Decimal {
	return line.CreditAmount.Sub(line.DebitAmount)
}

// ValidateLineAmounts checks per-line amount well-formedness: at least two
// lines, no negative amounts, no line carrying both a debit and a credit.
func ValidateLineAmounts(lines []domain.JournalEntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines")
	}
	for _, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("line amounts must be non-negative for line %s", line.LineID)
		}
		if line.DebitAmount.IsPositive() && line.CreditAmount.IsPositive() {
			return fmt.Errorf("line %s has both a debit and a credit amount", line.LineID)
		}
	}
	return nil
}

// ValidateEntryBalance checks that the lines of a journal entry balance within
// the posting epsilon and that no line carries a negative or two-sided amount.
func ValidateEntryBalance(lines []domain.JournalEntryLine) error {
	if err := ValidateLineAmounts(lines); err != nil {
		return err
	}

	debits := domain.TotalDebits(lines)
	credits := domain.TotalCredits(lines)
	if debits.Sub(credits).Abs().GreaterThan(domain.BalanceEpsilon) {
		return fmt.Errorf("debits (%s) != credits (%s)", debits.StringFixed(2), credits.StringFixed(2))
	}

	return nil
}
