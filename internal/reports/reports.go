// Package reports computes the financial reports: cash flow, income and
// expense summary, balance sheet, outstanding loans, and the net worth
// timeline.
package reports

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/accounts"
	"github.com/ledgerly-dev/ledgerly/internal/journal"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// Engine reads the journal and account registry to build reports.
type Engine struct {
	journal  *journal.Service
	accounts *accounts.Service
}

// NewEngine creates a report Engine.
func NewEngine(j *journal.Service, a *accounts.Service) *Engine {
	return &Engine{journal: j, accounts: a}
}

// MonthFlow is one month's slice of the cash flow report.
type MonthFlow struct {
	Month    string // "2026-01"
	Inflows  decimal.Decimal
	Outflows decimal.Decimal
	Net      decimal.Decimal
}

// CashFlow covers all money movement, transfers included.
type CashFlow struct {
	Start       time.Time
	End         time.Time
	Inflows     decimal.Decimal
	Outflows    decimal.Decimal
	Net         decimal.Decimal
	ByMonth     []MonthFlow
	Income      decimal.Decimal
	Expense     decimal.Decimal
	TransferIn  decimal.Decimal
	TransferOut decimal.Decimal
}

// CashFlow reports every movement in the period. A transfer moves money
// out of one account and into another, so it counts on both sides and
// nets to zero.
func (e *Engine) CashFlow(start, end time.Time) (CashFlow, error) {
	txns, err := e.journal.ReadRange(start, end)
	if err != nil {
		return CashFlow{}, err
	}

	cf := CashFlow{Start: start, End: end}
	monthly := map[string]*MonthFlow{}

	flow := func(month string, in, out decimal.Decimal) {
		m, ok := monthly[month]
		if !ok {
			m = &MonthFlow{Month: month}
			monthly[month] = m
		}
		m.Inflows = m.Inflows.Add(in)
		m.Outflows = m.Outflows.Add(out)
		cf.Inflows = cf.Inflows.Add(in)
		cf.Outflows = cf.Outflows.Add(out)
	}

	for _, t := range txns {
		month := t.Date.Format("2006-01")
		switch t.Type {
		case taxonomy.TypeIncome:
			cf.Income = cf.Income.Add(t.Amount)
			flow(month, t.Amount, decimal.Zero)
		case taxonomy.TypeExpense:
			cf.Expense = cf.Expense.Add(t.Amount)
			flow(month, decimal.Zero, t.Amount)
		case taxonomy.TypeTransfer:
			cf.TransferIn = cf.TransferIn.Add(t.Amount)
			cf.TransferOut = cf.TransferOut.Add(t.Amount)
			flow(month, t.Amount, t.Amount)
		}
	}

	cf.Net = cf.Inflows.Sub(cf.Outflows)

	for _, m := range monthly {
		m.Net = m.Inflows.Sub(m.Outflows)
		cf.ByMonth = append(cf.ByMonth, *m)
	}
	sort.Slice(cf.ByMonth, func(i, j int) bool { return cf.ByMonth[i].Month < cf.ByMonth[j].Month })

	return cf, nil
}

// NatureTotal is one breakdown line.
type NatureTotal struct {
	Name  string
	Total decimal.Decimal
}

// Summary is the income and expense view. Transfers are excluded: they
// move money between owned accounts without changing net worth.
type Summary struct {
	TotalIncome       decimal.Decimal
	TotalExpenses     decimal.Decimal
	Net               decimal.Decimal
	SavingsRate       decimal.Decimal // percent
	IncomeByNature    []NatureTotal
	ExpenseByCategory []NatureTotal
}

// IncomeExpenseSummary aggregates income by nature and expenses by
// category (falling back to nature when uncategorized).
func (e *Engine) IncomeExpenseSummary(start, end time.Time) (Summary, error) {
	txns, err := e.journal.ReadRange(start, end)
	if err != nil {
		return Summary{}, err
	}

	var s Summary
	incomeBy := map[string]decimal.Decimal{}
	expenseBy := map[string]decimal.Decimal{}

	for _, t := range txns {
		switch t.Type {
		case taxonomy.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			incomeBy[string(t.Nature)] = incomeBy[string(t.Nature)].Add(t.Amount)
		case taxonomy.TypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			key := t.Category
			if key == "" {
				key = string(t.Nature)
			}
			expenseBy[key] = expenseBy[key].Add(t.Amount)
		}
	}

	s.Net = s.TotalIncome.Sub(s.TotalExpenses)
	if s.TotalIncome.IsPositive() {
		s.SavingsRate = s.Net.Div(s.TotalIncome).Mul(decimal.NewFromInt(100)).Round(2)
	}
	s.IncomeByNature = sortedTotals(incomeBy)
	s.ExpenseByCategory = sortedTotals(expenseBy)

	return s, nil
}

func sortedTotals(m map[string]decimal.Decimal) []NatureTotal {
	var out []NatureTotal
	for k, v := range m {
		out = append(out, NatureTotal{Name: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// AccountBalance is one balance sheet or loan line.
type AccountBalance struct {
	AccountID    int
	Name         string
	Counterparty string
	Balance      decimal.Decimal
	Currency     string
}

// BalanceSheet is Assets - Liabilities = Net Worth, with receivables
// counted as assets and payables as liabilities.
type BalanceSheet struct {
	Assets           []AccountBalance
	Liabilities      []AccountBalance
	Receivables      []AccountBalance
	Payables         []AccountBalance
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
}

// BalanceSheet groups the active accounts by accounting type using their
// stored balances.
func (e *Engine) BalanceSheet() BalanceSheet {
	var bs BalanceSheet

	for _, a := range e.accounts.Active() {
		entry := AccountBalance{
			AccountID:    a.ID,
			Name:         a.Name,
			Counterparty: a.Counterparty,
			Balance:      a.Balance.Abs(),
			Currency:     a.Currency,
		}
		switch a.AccountingType() {
		case taxonomy.Asset:
			bs.Assets = append(bs.Assets, entry)
			bs.TotalAssets = bs.TotalAssets.Add(entry.Balance)
		case taxonomy.Receivable:
			bs.Receivables = append(bs.Receivables, entry)
			bs.TotalAssets = bs.TotalAssets.Add(entry.Balance)
		case taxonomy.Liability:
			bs.Liabilities = append(bs.Liabilities, entry)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(entry.Balance)
		case taxonomy.Payable:
			bs.Payables = append(bs.Payables, entry)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(entry.Balance)
		}
	}

	bs.NetWorth = bs.TotalAssets.Sub(bs.TotalLiabilities)
	return bs
}

// LoanPosition summarizes open loans in both directions.
type LoanPosition struct {
	LoansGiven      []AccountBalance
	LoansReceived   []AccountBalance
	TotalReceivable decimal.Decimal
	TotalPayable    decimal.Decimal
	NetPosition     decimal.Decimal // positive: others owe me more
}

// OutstandingLoans lists receivable and payable accounts with non-zero
// balances.
func (e *Engine) OutstandingLoans() LoanPosition {
	var lp LoanPosition

	for _, a := range e.accounts.Active() {
		if a.Balance.IsZero() {
			continue
		}
		entry := AccountBalance{
			AccountID:    a.ID,
			Name:         a.Name,
			Counterparty: a.Counterparty,
			Balance:      a.Balance.Abs(),
			Currency:     a.Currency,
		}
		if entry.Counterparty == "" {
			entry.Counterparty = a.Name
		}
		switch a.AccountingType() {
		case taxonomy.Receivable:
			lp.LoansGiven = append(lp.LoansGiven, entry)
			lp.TotalReceivable = lp.TotalReceivable.Add(entry.Balance)
		case taxonomy.Payable:
			lp.LoansReceived = append(lp.LoansReceived, entry)
			lp.TotalPayable = lp.TotalPayable.Add(entry.Balance)
		}
	}

	lp.NetPosition = lp.TotalReceivable.Sub(lp.TotalPayable)
	return lp
}

// TimelinePoint is one month of the net worth timeline.
type TimelinePoint struct {
	Month    string
	NetWorth decimal.Decimal
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// NetWorthTimeline walks the last months of income and expense activity
// forward from the implied starting net worth. Transfers are omitted:
// they cancel out inside the net worth total.
func (e *Engine) NetWorthTimeline(now time.Time, months int) ([]TimelinePoint, error) {
	start := now.AddDate(0, -months, 0)
	txns, err := e.journal.ReadRange(start, now)
	if err != nil {
		return nil, err
	}

	type monthTotals struct{ income, expenses decimal.Decimal }
	monthly := map[string]*monthTotals{}
	for _, t := range txns {
		key := t.Date.Format("2006-01")
		m, ok := monthly[key]
		if !ok {
			m = &monthTotals{}
			monthly[key] = m
		}
		switch t.Type {
		case taxonomy.TypeIncome:
			m.income = m.income.Add(t.Amount)
		case taxonomy.TypeExpense:
			m.expenses = m.expenses.Add(t.Amount)
		}
	}

	current := e.currentNetWorth()

	totalDelta := decimal.Zero
	for _, m := range monthly {
		totalDelta = totalDelta.Add(m.income.Sub(m.expenses))
	}
	running := current.Sub(totalDelta)

	var keys []string
	for k := range monthly {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var timeline []TimelinePoint
	for _, key := range keys {
		m := monthly[key]
		running = running.Add(m.income.Sub(m.expenses))
		timeline = append(timeline, TimelinePoint{
			Month:    key,
			NetWorth: running,
			Income:   m.income,
			Expenses: m.expenses,
		})
	}
	return timeline, nil
}

func (e *Engine) currentNetWorth() decimal.Decimal {
	total := decimal.Zero
	for _, a := range e.accounts.Active() {
		switch a.AccountingType() {
		case taxonomy.Asset, taxonomy.Receivable:
			total = total.Add(a.Balance)
		default:
			total = total.Sub(a.Balance)
		}
	}
	return total
}

// FormatMonth renders a [year, month] pair the way report keys do.
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
