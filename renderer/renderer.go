// Package renderer formats simulation results as markdown.
package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/mfapi"
	md "github.com/nao1215/markdown"
)

// title returns the scheme name, its code when the name is unknown.
func title(m mfapi.Meta) string {
	if m.Name == "" {
		return "Scheme " + m.Code
	}
	return m.Name
}

// schemeHeader prints the scheme identification.
func schemeHeader(doc *md.Markdown, m mfapi.Meta, report string) {
	doc.H1(fmt.Sprintf("%s: %s", report, title(m)))
	var details []string
	if m.Code != "" {
		details = append(details, "Code "+m.Code)
	}
	if m.FundHouse != "" {
		details = append(details, m.FundHouse)
	}
	if m.Category != "" {
		details = append(details, m.Category)
	}
	if len(details) > 0 {
		doc.PlainText(md.Italic(strings.Join(details, " · ")))
	}
}

// optional prints p, or "-" when it is not available.
func optional(p *navsim.Percent) string {
	if p == nil {
		return "-"
	}
	return p.String()
}

func navString(p navsim.NavPoint) string {
	return fmt.Sprintf("%s on %s", p.NAV.String(), p.Date)
}

// LumpsumMarkdown renders the valuation of a single investment.
func LumpsumMarkdown(m mfapi.Meta, r navsim.LumpsumResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	schemeHeader(doc, m, "Lumpsum")

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Final Value"), md.Bold(r.FinalValue.String())},
		Rows: [][]string{
			{"Invested", r.TotalInvested.String()},
			{"Profit", r.Profit.SignedString()},
			{"Absolute Return", r.AbsoluteReturn.SignedString()},
			{"Annualized Return", optional(r.AnnualizedReturn)},
			{"Units", r.TotalUnits.String()},
			{"Start NAV", navString(r.Start)},
			{"End NAV", navString(r.End)},
		},
	})
	return doc.String()
}

// simulationSummary prints the totals of an accumulating plan.
func simulationSummary(doc *md.Markdown, r navsim.SimulationResult) {
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Final Value"), md.Bold(r.FinalValue.String())},
		Rows: [][]string{
			{"Invested", r.TotalInvested.String()},
			{"Profit", r.Profit.SignedString()},
			{"Absolute Return", r.AbsoluteReturn.SignedString()},
			{"Annualized Return", optional(r.AnnualizedReturn)},
			{"Installments", fmt.Sprint(r.Installments)},
			{"Units", r.TotalUnits.String()},
		},
	})
}

// SIPMarkdown renders a systematic investment plan simulation.
func SIPMarkdown(m mfapi.Meta, plan navsim.InvestmentPlan, r navsim.SimulationResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	report := "SIP"
	if plan.StepUp != nil {
		report = "Step-up SIP"
	}
	schemeHeader(doc, m, report)
	doc.PlainText(fmt.Sprintf("%s %s from %s to %s%s.", plan.Amount, plan.Frequency, plan.From, plan.To, stepUpText(plan.StepUp)))

	simulationSummary(doc, r)

	if len(r.Growth) > 0 {
		doc.H2("Investment Growth")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
			Header:    []string{"Date", "Invested", "Value"},
		}
		for _, p := range r.Growth {
			table.Rows = append(table.Rows, []string{p.Date.String(), p.Invested.String(), p.Value.String()})
		}
		doc.Table(table)
	}
	return doc.String()
}

// SWPMarkdown renders a systematic withdrawal plan simulation.
func SWPMarkdown(m mfapi.Meta, plan navsim.WithdrawalPlan, r navsim.WithdrawalResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	report := "SWP"
	if plan.StepUp != nil {
		report = "Step-up SWP"
	}
	schemeHeader(doc, m, report)
	doc.PlainText(fmt.Sprintf("%s invested on %s, then %s withdrawn %s until %s%s.",
		plan.InitialInvestment, plan.From, plan.Withdrawal, plan.Frequency, plan.To, stepUpText(plan.StepUp)))

	rows := [][]string{
		{"Initial Investment", r.InitialInvestment.String()},
		{"Total Withdrawn", r.TotalWithdrawn.String()},
		{"Profit", r.Profit.SignedString()},
		{"Withdrawals", fmt.Sprint(r.Withdrawals)},
		{"Units Redeemed", r.UnitsRedeemed.String()},
		{"Units Remaining", r.RemainingUnits.String()},
	}
	if r.Exhausted {
		rows = append(rows, []string{"Exhausted On", r.ExhaustedOn.String()})
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Final Value"), md.Bold(r.FinalValue.String())},
		Rows:      rows,
	})
	if r.Exhausted {
		doc.PlainText(md.Bold("The investment was exhausted before the end of the plan."))
	}

	if len(r.Growth) > 0 {
		doc.H2("Portfolio")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Date", "Value", "Principal", "Profit"},
		}
		for _, p := range r.Growth {
			table.Rows = append(table.Rows, []string{p.Date.String(), p.Value.String(), p.RemainingPrincipal.String(), p.Profit.String()})
		}
		doc.Table(table)
	}
	return doc.String()
}

func stepUpText(u *navsim.StepUp) string {
	if u == nil {
		return ""
	}
	var inc string
	if !u.Amount.IsZero() {
		inc = navsim.INR(u.Amount).String()
	} else {
		inc = u.Percent.String() + "%"
	}
	if u.AppliesAnnually {
		return fmt.Sprintf(", increased by %s every calendar year", inc)
	}
	return fmt.Sprintf(", increased by %s every anniversary", inc)
}

// PointReturnMarkdown renders the return between two dates.
func PointReturnMarkdown(m mfapi.Meta, r navsim.PointReturn) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	schemeHeader(doc, m, "Return")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Simple Return"), md.Bold(r.SimpleReturn.SignedString())},
		Rows: [][]string{
			{"Annualized Return", optional(r.AnnualizedReturn)},
			{"Start NAV", navString(r.Start)},
			{"End NAV", navString(r.End)},
		},
	})
	return doc.String()
}

// ReturnsMarkdown renders trailing returns.
func ReturnsMarkdown(m mfapi.Meta, returns []navsim.PeriodReturn) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	schemeHeader(doc, m, "Returns")
	returnsTable(doc, returns)
	return doc.String()
}

func returnsTable(doc *md.Markdown, returns []navsim.PeriodReturn) {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Period", "Since", "Return", "Annualized"},
	}
	for _, r := range returns {
		if r.Return == nil {
			table.Rows = append(table.Rows, []string{r.Period.String(), "-", "-", "-"})
			continue
		}
		table.Rows = append(table.Rows, []string{
			r.Period.String(),
			r.Return.Start.Date.String(),
			r.Return.SimpleReturn.SignedString(),
			optional(r.Return.AnnualizedReturn),
		})
	}
	doc.Table(table)
}

// RollingMarkdown renders the distribution of rolling returns.
func RollingMarkdown(m mfapi.Meta, r navsim.RollingReturnSet) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	schemeHeader(doc, m, "Rolling Returns")
	doc.PlainText(fmt.Sprintf("%v-year windows, one every %d NAV points.", r.PeriodYears, r.StrideDays))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Average CAGR"), md.Bold(r.Average.String())},
		Rows: [][]string{
			{"Median", r.Median.String()},
			{"Minimum", r.Min.String()},
			{"Maximum", r.Max.String()},
			{"Volatility", r.Volatility.String()},
			{"Windows", fmt.Sprint(r.Count)},
		},
	})
	return doc.String()
}

// RiskMarkdown renders risk metrics of a scheme against a benchmark.
func RiskMarkdown(m, benchmark mfapi.Meta, r navsim.RiskMetrics) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	schemeHeader(doc, m, "Risk")
	doc.PlainText(fmt.Sprintf("Benchmark: %s, %d periodic returns.", title(benchmark), r.Periods))
	f := func(v float64) string { return fmt.Sprintf("%.4f", v) }
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Metric", "Scheme", "Benchmark"},
		Rows: [][]string{
			{"Mean Return", navsim.Percent(r.FundMean).String(), navsim.Percent(r.BenchmarkMean).String()},
			{"Volatility", navsim.Percent(r.FundVolatility).String(), navsim.Percent(r.BenchmarkVolatility).String()},
			{"Alpha", navsim.Percent(r.Alpha).SignedString(), ""},
			{"Beta", f(r.Beta), ""},
			{"Correlation", f(r.Correlation), ""},
			{"R²", f(r.RSquared), ""},
			{"Sharpe Ratio", f(r.SharpeRatio), ""},
			{"Risk-free Rate", navsim.Percent(r.RiskFreeRate).String(), ""},
		},
	})
	return doc.String()
}

// AnalysisMarkdown renders the description of a NAV history.
func AnalysisMarkdown(m mfapi.Meta, a navsim.Analysis) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	schemeHeader(doc, m, "NAV Analysis")
	doc.PlainText(fmt.Sprintf("%d NAV points from %s to %s.", a.Points, a.Range.From, a.Range.To))

	s := a.Summary
	doc.H2("Summary")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Current NAV"), md.Bold(s.CurrentNAV.String())},
		Rows: [][]string{
			{"First NAV", s.FirstNAV.String()},
			{"Minimum NAV", s.MinNAV.String()},
			{"Maximum NAV", s.MaxNAV.String()},
			{"Average NAV", s.AverageNAV.StringFixed(4)},
			{"Total Return", s.TotalReturn.SignedString()},
			{"CAGR", s.CAGR.String()},
			{"Years", fmt.Sprintf("%.2f", s.TotalYears)},
		},
	})

	v := a.Volatility
	doc.H2("Volatility")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Measure", "Value"},
		Rows: [][]string{
			{"Daily", navsim.Percent(100 * v.Daily).String()},
			{"Monthly", navsim.Percent(100 * v.Monthly).String()},
			{"Annualized", navsim.Percent(100 * v.Annualized).String()},
			{"Best Day", navsim.Percent(100 * v.MaxDailyReturn).SignedString()},
			{"Worst Day", navsim.Percent(100 * v.MinDailyReturn).SignedString()},
		},
	})

	if len(a.Trends) > 0 {
		doc.H2("Trends")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
			Header:    []string{"Trend", "Return", "Days Up", "Direction"},
		}
		for _, t := range a.Trends {
			dir := "down"
			if t.Upward {
				dir = "up"
			}
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("%s (%d points)", t.Name, t.Points),
				t.TotalReturn.SignedString(),
				navsim.Percent(100 * t.Strength).String(),
				dir,
			})
		}
		doc.Table(table)
	}

	doc.H2("Returns")
	returnsTable(doc, a.Trailing)
	return doc.String()
}

// Compared is one scheme of a comparison.
type Compared struct {
	Meta    mfapi.Meta
	Returns []navsim.PeriodReturn
}

// CompareMarkdown renders the trailing returns of several schemes side by side.
func CompareMarkdown(schemes []Compared) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Comparison")

	table := md.TableSet{Header: []string{"Period"}, Alignment: []md.TableAlignment{md.AlignLeft}}
	for _, s := range schemes {
		table.Header = append(table.Header, title(s.Meta))
		table.Alignment = append(table.Alignment, md.AlignRight)
	}
	for i, p := range navsim.TrailingPeriods {
		row := []string{p.String()}
		for _, s := range schemes {
			cell := "-"
			if i < len(s.Returns) && s.Returns[i].Return != nil {
				cell = s.Returns[i].Return.SimpleReturn.SignedString()
			}
			row = append(row, cell)
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)
	return doc.String()
}
