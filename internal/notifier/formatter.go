package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"TrendSentinel/internal/model"
	"TrendSentinel/internal/recorder"
)

func actionEmoji(a model.Action) string {
	switch a {
	case model.Buy:
		return "🟢"
	case model.Sell:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatTransitions formats the report's Buy/Sell transitions into one alert.
func FormatTransitions(report *model.Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚨 <b>Trend signals</b> | %s\n", html.EscapeString(report.Portfolio)))
	b.WriteString(fmt.Sprintf("%s\n\n", report.FinishedAt.Format("2006-01-02 15:04 MST")))
	for _, tr := range report.Transitions {
		b.WriteString(fmt.Sprintf("%s <b>%s</b>: %s → %s\n",
			actionEmoji(tr.To), html.EscapeString(tr.Symbol), tr.From, html.EscapeString(tr.Label)))
	}
	return b.String()
}

// FormatSummary formats the counts and total trends of a report.
func FormatSummary(report *model.Report) string {
	buy, sell, hold := report.Counts()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n", html.EscapeString(report.Portfolio), report.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Buy: %d | Sell: %d | Hold: %d\n\n", buy, sell, hold))
	for _, s := range report.Symbols {
		b.WriteString(fmt.Sprintf("%s %s: %s\n", actionEmoji(s.TotalTrend.Action), html.EscapeString(s.Symbol), html.EscapeString(s.TotalTrend.Label)))
	}
	if len(report.Failures) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ %d timeframe(s) failed to load\n", len(report.Failures)))
	}
	return b.String()
}

// FormatSymbol formats every timeframe state of one symbol.
func FormatSymbol(s model.SymbolAnalysis) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 <b>%s</b>\n\n", html.EscapeString(s.Symbol)))
	for _, tf := range model.Timeframes {
		a, ok := s.Timeframes[tf]
		if !ok {
			a = model.UnavailableAnalysis()
		}
		b.WriteString(fmt.Sprintf("<b>%s</b>: %s\n", tf, html.EscapeString(a.Trend.Label)))
		b.WriteString(fmt.Sprintf("  Get %s | Set %s | Go %s\n",
			html.EscapeString(a.Get.Label), html.EscapeString(a.Set.Label), html.EscapeString(a.Go.Label)))
	}
	b.WriteString(fmt.Sprintf("\n%s <b>Total</b>: %s\n", actionEmoji(s.TotalTrend.Action), html.EscapeString(s.TotalTrend.Label)))
	return b.String()
}

// FormatHistory formats recorded total trends, newest first.
func FormatHistory(symbol string, entries []recorder.HistoryEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No history recorded for %s", html.EscapeString(symbol))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🕘 <b>%s history</b>\n\n", html.EscapeString(symbol)))
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s  %s\n", e.At.Format("2006-01-02 15:04"), html.EscapeString(e.Label)))
	}
	return b.String()
}

// FormatPortfolios lists the configured portfolios and their symbols.
func FormatPortfolios(portfolios map[string][]string) string {
	names := make([]string, 0, len(portfolios))
	for name := range portfolios {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("📁 <b>Portfolios</b>\n\n")
	for _, name := range names {
		b.WriteString(fmt.Sprintf("<b>%s</b>: %s\n", html.EscapeString(name), html.EscapeString(strings.Join(portfolios[name], ", "))))
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return `🤖 <b>TrendSentinel commands</b>

/scan [portfolio] - scan a portfolio now
/symbol &lt;ticker&gt; - analyse one symbol
/history &lt;ticker&gt; - recorded total trends
/portfolios - list portfolios
/help - this message`
}
