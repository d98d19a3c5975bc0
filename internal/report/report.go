package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stealthspanner/internal/extract"
	"stealthspanner/internal/latency"
	"stealthspanner/internal/storage/models"
)

// Column widths for the results table. Cells are padded before styling so
// ANSI sequences don't break alignment.
const (
	colFile    = 40
	colCountry = 24
	colScore   = 8
	colLatency = 14
	colJitter  = 24
	colLoss    = 8
	colStatus  = 14
)

var tableWidth = colFile + colCountry + colScore + colLatency + colJitter + colLoss + colStatus + 6

// pad left-aligns text to width, then applies the style.
func pad(text string, width int, style lipgloss.Style) string {
	if len(text) > width {
		text = text[:width-3] + "..."
	}
	return style.Render(fmt.Sprintf("%-*s", width, text))
}

// Render writes the ranked results table and summary for a report.
func Render(w io.Writer, rep *latency.Report, scoreCfg latency.ScoreConfig) {
	rule := ruleStyle.Render(strings.Repeat("=", tableWidth))

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, strings.Join([]string{
		pad("FILE", colFile, headerStyle),
		pad("COUNTRY", colCountry, headerStyle),
		pad("SCORE", colScore, headerStyle),
		pad("LATENCY", colLatency, headerStyle),
		pad("JITTER (SD/MD/RG)", colJitter, headerStyle),
		pad("LOSS", colLoss, headerStyle),
		pad("STATUS", colStatus, headerStyle),
	}, " "))
	fmt.Fprintln(w, rule)

	for i := range rep.Outcomes {
		fmt.Fprintln(w, renderRow(&rep.Outcomes[i], scoreCfg))
	}

	fmt.Fprintln(w, rule)
	renderSummary(w, rep)
}

func renderRow(o *latency.Outcome, scoreCfg latency.ScoreConfig) string {
	country := extract.CountryName(o.Target.CountryCode)
	if privacy := scoreCfg.PrivacyScore(o.Target.CountryCode); privacy > 0 {
		country = fmt.Sprintf("%s (%d)", country, privacy)
		if privacy >= 80 {
			country += " *"
		}
	}

	score := latency.Score(*o, scoreCfg)

	latencyText, latencySt := "N/A", dimStyle
	if o.AvgLatencyMS != nil {
		latencyText = fmt.Sprintf("%.2f ms", *o.AvgLatencyMS)
		latencySt = latencyStyle(*o.AvgLatencyMS)
	}

	jitterText, jitterSt := "N/A", dimStyle
	if o.Jitter != nil {
		jitterText = fmt.Sprintf("%.2f/%.2f/%.2f", o.Jitter.StdDevMS, o.Jitter.MeanDevMS, o.Jitter.RangeMS)
		jitterSt = jitterStyle(o.Jitter.StdDevMS)
	}

	statusSt := errorStyle
	if o.Status == latency.StatusSuccess {
		statusSt = successStyle
	}

	return strings.Join([]string{
		pad(o.Target.Source, colFile, lipgloss.NewStyle()),
		pad(country, colCountry, scoreStyle(float64(scoreCfg.PrivacyScore(o.Target.CountryCode)))),
		pad(fmt.Sprintf("%.1f", score), colScore, scoreStyle(score)),
		pad(latencyText, colLatency, latencySt),
		pad(jitterText, colJitter, jitterSt),
		pad(fmt.Sprintf("%.1f%%", o.PacketLossPct), colLoss, lossStyle(o.PacketLossPct)),
		pad(o.Status.Label(), colStatus, statusSt),
	}, " ")
}

func renderSummary(w io.Writer, rep *latency.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Total: %d servers", rep.Tested)))
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Successful: %d", rep.Succeeded)))
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Failed: %d", rep.Tested-rep.Succeeded)))

	for _, status := range []latency.Status{latency.StatusFailed, latency.StatusDNSFailure, latency.StatusTimeout} {
		if count := rep.FailedByKind[status]; count > 0 {
			fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("  - %s: %d", status.Label(), count)))
		}
	}

	if rep.Best != nil && rep.Worst != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Best latency:  %s (%.2f ms)",
			rep.Best.Target.Host, *rep.Best.AvgLatencyMS)))
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Worst latency: %s (%.2f ms)",
			rep.Worst.Target.Host, *rep.Worst.AvgLatencyMS)))
	}
}

// RenderHistory writes stored outcomes as a table. With a non-empty host
// the table covers that host's history; otherwise it lists mixed hosts and
// gains a host column.
func RenderHistory(w io.Writer, host string, outcomes []*models.Outcome) {
	if host != "" {
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Probe history: %s", host)))
	}

	header := []string{pad("TIME", 20, headerStyle)}
	width := 70
	if host == "" {
		header = append(header, pad("HOST", colFile, headerStyle))
		width += colFile + 1
	}
	header = append(header,
		pad("LATENCY", colLatency, headerStyle),
		pad("LOSS", colLoss, headerStyle),
		pad("SCORE", colScore, headerStyle),
		pad("STATUS", colStatus, headerStyle),
	)

	rule := ruleStyle.Render(strings.Repeat("-", width))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, strings.Join(header, " "))

	for _, entry := range outcomes {
		latencyText, latencySt := "N/A", dimStyle
		if entry.LatencyMS != nil {
			latencyText = fmt.Sprintf("%.2f ms", *entry.LatencyMS)
			latencySt = latencyStyle(*entry.LatencyMS)
		}
		statusSt := errorStyle
		status := latency.Status(entry.Status)
		if status == latency.StatusSuccess {
			statusSt = successStyle
		}
		row := []string{pad(entry.TestedAt.Format("2006-01-02 15:04:05"), 20, lipgloss.NewStyle())}
		if host == "" {
			row = append(row, pad(entry.Host, colFile, lipgloss.NewStyle()))
		}
		fmt.Fprintln(w, strings.Join(append(row,
			pad(latencyText, colLatency, latencySt),
			pad(fmt.Sprintf("%.1f%%", entry.PacketLoss), colLoss, lossStyle(entry.PacketLoss)),
			pad(fmt.Sprintf("%.1f", entry.Score), colScore, scoreStyle(entry.Score)),
			pad(status.Label(), colStatus, statusSt),
		), " "))
	}
	fmt.Fprintln(w, rule)
}
