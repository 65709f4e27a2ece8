package reporting

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/midpoint-reversal-bot/internal/scanner"
)

// WriteScanTable renders a cycle report as a table followed by a summary line
func WriteScanTable(w io.Writer, report scanner.CycleReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("MIDPOINT-REV SCAN %s", report.Started.UTC().Format("2006-01-02 15:04:05 UTC")))
	t.SetStyle(table.StyleRounded)

	header := make(table.Row, len(scanHeaders))
	for i, h := range scanHeaders {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, r := range Rows(report) {
		if !r.HasValues {
			t.AppendRow(table.Row{r.Symbol, "-", "-", "-", "-", "-", "-", "-", "-", r.Status})
			continue
		}
		tp, sl := "-", "-"
		if r.Signal {
			tp, sl = price(r.TP), price(r.SL)
		}
		t.AppendRow(table.Row{
			r.Symbol,
			price(r.Close),
			price(r.Midpoint),
			price(r.VWAP),
			price(r.ATR),
			strconv.FormatBool(r.Touch),
			r.Direction,
			tp,
			sl,
			r.Status,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})

	t.Render()
	fmt.Fprintf(w, "symbols=%d signals=%d notified=%d errors=%d duration=%s\n",
		len(report.Results), report.Signals(), report.Notified(), report.Errors(), report.Duration.Round(time.Millisecond))
}

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
