package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/etnz/momentum"
	"github.com/etnz/momentum/report"
	md "github.com/nao1215/markdown"
)

// Ranking renders a ranking run to markdown. The full ranking table is
// truncated to limit rows when limit is positive.
func Ranking(r *momentum.Result, limit int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("12-1 Momentum as of %s", r.AsOf))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Provider"), md.Bold(r.Provider)},
		Rows: [][]string{
			{"Price window", r.Window.String()},
			{"Universe", strconv.Itoa(len(r.Universe))},
			{"Ranked", strconv.Itoa(len(r.Ranked))},
			{"Excluded", strconv.Itoa(len(r.Excluded))},
		},
	})

	doc.H2("Top Decile")
	doc.Table(rankedTable(r.Top, 0))
	doc.H2("Bottom Decile")
	doc.Table(rankedTable(r.Bottom, 0))

	doc.H2("Full Ranking")
	doc.Table(rankedTable(r.Ranked, limit))
	if limit > 0 && len(r.Ranked) > limit {
		doc.PlainText(md.Italic(fmt.Sprintf("%d more tickers not shown.", len(r.Ranked)-limit)))
	}
	doc.Build()
	buf.WriteString("\n\n")

	ConditionalBlock(&buf, func(w io.Writer) bool {
		md.NewMarkdown(w).
			H2("Excluded").
			PlainText("Not enough monthly history or an incomplete momentum window.").
			BulletList(r.Excluded...).
			Build()
		return len(r.Excluded) > 0
	})
	return buf.String()
}

// rankedTable lists rows, at most limit of them if limit is positive.
func rankedTable(rows []momentum.Ranked, limit int) md.TableSet {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Rank", "Ticker", "12-1 Return", "Last Month", "Last Close", "Pct Rank"},
		Rows:   [][]string{},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(r.Rank),
			r.Ticker,
			report.Percent(r.Mom121),
			report.Percent(r.LastMonth),
			report.Price(r.Ticker, r.LastClose),
			strconv.FormatFloat(r.PctRank, 'f', 3, 64),
		})
	}
	return table
}
