package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/seenimoa/stocksentiment/pkg/models"
	"github.com/seenimoa/stocksentiment/pkg/utils"
)

// articleTitleWidth bounds the title column of the articles table.
const articleTitleWidth = 60

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	return t
}

// renderQuote prints the stock information panel.
func renderQuote(w io.Writer, q *models.Quote) {
	t := newTable(w, "Stock Information")

	change := utils.NotAvailable
	if q.HasPrice() {
		change = fmt.Sprintf("%s (%s)", utils.FormatPrice(q.Change), utils.FormatPct(q.ChangePct))
		if q.Change < 0 {
			change = fmt.Sprintf("-%s (%s)", utils.FormatPrice(-q.Change), utils.FormatPct(q.ChangePct))
		}
	}

	t.AppendRows([]table.Row{
		{"Name", q.Name},
		{"Ticker", q.Ticker},
		{"Price", utils.FormatPrice(q.LastPrice)},
		{"Change", change},
		{"52-Week Range", utils.FormatRange(q.WeekLow52, q.WeekHigh52)},
		{"Market Cap", utils.FormatMarketCap(q.MarketCap)},
		{"Volume", utils.FormatVolume(q.Volume)},
	})
	t.Render()
	fmt.Fprintln(w)
}

// renderResult prints the overall verdict and the per-article table.
func renderResult(w io.Writer, res *models.AnalysisResult) {
	if res.Empty() {
		fmt.Fprintf(w, "No news articles found for %s.\n", res.Ticker)
		return
	}

	s := newTable(w, "Overall Sentiment")
	s.AppendRows([]table.Row{
		{"Verdict", fmt.Sprintf("%s %s", res.OverallEmoji, res.Overall)},
		{"Average Polarity", utils.FormatScore(res.AvgPolarity)},
		{"Average Subjectivity", utils.FormatScore(res.AvgSubjectivity)},
		{"Articles", fmt.Sprintf("%d (%d with full text)", len(res.Articles), res.ExtractedCount())},
	})
	if res.Combined != nil {
		s.AppendRow(table.Row{"Combined Full Text", fmt.Sprintf("%s %s (%s)",
			res.Combined.Emoji, res.Combined.Label, utils.FormatScore(res.Combined.Polarity))})
	}
	s.Render()
	fmt.Fprintln(w)

	t := newTable(w, "Articles")
	t.AppendHeader(table.Row{"#", "Title", "Publisher", "Published", "Headline", "Full Text"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: articleTitleWidth},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	for i, a := range res.Articles {
		t.AppendRow(table.Row{
			i + 1,
			a.DisplayTitle(),
			a.Publisher,
			a.Published(),
			scoreCell(a.Headline),
			scoreCell(a.FullText),
		})
	}
	t.Render()

	for i, a := range res.Articles {
		fmt.Fprintf(w, "\n[%d] %s\n    %s\n", i+1, a.DisplayTitle(), a.DisplayLink())
		if a.ArticleText != "" {
			fmt.Fprintf(w, "    %s\n", a.ArticleText)
		}
	}
}

// renderScore prints the result of scoring custom text.
func renderScore(w io.Writer, s models.SentimentScore) {
	t := newTable(w, "Sentiment")
	t.AppendRows([]table.Row{
		{"Verdict", fmt.Sprintf("%s %s", s.Emoji, s.Label)},
		{"Polarity", utils.FormatScore(s.Polarity)},
		{"Subjectivity", utils.FormatScore(s.Subjectivity)},
	})
	t.Render()
}

func scoreCell(s models.SentimentScore) string {
	return fmt.Sprintf("%s %s", s.Emoji, utils.FormatScore(s.Polarity))
}
