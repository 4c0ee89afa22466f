package service

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/TooEinfach/PlexSearch/internal/domain"
)

const unknownField = "<unknown>"

// Render writes a human-readable report of one outcome. Result listings
// longer than limit are truncated for display; the outcome itself always
// carries the full ranked set.
func Render(w io.Writer, out Outcome, limit int) {
	if limit <= 0 {
		limit = 20
	}

	switch out.Kind {
	case ExactFound:
		// Exact results are emitted in full; only fuzzy and raw listings
		// are capped for display
		fmt.Fprintf(w, "Exact match found (%d):\n", len(out.Matches))
		fmt.Fprintln(w, matchTable(out.Matches, false, len(out.Matches)))

	case FuzzyFound:
		fmt.Fprintf(w, "Fuzzy matches (threshold %d):\n", out.Threshold)
		fmt.Fprintln(w, matchTable(out.Matches, true, limit))

	case FuzzyEmpty:
		fmt.Fprintln(w, "No fuzzy matches found.")

	case RawResults:
		if len(out.Raw) == 0 {
			fmt.Fprintln(w, "No results from server search.")
			return
		}
		fmt.Fprintln(w, "No exact match found. Showing server search results:")
		fmt.Fprintln(w, rawTable(out.Raw, limit))

	case RawFailed:
		fmt.Fprintf(w, "Search failed: %v\n", out.Err)
	}
}

func matchTable(matches []domain.MatchResult, withScore bool, limit int) string {
	headers := []string{"Title", "Year", "Type", "Library", "ID"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
	if withScore {
		headers = []string{"Title", "Year", "Score", "Type", "ID"}
		aligns = []columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft}
	}

	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		if len(rows) >= limit {
			break
		}
		if withScore {
			rows = append(rows, []string{
				displayTitle(m.Item),
				displayYear(m.Item),
				strconv.Itoa(m.Score),
				orPlaceholder(m.Item.Type),
				orPlaceholder(m.Item.ID),
			})
			continue
		}
		rows = append(rows, []string{
			displayTitle(m.Item),
			displayYear(m.Item),
			orPlaceholder(m.Item.Type),
			orPlaceholder(m.Library),
			orPlaceholder(m.Item.ID),
		})
	}
	return renderTable(headers, rows, aligns)
}

// rawTable renders raw server results. Raw hits mix movies, shows, actors
// and whatever else the server matched, so every field is optional.
func rawTable(items []domain.MediaItem, limit int) string {
	headers := []string{"Title", "Year", "Type", "Library", "ID"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		if len(rows) >= limit {
			break
		}
		rows = append(rows, []string{
			displayTitle(item),
			displayYear(item),
			orPlaceholder(item.Type),
			orPlaceholder(item.Library),
			orPlaceholder(item.ID),
		})
	}
	return renderTable(headers, rows, aligns)
}

func displayTitle(item domain.MediaItem) string {
	if item.Title == "" {
		return unknownField
	}
	return item.Title
}

func displayYear(item domain.MediaItem) string {
	if item.Year == 0 {
		return "n/a"
	}
	return strconv.Itoa(item.Year)
}

func orPlaceholder(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
