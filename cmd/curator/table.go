package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bmikle/paintings-ios/internal/reconcile"
)

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

// renderSummary lists the non-zero counters of a pass. Processed is always
// shown.
func renderSummary(title string, s reconcile.Summary) string {
	counters := []struct {
		name  string
		value int
	}{
		{"Processed", s.Processed},
		{"Downloaded", s.Downloaded},
		{"Found", s.Found},
		{"Not found", s.NotFound},
		{"Cached", s.Cached},
		{"Absent", s.Absent},
		{"Skipped", s.Skipped},
		{"Failed", s.Failed},
		{"Removed", s.Removed},
	}

	var rows [][]string
	for i, c := range counters {
		if i > 0 && c.value == 0 {
			continue
		}
		rows = append(rows, []string{c.name, strconv.Itoa(c.value)})
	}
	return renderTable([]string{title, "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderReport(statuses []reconcile.PeriodStatus) string {
	var rows [][]string
	var total reconcile.PeriodStatus
	for _, st := range statuses {
		rows = append(rows, []string{
			st.Period,
			strconv.Itoa(st.Total),
			strconv.Itoa(st.Cached),
			strconv.Itoa(st.Missing),
		})
		total.Total += st.Total
		total.Cached += st.Cached
		total.Missing += st.Missing
	}
	rows = append(rows, []string{
		"Total",
		strconv.Itoa(total.Total),
		strconv.Itoa(total.Cached),
		strconv.Itoa(total.Missing),
	})
	return renderTable(
		[]string{"Period", "Paintings", "Cached", "Missing"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}
