package cmd

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/opencivic/councilvotes/internal/service"
)

// printSummary renders the run statistics as a table on stdout
func printSummary(stats *service.ExtractStats) {
	if stats == nil {
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Value"})

	rows := []struct {
		name  string
		value int
	}{
		{"Meetings", stats.Meetings},
		{"Agenda items", stats.Items},
		{"Voted items", stats.VotedItems},
		{"Items with roll-call votes", stats.ItemsWithVotes},
		{"Unique matters", stats.Matters},
		{"Council members", stats.Members},
		{"Persons", stats.Persons},
		{"Full text extracted", stats.TextExtracted},
		{"Full text skipped", stats.TextSkipped},
		{"Full text preserved", stats.TextPreserved},
		{"Fetch errors", stats.FetchErrors},
	}
	for _, r := range rows {
		tw.AppendRow(table.Row{r.name, strconv.Itoa(r.value)})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	fmt.Println("")
	fmt.Println(tw.Render())
}
