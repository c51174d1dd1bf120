package printer

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/nsweep/NSweep-core/probe"
)

// ResultTable renders the ranked success view as a terminal table.
func ResultTable(entries []probe.Result) {
	tbl := newTable()
	for _, r := range entries {
		tbl.AddRow(r.Address, fmt.Sprintf("%.2fms", r.LatencyMS()), string(r.Outcome))
	}
	tbl.Print()
}

// FailureTable renders the failure partition with its outcome kinds.
func FailureTable(entries []probe.Result) {
	tbl := newTable()
	for _, r := range entries {
		tbl.AddRow(r.Address, "*", string(r.Outcome))
	}
	tbl.Print()
}

func newTable() table.Table {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()

	tbl := table.New("Address", "Latency", "Status")
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)
	return tbl
}
