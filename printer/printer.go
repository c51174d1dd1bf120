// Package printer renders the progress banner, the ranked result table and
// the run summary on the terminal.
package printer

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/nsweep/NSweep-core/probe"
)

var version = "v1.2.0"

func Version() {
	fmt.Fprintf(color.Output, "%s %s\n",
		color.New(color.FgWhite, color.Bold).Sprintf("nsweep"),
		color.New(color.FgCyan).Sprintf("%s", version),
	)
}

// SweepNav announces the sweep before the pool starts.
func SweepNav(method probe.Method, taskCount, workers int) {
	fmt.Fprintf(color.Output, "%s sweeping %s targets with %s workers\n",
		color.New(color.FgYellow, color.Bold).Sprintf("[%s]", strings.ToUpper(string(method))),
		color.New(color.FgGreen, color.Bold).Sprintf("%d", taskCount),
		color.New(color.FgGreen).Sprintf("%d", workers),
	)
}

// Summary prints the post-run partition counts.
func Summary(success, filtered, failed int) {
	fmt.Fprintf(color.Output, "done: %s ok, %s filtered out, %s failed\n",
		color.New(color.FgGreen, color.Bold).Sprintf("%d", success),
		color.New(color.FgYellow).Sprintf("%d", filtered),
		color.New(color.FgRed).Sprintf("%d", failed),
	)
}
