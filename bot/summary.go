package bot

import (
	"bytes"
	"fmt"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"strconv"
)

// Summary renders the last cycle as a table.
func (n *Bot) Summary() string {
	status := n.Status()
	buffer := bytes.NewBuffer(nil)
	if status.LastResult == nil {
		buffer.WriteString("no cycle has run yet\n")
		return buffer.String()
	}
	result := status.LastResult

	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"Phase", "OK", "Failed", "Error"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)
	table.Append([]string{"discover", strconv.Itoa(result.Collected), strconv.Itoa(result.CollectFailed), result.PhaseErrors["discover"]})
	table.Append([]string{"update", strconv.Itoa(result.Updated), strconv.Itoa(result.UpdateFailed), result.PhaseErrors["update"]})
	table.Append([]string{"analyze", strconv.Itoa(result.Opportunities), "", result.PhaseErrors["analyze"]})
	table.Append([]string{"expire", strconv.FormatInt(result.Expired, 10), "", ""})
	table.SetFooter([]string{
		fmt.Sprintf("CYCLE %d", status.Cycles),
		result.StartedAt.Format("2006-01-02 15:04:05"),
		result.Duration.String(),
		fmt.Sprintf("%d failed", status.FailedCycles),
	})
	table.Render()

	if len(result.PhaseErrors) > 0 {
		names := maps.Keys(result.PhaseErrors)
		slices.Sort(names)
		fmt.Fprintf(buffer, "failed phases: %v\n", names)
	}
	return buffer.String()
}
