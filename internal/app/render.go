package app

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"

	"github.com/j-veylop/histkit/internal/histogram"
	"github.com/j-veylop/histkit/internal/logger"
	"github.com/j-veylop/histkit/internal/models"
)

var axisNames = [...]string{"x", "y", "z"}

// output the given message with formatting.
func output(w io.Writer, format string, a ...any) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		logger.Warn("output error", "error", err)
	}
}

func formatEdge(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "+inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// binRange formats bin i of a as a half-open interval.
func binRange(a histogram.Axis, i int) string {
	return "[" + formatEdge(a.BinLowerEdge(i)) + ", " + formatEdge(a.BinUpperEdge(i)) + ")"
}

func formatStat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// marginal sums the contents of h along every axis except dim, indexed by
// bin number including underflow and overflow.
func marginal(h histogram.Histogram, dim int) []float64 {
	axes := h.Axes()
	sums := make([]float64, axes[dim].BinCountAll())
	contents := h.Contents()

	stride := 1
	for d := 0; d < dim; d++ {
		stride *= axes[d].BinCountAll()
	}
	n := axes[dim].BinCountAll()
	for slot, c := range contents {
		sums[(slot/stride)%n] += float64(c)
	}
	return sums
}

// axisStats returns the weighted mean and standard deviation of the bin
// centres of the regular bins along dim.
func axisStats(h histogram.Histogram, dim int) (mean, std float64) {
	a := h.Axes()[dim]
	sums := marginal(h, dim)

	centres := make([]float64, a.BinCount())
	weights := make([]float64, a.BinCount())
	var total float64
	for i := 1; i <= a.BinCount(); i++ {
		centres[i-1] = a.BinCenter(i)
		weights[i-1] = sums[i]
		total += sums[i]
	}
	if total == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.Mean(centres, weights), stat.StdDev(centres, weights)
}

func renderSummary(w io.Writer, h histogram.Histogram) {
	output(w, "%s %s\n", TitleStyle.Render(h.Key()), MutedStyle.Render(h.Title()))

	slots := len(h.Contents())
	output(w, "Rank:\t\t%d\n", h.Rank())
	output(w, "Entries:\t%d\n", h.Entries())
	output(w, "Bins:\t\t%d (%s)\n", slots, datasize.ByteSize(8*slots).HumanReadable())

	output(w, "\n%s\n", SubTitleStyle.Render("Axes"))
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Axis", "Title", "Bins", "Left", "Right", "Mean", "Std Dev"})
	tbl.SetBorder(true)
	for d, a := range h.Axes() {
		mean, std := axisStats(h, d)
		tbl.Append([]string{
			axisNames[d],
			a.Title(),
			strconv.Itoa(a.BinCount()),
			formatEdge(a.Left()),
			formatEdge(a.Right()),
			formatStat(mean),
			formatStat(std),
		})
	}
	tbl.Render()
}

// renderBins prints one row per bin, skipping empty bins unless all is set.
func renderBins(w io.Writer, h histogram.Histogram, all bool) {
	axes := h.Axes()
	contents := h.Contents()

	header := make([]string, 0, len(axes)+1)
	for d := range axes {
		header = append(header, strings.ToUpper(axisNames[d]))
	}
	header = append(header, "Content")

	output(w, "\n%s\n", SubTitleStyle.Render("Bins"))
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(header)
	tbl.SetBorder(true)

	rows := 0
	for slot, c := range contents {
		if c == 0 && !all {
			continue
		}
		row := make([]string, 0, len(header))
		rem := slot
		for _, a := range axes {
			n := a.BinCountAll()
			row = append(row, binRange(a, rem%n))
			rem /= n
		}
		row = append(row, strconv.FormatUint(c, 10))
		tbl.Append(row)
		rows++
	}

	if rows == 0 {
		output(w, "%s\n", MutedStyle.Render("(all bins empty)"))
		return
	}
	tbl.Render()
}

func renderList(w io.Writer, summaries []models.Summary) {
	if len(summaries) == 0 {
		output(w, "%s\n", MutedStyle.Render("no histograms stored"))
		return
	}

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Key", "Title", "Rank", "Entries", "Bins", "Updated"})
	tbl.SetBorder(true)
	for _, s := range summaries {
		updated := "-"
		if !s.UpdatedAt.IsZero() {
			updated = s.UpdatedAt.Local().Format("2006-01-02 15:04:05")
		}
		tbl.Append([]string{
			s.Key(),
			s.Title,
			strconv.Itoa(s.Rank),
			strconv.FormatUint(s.Entries, 10),
			strconv.Itoa(s.Slots),
			updated,
		})
	}
	tbl.Render()
}
