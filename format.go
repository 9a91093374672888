// ABOUTME: Table and heading rendering for CLI output
// ABOUTME: Formats proposals split by side, and the tracklists, media and constraints of a context

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"albumseq/album"
	"albumseq/engine"
	"albumseq/store"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	proposalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))

	scoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))
)

// renderTable renders rows under headers with rounded borders
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}

	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}

		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
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

// printer writes headings that are coloured only on a terminal
type printer struct {
	out      io.Writer
	colorize bool
}

func newPrinter(out io.Writer) printer {
	return printer{out: out, colorize: shouldColorize(out)}
}

func (p printer) style(s lipgloss.Style, line string) string {
	if !p.colorize {
		return line
	}

	return s.Render(line)
}

func (p printer) heading(line string) {
	fmt.Fprintln(p.out, p.style(headingStyle, line))
}

func (p printer) println(args ...interface{}) {
	fmt.Fprintln(p.out, args...)
}

func (p printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

// shouldColorize reports whether writer is a terminal
func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}

	return isTerminal(file)
}

func isTerminal(file *os.File) bool {
	fd := file.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// proposalsHeading describes what was ranked
func proposalsHeading(count int, tracklist, medium string, minScore *int) string {
	if minScore != nil {
		return fmt.Sprintf("Top %d permutations for tracklist '%s' on medium '%s' with score >= %d:",
			count, tracklist, medium, *minScore)
	}

	return fmt.Sprintf("Top %d permutations for tracklist '%s' on medium '%s':", count, tracklist, medium)
}

// proposalTable lists the tracks of one proposal side by side with a TOTAL row
func proposalTable(result engine.Result) string {
	var rows [][]string

	trackNo := 1

	for side, tracks := range result.Sides {
		for i, track := range tracks {
			sideLabel := ""
			if i == 0 {
				sideLabel = "Side " + strconv.Itoa(side+1)
			}

			rows = append(rows, []string{sideLabel, strconv.Itoa(trackNo), track.Title, album.FormatDuration(track.Duration)})
			trackNo++
		}

		if len(result.Sides) > 1 {
			rows = append(rows, []string{"", "", "", "(" + album.FormatDuration(tracks.TotalDuration()) + ")"})
		}
	}

	rows = append(rows, []string{"", "", "TOTAL", album.FormatDuration(result.Ordering.TotalDuration())})

	return renderTable(
		[]string{"Side", "#", "Title", "Duration"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight},
	)
}

// printProposal writes one ranked proposal with its constraint breakdown
func (p printer) printProposal(rank int, result engine.Result, constraints []album.Constraint) {
	p.println(p.style(proposalStyle, fmt.Sprintf("Permutation #%d", rank)))
	p.println(p.style(scoreStyle, fmt.Sprintf("Score: %d", result.Score)))
	p.println(proposalTable(result))

	if len(constraints) > 0 {
		p.println(constraintStatus(result, constraints))
	}

	p.println()
}

// constraintStatus marks which constraints a proposal satisfies
func constraintStatus(result engine.Result, constraints []album.Constraint) string {
	rows := make([][]string, 0, len(constraints))

	for i, c := range constraints {
		met := "no"
		if i < len(result.Satisfied) && result.Satisfied[i] {
			met = "yes"
		}

		rows = append(rows, []string{strconv.Itoa(i), c.Kind.String(), strconv.Itoa(c.Weight), met})
	}

	return renderTable(
		[]string{"#", "Constraint", "Weight", "Met"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	)
}

// Sections accepted by show --filter
const (
	sectionTracklists  = "tracklists"
	sectionMedia       = "media"
	sectionConstraints = "constraints"
)

// printContext writes the requested sections of a context (all when filter is empty)
func (p printer) printContext(c *store.Context, filter string) {
	if filter == "" || filter == sectionTracklists {
		p.heading("--- Tracklists ---")

		for _, tl := range c.Tracklists {
			p.printf("Tracklist %s: %d tracks, %s\n", tl.Name, len(tl.Tracks), album.FormatDuration(tl.Tracks.TotalDuration()))
			p.println(tracklistTable(tl.Tracks))
		}

		p.println()
	}

	if filter == "" || filter == sectionMedia {
		p.heading("--- Media ---")
		p.println(mediaTable(c.Media))
		p.println()
	}

	if filter == "" || filter == sectionConstraints {
		p.heading("=== Constraints ===")
		p.println(constraintsTable(c.Constraints))
		p.println()
	}
}

func tracklistTable(tracks album.Tracklist) string {
	rows := make([][]string, 0, len(tracks))

	for i, t := range tracks {
		rows = append(rows, []string{strconv.Itoa(i + 1), t.Title, album.FormatDuration(t.Duration), t.Path})
	}

	return renderTable(
		[]string{"#", "Title", "Duration", "Path"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	)
}

func mediaTable(media []album.Medium) string {
	rows := make([][]string, 0, len(media))

	for _, m := range media {
		rows = append(rows, []string{
			m.Name,
			strconv.Itoa(m.Sides),
			album.FormatDuration(m.MaxDurationPerSide),
			album.FormatDuration(m.Capacity()),
		})
	}

	return renderTable(
		[]string{"Medium", "Sides", "Max per side", "Capacity"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}

func constraintsTable(constraints []album.Constraint) string {
	rows := make([][]string, 0, len(constraints))

	for i, c := range constraints {
		rows = append(rows, []string{strconv.Itoa(i), c.Kind.Name(), strings.Join(c.Kind.Args(), ", "), strconv.Itoa(c.Weight)})
	}

	return renderTable(
		[]string{"Index", "Kind", "Args", "Weight"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	)
}
