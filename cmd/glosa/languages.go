package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"glosa/internal/i18n"
	"glosa/internal/vocab"
)

func newLanguagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages [language]",
		Short: "List keyword languages, or the keywords of one language",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE:  runLanguages,
	}
	return cmd
}

func runLanguages(cmd *cobra.Command, args []string) error {
	g, err := loadGlobals(cmd)
	if err != nil {
		return err
	}
	registry, err := g.registry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	styles := newListStyles(!color.NoColor)

	if len(args) == 1 {
		table, err := registry.Resolve(args[0])
		if err != nil {
			status := statusWriter{w: cmd.ErrOrStderr(), p: g.printer(nil)}
			return status.failure(cmd.ErrOrStderr(), args[0], registry, err)
		}
		renderKeywords(out, styles, table)
		return nil
	}

	header := g.printer(nil).Sprint(i18n.MsgLanguagesHeader, map[string]any{"Host": registry.Host()})
	renderLanguages(out, styles, header, registry.Tables())
	return nil
}

type listStyles struct {
	title lipgloss.Style
	head  lipgloss.Style
	name  lipgloss.Style
	dim   lipgloss.Style
}

func newListStyles(colored bool) listStyles {
	if !colored {
		plain := lipgloss.NewStyle()
		return listStyles{title: plain, head: plain, name: plain, dim: plain}
	}
	return listStyles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		head:  lipgloss.NewStyle().Underline(true),
		name:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func renderLanguages(w io.Writer, st listStyles, header string, tables []*vocab.Table) {
	rows := [][]string{{"language", "locale", "keywords", "aliases"}}
	for _, t := range tables {
		rows = append(rows, []string{t.Language(), t.Locale(), strconv.Itoa(t.Len()), strings.Join(t.Aliases(), ", ")})
	}
	fmt.Fprintln(w, st.title.Render(header))
	writeColumns(w, st, rows)
}

func renderKeywords(w io.Writer, st listStyles, t *vocab.Table) {
	rows := [][]string{{t.Language(), t.Host()}}
	for _, p := range t.Pairs() {
		rows = append(rows, []string{p.From, p.To})
	}
	writeColumns(w, st, rows)
}

// writeColumns aligns rows by display width; the first row is the header.
func writeColumns(w io.Writer, st listStyles, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for r, row := range rows {
		var sb strings.Builder
		sb.WriteString("  ")
		for i, cell := range row {
			padded := cell
			if i < len(row)-1 {
				padded = runewidth.FillRight(cell, widths[i]+2)
			}
			switch {
			case r == 0:
				// подчёркиваем только текст, без хвостовых пробелов
				sb.WriteString(st.head.Render(cell) + padded[len(cell):])
			case i == 0:
				sb.WriteString(st.name.Render(cell) + padded[len(cell):])
			case i == len(row)-1:
				sb.WriteString(st.dim.Render(cell))
			default:
				sb.WriteString(padded)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}
}
