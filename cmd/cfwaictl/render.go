package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
)

// renderTable renders rows under headers using the rounded-box style the
// daemon's operator tooling favors.
func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignLeft}})
	return tw.Render()
}

// printStatus prints a colorized line when stdout is a real terminal, and
// a plain one otherwise (pipes, CI logs).
func printStatus(ok bool, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println(msg)
		return
	}
	if ok {
		okColor.Println(msg)
	} else {
		errColor.Println(msg)
	}
}

// printWarn prints a yellow warning line when stdout is a terminal.
func printWarn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println(msg)
		return
	}
	warnColor.Println(msg)
}
