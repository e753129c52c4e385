package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer, styleName string) table.Writer {
	w := table.NewWriter()
	w.SetOutputMirror(out)

	style := table.StyleDefault
	switch styleName {
	case "bold":
		style = table.StyleBold
	case "double":
		style = table.StyleDouble
	case "light":
		style = table.StyleLight
	case "round":
		style = table.StyleRounded
	default:
		style = table.StyleDefault
	}

	w.SetStyle(style)

	return w
}
