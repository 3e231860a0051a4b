// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of smarttable

package view

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/smarttable/smarttable/internal/render"
)

// Print writes a table snapshot as plain text, without a terminal UI.
func Print(w io.Writer, data *model1.TableData, maxWidth int) {
	r := render.Base{MaxWidth: maxWidth}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(r.Headers(data))
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(r.Render(data))

	p := data.Pager()
	tw.SetCaption(true, fmt.Sprintf("page %s (%d rows)", render.PageLabel(p.CurrentPage, p.NumberOfPages), data.RowCount()))
	tw.Render()
}
