package ui

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-boxdlist/internal/config"
	"github.com/tartampluch/go-boxdlist/internal/diary"
)

// previewTable keeps the sort state of the preview window.
type previewTable struct {
	rows    diary.Collection
	sortCol int
	sortAsc bool
}

// newPreviewTable copies entries so sorting never reorders the generated list.
// Rows start in list order.
func newPreviewTable(entries diary.Collection) *previewTable {
	return &previewTable{rows: entries.Clone(), sortCol: -1, sortAsc: true}
}

// toggle sorts by col, flipping the direction when col is already active.
func (p *previewTable) toggle(col int) {
	if p.sortCol == col {
		p.sortAsc = !p.sortAsc
	} else {
		p.sortCol = col
		p.sortAsc = true
	}
	p.sort()
}

func (p *previewTable) sort() {
	slices.SortStableFunc(p.rows, func(a, b diary.Entry) int {
		var c int
		switch p.sortCol {
		case config.ColIDTitle:
			c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case config.ColIDYear:
			c = a.Year - b.Year
		case config.ColIDRating:
			c = compareRating(a.Rating, b.Rating)
		case config.ColIDWatched:
			c = strings.Compare(a.WatchedDate, b.WatchedDate)
		}
		if !p.sortAsc {
			return -c
		}
		return c
	})

	slog.Debug(config.MsgPreviewSorted,
		config.LogKeyComponent, config.CompUI,
		config.LogKeySortCol, p.sortCol,
		config.LogKeySortAsc, p.sortAsc,
	)
}

// compareRating orders unrated entries before any rating.
func compareRating(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

// cell renders one table cell as text.
func (p *previewTable) cell(row, col int) string {
	if row >= len(p.rows) {
		return ""
	}
	e := p.rows[row]
	switch col {
	case config.ColIDTitle:
		return e.Name
	case config.ColIDYear:
		if e.Year == 0 {
			return config.UnknownValue
		}
		return strconv.Itoa(e.Year)
	case config.ColIDRating:
		if e.Rating == nil {
			return config.UnknownValue
		}
		return fmt.Sprintf(config.FormatRating, *e.Rating)
	case config.ColIDWatched:
		if e.WatchedDate == "" {
			return config.UnknownValue
		}
		return e.WatchedDate
	}
	return ""
}

// ShowPreviewWindow lists the entries of the last generated list.
// If the window is already open, it requests focus.
func (app *DiaryListApp) ShowPreviewWindow() {
	if app.previewWindow != nil {
		app.previewWindow.RequestFocus()
		return
	}

	app.mu.RLock()
	p := newPreviewTable(app.Entries)
	app.mu.RUnlock()

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinPreview))
	w.Resize(fyne.NewSize(config.PreviewWinWidth, config.PreviewWinHeight))
	app.previewWindow = w

	slog.Info(config.MsgPreviewOpen,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(p.rows),
	)

	table := widget.NewTable(
		func() (int, int) {
			return len(p.rows), config.PreviewColumns
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(p.cell(id.Row, id.Col))
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewButton("Header", func() {})
	}
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)
		text := app.GetMsg(previewHeaderKey(id.Col))
		if id.Col == p.sortCol {
			if p.sortAsc {
				text += config.SortIconAsc
			} else {
				text += config.SortIconDesc
			}
		}
		btn.SetText(text)
		btn.OnTapped = func() {
			p.toggle(id.Col)
			table.Refresh()
		}
	}

	table.SetColumnWidth(config.ColIDTitle, config.ColWidthTitle)
	table.SetColumnWidth(config.ColIDYear, config.ColWidthYear)
	table.SetColumnWidth(config.ColIDRating, config.ColWidthRating)
	table.SetColumnWidth(config.ColIDWatched, config.ColWidthWatched)

	w.SetContent(container.NewBorder(nil, nil, nil, nil, table))
	w.SetOnClosed(func() {
		app.previewWindow = nil
	})
	w.Show()
}

func previewHeaderKey(col int) string {
	switch col {
	case config.ColIDYear:
		return config.TKeyColYear
	case config.ColIDRating:
		return config.TKeyColRating
	case config.ColIDWatched:
		return config.TKeyColWatched
	}
	return config.TKeyColTitle
}
