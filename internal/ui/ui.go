package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-boxdlist/internal/config"
	"github.com/tartampluch/go-boxdlist/internal/diary"
	"github.com/tartampluch/go-boxdlist/internal/export"
	"github.com/tartampluch/go-boxdlist/internal/locale"
)

var errInvalidNumber = errors.New(config.ErrInvalidNumber)

// DiaryListApp encapsulates the UI state, preferences and the list pipeline.
type DiaryListApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	Catalog     *locale.Catalog
	Translator  *locale.Translator
	Ctx         context.Context
	Generator   *diary.Generator

	SupportedLanguages []string

	// List state, guarded by mu.
	mu       sync.RWMutex
	source   *diary.ContentSource
	lastList []byte
	lastName string
	Entries  diary.Collection

	form          *optionsWidgets
	status        *widget.Label
	statusText    func() string
	saveBtn       *widget.Button
	previewBtn    *widget.Button
	previewWindow fyne.Window
}

// NewDiaryListApp constructs the application and wires dependencies.
func NewDiaryListApp(a fyne.App, ctx context.Context, gen *diary.Generator, cat *locale.Catalog) *DiaryListApp {
	a.SetIcon(theme.ListIcon())
	if gen == nil {
		gen = diary.NewGenerator()
	}

	return &DiaryListApp{
		App:                a,
		Preferences:        a.Preferences(),
		Catalog:            cat,
		Ctx:                ctx,
		Generator:          gen,
		SupportedLanguages: config.SupportedLanguages,
	}
}

// Run shows the main window and blocks in the UI loop.
func (app *DiaryListApp) Run() {
	app.SetupI18n()
	app.ShowMainWindow()

	go func() {
		<-app.Ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompUI)
		fyne.Do(app.App.Quit)
	}()

	app.App.Run()
}

// ShowMainWindow opens the diary window, or focuses it when already open.
func (app *DiaryListApp) ShowMainWindow() {
	if app.Window != nil {
		app.Window.RequestFocus()
		return
	}

	slog.Info(config.MsgWindowOpen, config.LogKeyComponent, config.CompUI)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window = w
	app.buildContent()

	w.Resize(fyne.NewSize(config.WindowWidth, config.WindowHeight))
	w.SetOnClosed(func() {
		app.Window = nil
		app.form = nil
	})
	w.SetMaster()
	w.Show()
}

// buildContent (re)creates the window widgets in the current language.
func (app *DiaryListApp) buildContent() {
	w := app.Window
	if w == nil {
		return
	}
	w.SetTitle(app.GetMsg(config.TKeyWinTitle))

	app.status = widget.NewLabel("")
	app.status.Wrapping = fyne.TextWrapWord
	if app.statusText == nil {
		app.statusText = app.noFileStatus
	}
	app.status.SetText(app.statusText())

	chooseBtn := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnChoose), theme.FolderOpenIcon(), app.showOpenDialog)
	diaryCard := widget.NewCard(app.GetMsg(config.TKeyLblDiary), "", container.NewVBox(chooseBtn, app.status))

	app.form = app.newOptionsWidgets()
	optionsCard := app.buildOptionsCard(app.form)

	processBtn := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnProcess), theme.ConfirmIcon(), func() {
		if app.CreateList() == nil {
			app.showSaveDialog()
		}
	})
	processBtn.Importance = widget.HighImportance

	app.saveBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), app.showSaveDialog)
	app.previewBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnPreview), theme.ListIcon(), app.ShowPreviewWindow)
	app.refreshActions()

	footerLabel := widget.NewLabel(fmt.Sprintf("%s · %s", app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	w.SetContent(container.NewPadded(container.NewVBox(
		diaryCard,
		optionsCard,
		processBtn,
		container.NewGridWithColumns(config.LayoutColumnsDouble, app.previewBtn, app.saveBtn),
		footerLabel,
	)))
}

// StatusText returns what the status region currently shows.
func (app *DiaryListApp) StatusText() string {
	if app.status != nil {
		return app.status.Text
	}
	if app.statusText != nil {
		return app.statusText()
	}
	return app.noFileStatus()
}

// setStatus stores a status renderer so a language change can redraw it.
func (app *DiaryListApp) setStatus(render func() string) {
	app.statusText = render
	if app.status != nil {
		app.status.SetText(render())
	}
}

func (app *DiaryListApp) noFileStatus() string {
	return app.GetMsg(config.TKeyStatusNoFile)
}

func (app *DiaryListApp) errorStatus(err error) func() string {
	return func() string {
		return app.getMsgData(config.TKeyStatusError, map[string]any{"Error": err.Error()})
	}
}

func (app *DiaryListApp) refreshActions() {
	app.mu.RLock()
	ready := app.lastList != nil
	app.mu.RUnlock()

	for _, btn := range []*widget.Button{app.saveBtn, app.previewBtn} {
		if btn == nil {
			continue
		}
		if ready {
			btn.Enable()
		} else {
			btn.Disable()
		}
	}
}

// showOpenDialog lets the user pick a diary.csv or an export archive.
func (app *DiaryListApp) showOpenDialog() {
	if app.Window == nil {
		return
	}
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, app.Window)
			return
		}
		if r == nil {
			slog.Debug(config.MsgPickerCancelled, config.LogKeyComponent, config.CompUI)
			return
		}
		defer func() { _ = r.Close() }()

		content, err := io.ReadAll(io.LimitReader(r, config.MaxDiarySize+1))
		if err != nil {
			err = fmt.Errorf("%s: %w", config.ErrDiaryRead, err)
			app.setStatus(app.errorStatus(err))
			return
		}
		app.SelectDiary(r.URI().Name(), content)
	}, app.Window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtCSV, config.ExtZip}))
	d.Show()
}

// SelectDiary replaces the current diary with the picked file content.
func (app *DiaryListApp) SelectDiary(name string, content []byte) {
	app.mu.Lock()
	app.source = &diary.ContentSource{Filename: name, Content: content}
	app.lastList = nil
	app.lastName = ""
	app.Entries = nil
	app.mu.Unlock()

	slog.Info(config.MsgFileSelected,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyFile, name,
		config.LogKeySizeBytes, len(content),
	)
	app.setStatus(func() string {
		return app.getMsgData(config.TKeyStatusSelected, map[string]any{"Name": name})
	})
	app.refreshActions()
}

// CreateList runs the pipeline on the selected diary and keeps the result for saving.
// Without a selected file the status shows the no-file message and nothing is built.
func (app *DiaryListApp) CreateList() error {
	cfg, name, err := app.listConfig()
	if err != nil {
		app.setStatus(app.errorStatus(err))
		return err
	}

	app.mu.RLock()
	var src diary.Source
	if app.source != nil {
		src = app.source
	}
	app.mu.RUnlock()

	data, entries, err := app.Generator.Run(app.Ctx, src, cfg)
	if errors.Is(err, diary.ErrNoFileSelected) {
		app.setStatus(app.noFileStatus)
		return err
	}
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err,
		)
		app.setStatus(app.errorStatus(err))
		return err
	}

	app.mu.Lock()
	app.lastList = data
	app.lastName = export.DownloadName(name, cfg.Extension())
	app.Entries = entries
	app.mu.Unlock()

	count := len(entries)
	app.setStatus(func() string {
		return app.Translator.MsgCount(config.TKeyStatusDone, count, nil)
	})
	app.savePreferences(cfg, name)
	app.refreshActions()
	return nil
}

// LastList returns the most recent list and its suggested file name.
func (app *DiaryListApp) LastList() ([]byte, string) {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.lastList, app.lastName
}

// showSaveDialog offers the last list under its download name.
func (app *DiaryListApp) showSaveDialog() {
	data, name := app.LastList()
	if app.Window == nil || data == nil {
		return
	}
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, app.Window)
			return
		}
		if wc == nil {
			slog.Debug(config.MsgSaveCancelled, config.LogKeyComponent, config.CompUI)
			return
		}
		location := wc.URI().Path()
		err = app.SaveList(wc, location)
		if cerr := wc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%s: %w", config.ErrSaveList, cerr)
		}
		if err != nil {
			dialog.ShowError(err, app.Window)
		}
	}, app.Window)
	d.SetFileName(name)
	d.Show()
}

// SaveList writes the last list to w and reports location in the status region.
func (app *DiaryListApp) SaveList(w io.Writer, location string) error {
	data, _ := app.LastList()
	if data == nil {
		app.setStatus(app.noFileStatus)
		return diary.ErrNoFileSelected
	}
	if _, err := w.Write(data); err != nil {
		err = fmt.Errorf("%s: %w", config.ErrSaveList, err)
		app.setStatus(app.errorStatus(err))
		return err
	}

	slog.Info(config.MsgListSaved,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyPath, location,
		config.LogKeySizeBytes, len(data),
	)
	app.setStatus(func() string {
		return app.getMsgData(config.TKeyStatusSaved, map[string]any{"Path": location})
	})
	return nil
}
