package ui

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-boxdlist/internal/config"
	"github.com/tartampluch/go-boxdlist/internal/diary"
)

// optionsWidgets holds references to the list controls to simplify reading them back.
type optionsWidgets struct {
	langSelect   *widget.Select
	kindRadio    *widget.RadioGroup
	yearEntry    *NumericalEntry
	topEntry     *NumericalEntry
	rewatchCheck *widget.Check
	formatSelect *widget.Select
	nameEntry    *widget.Entry

	yearItem *widget.FormItem
	topItem  *widget.FormItem
}

// newOptionsWidgets creates the controls, pre-filled from preferences.
func (app *DiaryListApp) newOptionsWidgets() *optionsWidgets {
	ow := &optionsWidgets{}
	prefs := app.Preferences

	ow.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	ow.langSelect.SetSelected(prefs.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	ow.kindRadio = widget.NewRadioGroup([]string{
		app.GetMsg(config.TKeyListYearEnd),
		app.GetMsg(config.TKeyListTop),
	}, nil)
	ow.kindRadio.Required = true
	ow.kindRadio.SetSelected(app.kindLabel(prefs.StringWithFallback(config.PrefListKind, config.DefaultListKind)))

	ow.yearEntry = NewNumericalEntryWithValue(prefs.Int(config.PrefYear))
	ow.yearEntry.PlaceHolder = strconv.Itoa(app.Generator.Now().Year())
	ow.yearEntry.Validator = app.numberValidator

	ow.topEntry = NewNumericalEntryWithValue(prefs.IntWithFallback(config.PrefTopN, config.DefaultTopN))
	ow.topEntry.Validator = app.numberValidator

	ow.rewatchCheck = widget.NewCheck(app.GetMsg(config.TKeyLblIncludeRewatch), nil)
	ow.rewatchCheck.SetChecked(prefs.Bool(config.PrefIncludeRewatch))

	ow.formatSelect = widget.NewSelect([]string{config.FormatCSV, config.FormatICS}, nil)
	ow.formatSelect.SetSelected(prefs.StringWithFallback(config.PrefFormat, config.DefaultFormat))

	ow.nameEntry = widget.NewEntry()
	ow.nameEntry.PlaceHolder = config.DownloadFileBase
	ow.nameEntry.SetText(prefs.String(config.PrefLastListName))

	return ow
}

// buildOptionsCard lays out the list controls. Year and count are shown for their list kind only.
func (app *DiaryListApp) buildOptionsCard(ow *optionsWidgets) *widget.Card {
	ow.yearItem = widget.NewFormItem(app.GetMsg(config.TKeyLblYear), ow.yearEntry)
	ow.topItem = widget.NewFormItem(app.GetMsg(config.TKeyLblTopN), ow.topEntry)

	updateVis := func(label string) {
		if app.kindFromLabel(label) == config.ListKindTop {
			ow.yearEntry.Disable()
			ow.topEntry.Enable()
		} else {
			ow.yearEntry.Enable()
			ow.topEntry.Disable()
		}
	}
	ow.kindRadio.OnChanged = updateVis
	updateVis(ow.kindRadio.Selected)

	ow.langSelect.OnChanged = func(lang string) {
		if lang == app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage) {
			return
		}
		app.Preferences.SetString(config.PrefLanguage, lang)
		app.UpdateLocalizer()
		app.buildContent()
	}

	form := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblListType), ow.kindRadio),
		ow.yearItem,
		ow.topItem,
		widget.NewFormItem(app.GetMsg(config.TKeyLblFormat), ow.formatSelect),
		widget.NewFormItem(app.GetMsg(config.TKeyLblListName), ow.nameEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), ow.langSelect),
	)

	return widget.NewCard(app.GetMsg(config.TKeyLblListType), "", container.NewVBox(form, ow.rewatchCheck))
}

func (app *DiaryListApp) numberValidator(s string) error {
	if _, err := parseIntField(s, 0); err != nil {
		return errors.New(app.GetMsg(config.TKeyErrNumber))
	}
	return nil
}

func (app *DiaryListApp) kindLabel(kind string) string {
	if kind == config.ListKindTop {
		return app.GetMsg(config.TKeyListTop)
	}
	return app.GetMsg(config.TKeyListYearEnd)
}

func (app *DiaryListApp) kindFromLabel(label string) string {
	if label == app.GetMsg(config.TKeyListTop) {
		return config.ListKindTop
	}
	return config.ListKindYearEnd
}

// listConfig maps the controls onto a ListConfig. Without a window it uses preferences.
func (app *DiaryListApp) listConfig() (diary.ListConfig, string, error) {
	cfg := diary.DefaultListConfig()
	ow := app.form
	if ow == nil {
		prefs := app.Preferences
		cfg.Kind = prefs.StringWithFallback(config.PrefListKind, config.DefaultListKind)
		cfg.Year = prefs.Int(config.PrefYear)
		cfg.TopN = prefs.IntWithFallback(config.PrefTopN, config.DefaultTopN)
		cfg.Format = prefs.StringWithFallback(config.PrefFormat, config.DefaultFormat)
		cfg.IncludeRewatches = prefs.Bool(config.PrefIncludeRewatch)
		return cfg, prefs.String(config.PrefLastListName), nil
	}

	var err error
	cfg.Kind = app.kindFromLabel(ow.kindRadio.Selected)
	if cfg.Year, err = ow.yearEntry.IntValue(0); err != nil {
		return cfg, "", err
	}
	if cfg.TopN, err = ow.topEntry.IntValue(config.DefaultTopN); err != nil {
		return cfg, "", err
	}
	if ow.formatSelect.Selected != "" {
		cfg.Format = ow.formatSelect.Selected
	}
	cfg.IncludeRewatches = ow.rewatchCheck.Checked

	return cfg, strings.TrimSpace(ow.nameEntry.Text), nil
}

// savePreferences remembers the options of the last successful run.
func (app *DiaryListApp) savePreferences(cfg diary.ListConfig, name string) {
	slog.Debug(config.MsgPrefsSaved,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyKind, cfg.Kind,
		config.LogKeyFormat, cfg.Format,
	)
	app.Preferences.SetString(config.PrefListKind, cfg.Kind)
	app.Preferences.SetInt(config.PrefYear, cfg.Year)
	app.Preferences.SetInt(config.PrefTopN, cfg.TopN)
	app.Preferences.SetString(config.PrefFormat, cfg.Format)
	app.Preferences.SetBool(config.PrefIncludeRewatch, cfg.IncludeRewatches)
	app.Preferences.SetString(config.PrefLastListName, name)
}
