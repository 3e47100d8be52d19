package ui

import (
	"log/slog"

	"github.com/tartampluch/go-boxdlist/internal/config"
	"github.com/tartampluch/go-boxdlist/internal/locale"
)

// SetupI18n loads the embedded catalog (unless one was injected) and selects the preferred language.
func (app *DiaryListApp) SetupI18n() {
	if app.Catalog == nil {
		app.Catalog = locale.Load()
	}
	if len(app.Catalog.Languages) > 0 {
		app.SupportedLanguages = app.Catalog.Languages
	}
	app.UpdateLocalizer()
}

// UpdateLocalizer refreshes the translator based on the user's language preference.
func (app *DiaryListApp) UpdateLocalizer() {
	lang := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	if app.Catalog == nil {
		return
	}
	app.Translator = app.Catalog.Translator(app.Catalog.Match(lang))
	slog.Debug(config.MsgLocaleLoaded,
		config.LogKeyComponent, config.CompI18n,
		config.LogKeyLang, app.Translator.Lang,
	)
}

// GetMsg is a helper to translate a key safely.
func (app *DiaryListApp) GetMsg(key string) string {
	return app.Translator.Msg(key)
}

func (app *DiaryListApp) getMsgData(key string, data map[string]any) string {
	return app.Translator.MsgData(key, data)
}
