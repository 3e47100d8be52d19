package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-boxdlist/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog holds every embedded translation and the languages they cover.
type Catalog struct {
	Bundle    *i18n.Bundle
	Languages []string
	matcher   language.Matcher
}

// Load builds the translation bundle from the embedded locale files.
// Files must be named active.<lang>.json; anything else is skipped.
func Load() *Catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	cat := &Catalog{Bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		cat.Languages = []string{config.DefaultLanguage}
		cat.matcher = language.NewMatcher([]language.Tag{language.English})
		return cat
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
		cat.Languages = append(cat.Languages, langCode)
	}

	// The default language goes first so the matcher falls back to it.
	tags := []language.Tag{language.Make(config.DefaultLanguage)}
	for _, l := range cat.Languages {
		if l != config.DefaultLanguage {
			tags = append(tags, language.Make(l))
		}
	}
	cat.matcher = language.NewMatcher(tags)
	return cat
}

// Translator returns a translator for lang, falling back to the default language.
func (c *Catalog) Translator(lang string) *Translator {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	return &Translator{
		Lang:      lang,
		localizer: i18n.NewLocalizer(c.Bundle, lang, config.DefaultLanguage),
	}
}

// FromAcceptLanguage picks the best supported language for an Accept-Language header.
func (c *Catalog) FromAcceptLanguage(header string) *Translator {
	return c.Translator(c.Match(header))
}

// Match returns the supported base language closest to the given preferences.
func (c *Catalog) Match(prefs ...string) string {
	tag, _ := language.MatchStrings(c.matcher, prefs...)
	base, _ := tag.Base()
	return base.String()
}

// Translator localizes message keys for one language.
type Translator struct {
	Lang      string
	localizer *i18n.Localizer
}

// Msg is a helper to translate a key safely. Missing keys return the key itself.
func (t *Translator) Msg(key string) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key})
}

// MsgData translates a key whose message uses template fields.
func (t *Translator) MsgData(key string, data map[string]any) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// MsgCount translates a pluralized key; Count is added to data.
func (t *Translator) MsgCount(key string, count int, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	data["Count"] = count
	return t.localize(&i18n.LocalizeConfig{MessageID: key, PluralCount: count, TemplateData: data})
}

func (t *Translator) localize(lc *i18n.LocalizeConfig) string {
	if t == nil || t.localizer == nil {
		return lc.MessageID
	}
	msg, err := t.localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return lc.MessageID
	}
	return msg
}
