package locale_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-boxdlist/internal/config"
	"github.com/tartampluch/go-boxdlist/internal/locale"
)

var translationKeys = []string{
	config.TKeyWinTitle,
	config.TKeyPageTitle,
	config.TKeyPageIntro,
	config.TKeyLblDiary,
	config.TKeyBtnChoose,
	config.TKeyBtnProcess,
	config.TKeyBtnSave,
	config.TKeyLblListType,
	config.TKeyListYearEnd,
	config.TKeyListTop,
	config.TKeyLblYear,
	config.TKeyLblTopN,
	config.TKeyLblLanguage,
	config.TKeyLblIncludeRewatch,
	config.TKeyLblFormat,
	config.TKeyLblListName,
	config.TKeyStatusNoFile,
	config.TKeyStatusSelected,
	config.TKeyStatusDone,
	config.TKeyStatusError,
	config.TKeyStatusSaved,
	config.TKeyLblFooter,
	config.TKeyBtnPreview,
	config.TKeyWinPreview,
	config.TKeyColTitle,
	config.TKeyColYear,
	config.TKeyColRating,
	config.TKeyColWatched,
	config.TKeyErrNumber,
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in every locale file, and that no locale carries unknown keys.
func TestI18nIntegrity(t *testing.T) {
	defined := make(map[string]bool, len(translationKeys))
	for _, k := range translationKeys {
		defined[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			content, err := os.ReadFile("locales/active." + lang + ".json")
			require.NoError(t, err)

			var jsonMap map[string]interface{}
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			for key := range defined {
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' defined in config.go is missing in active.%s.json", key, lang)
			}
			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				assert.Truef(t, defined[jsonKey], "Key '%s' in active.%s.json has no constant", jsonKey, lang)
			}
		})
	}
}

func TestLoad_DetectsLanguages(t *testing.T) {
	cat := locale.Load()
	assert.ElementsMatch(t, config.SupportedLanguages, cat.Languages)
}

func TestTranslator_Messages(t *testing.T) {
	cat := locale.Load()

	en := cat.Translator("en")
	assert.Equal(t, config.FallbackStatusNoFile, en.Msg(config.TKeyStatusNoFile))
	assert.Equal(t, "Selected file: diary.csv", en.MsgData(config.TKeyStatusSelected, map[string]any{"Name": "diary.csv"}))
	assert.Equal(t, "List ready: 1 film.", en.MsgCount(config.TKeyStatusDone, 1, nil))
	assert.Equal(t, "List ready: 12 films.", en.MsgCount(config.TKeyStatusDone, 12, nil))

	fr := cat.Translator("fr")
	assert.Equal(t, "Aucun fichier sélectionné.", fr.Msg(config.TKeyStatusNoFile))
}

func TestTranslator_Fallbacks(t *testing.T) {
	cat := locale.Load()

	// Unknown language falls back to English.
	de := cat.Translator("de")
	assert.Equal(t, config.FallbackStatusNoFile, de.Msg(config.TKeyStatusNoFile))

	// Unknown key returns the key itself.
	assert.Equal(t, "no_such_key", de.Msg("no_such_key"))

	// A nil translator never panics.
	var nilT *locale.Translator
	assert.Equal(t, config.TKeyBtnProcess, nilT.Msg(config.TKeyBtnProcess))
}

func TestMatch_AcceptLanguage(t *testing.T) {
	cat := locale.Load()

	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"fr-FR,fr;q=0.9,en;q=0.8", "fr"},
		{"en-GB", "en"},
		{"de-DE,fr;q=0.5", "fr"},
		{"ja", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, cat.Match(tt.header))
			assert.Equal(t, tt.want, cat.FromAcceptLanguage(tt.header).Lang)
		})
	}
}
