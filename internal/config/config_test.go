package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-boxdlist/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
// This prevents accidental deletion of keys required for runtime or UI logic.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"CommandName", config.CommandName},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"DefaultAddr", config.DefaultAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestListFormat_Contract pins the names Letterboxd's list importer expects.
func TestListFormat_Contract(t *testing.T) {
	assert.Equal(t, "Letterboxd URI", config.ListColURI)
	assert.Equal(t, "Title", config.ListColTitle)
	assert.Equal(t, config.CSVColURI, config.ListColURI, "Input and output share the URI column")
	assert.Equal(t, "Watched Date", config.CSVColWatchedDate)

	assert.Equal(t, "Your List.csv", config.DownloadFileName)
	assert.Equal(t, "text/csv", config.MimeTextCSV)
	assert.Equal(t, "No file selected.", config.FallbackStatusNoFile)
	assert.Equal(t, "out", config.DefaultOutDir)
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Greater(t, config.DefaultTopN, 0, "Default top list must not be empty")
	assert.Contains(t, []string{config.ListKindYearEnd, config.ListKindTop}, config.DefaultListKind)
	assert.Contains(t, []string{config.FormatCSV, config.FormatICS}, config.DefaultFormat)
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
	assert.Equal(t, strings.Join(config.SupportedLanguages, ","), config.SupportedLanguagesCSV)

	assert.True(t, strings.HasPrefix(config.ICalProdid, "-//"), "PRODID must be an FPI")
	assert.True(t, strings.HasSuffix(config.StubVCalendar, "\r\n"), "iCalendar lines end with CRLF")
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	// Timeouts
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Greater(t, config.ServerReadTimeout, 0*time.Second)
	assert.Greater(t, config.ServerWriteTimeout, 0*time.Second)
	assert.GreaterOrEqual(t, config.ServerIdleTimeout, config.ServerReadTimeout)

	// Rate limiting
	assert.Greater(t, config.DefaultRPS, 0.0, "A zero rate would reject every upload")
	assert.GreaterOrEqual(t, config.DefaultBurst, 1)

	// Limits
	// Years of daily logging stay far below a megabyte; exports with reviews are larger.
	assert.GreaterOrEqual(t, int64(config.MaxDiarySize), int64(10*1024*1024), "MaxDiarySize should fit full export archives")
	assert.Less(t, int64(config.MaxDiarySize), int64(1*1024*1024*1024), "MaxDiarySize should stay under 1GB to protect RAM")
	assert.Less(t, int64(config.MaxUploadMemory), int64(config.MaxDiarySize))
}
