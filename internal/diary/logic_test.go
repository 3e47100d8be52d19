package diary

import (
	"testing"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-boxdlist/internal/config"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"cinema", []string{"cinema"}},
		{" cinema ,  friends ", []string{"cinema", "friends"}},
		{"a,,b, ,", []string{"a", "b"}},
		{" , ", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitTags(tt.input), "input %q", tt.input)
	}
}

func TestParseRating(t *testing.T) {
	require.NotNil(t, parseRating("0.5"))
	assert.InDelta(t, 0.5, *parseRating("0.5"), 0.0001)
	assert.Nil(t, parseRating("Inf"))
	assert.Nil(t, parseRating("four"))
}

func TestEntry_WatchedOn(t *testing.T) {
	got, ok := Entry{WatchedDate: "2024-02-29"}.WatchedOn()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "2023-02-29", "2024/02/01", "yesterday"} {
		_, ok := Entry{WatchedDate: bad}.WatchedOn()
		assert.False(t, ok, "date %q", bad)
	}
}

func TestSniffing(t *testing.T) {
	csvType := mimetype.Detect([]byte("Name,Letterboxd URI\nFoo,http://x\nBar,http://y\n"))
	assert.True(t, isText(csvType), "detected %s", csvType)
	assert.False(t, descendsFrom(csvType, config.MimeZip))

	zipType := mimetype.Detect([]byte("PK\x03\x04\x14\x00\x00\x00\x08\x00"))
	assert.True(t, descendsFrom(zipType, config.MimeZip), "detected %s", zipType)
	assert.False(t, isText(zipType))
}
