package export

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/spf13/afero"
	"github.com/tartampluch/go-boxdlist/internal/config"
)

var ErrInvalidListName = errors.New(config.ErrInvalidListName)

// FileExporter writes generated lists to a directory.
type FileExporter struct {
	Fs  afero.Fs
	Dir string
}

// NewDefaultFileExporter writes to out/ on the OS filesystem.
func NewDefaultFileExporter() *FileExporter {
	return &FileExporter{Fs: afero.NewOsFs(), Dir: config.DefaultOutDir}
}

// Write stores data as <Dir>/<listName><ext>, creating Dir when needed,
// and returns the written path.
func (e *FileExporter) Write(listName, ext string, data []byte) (string, error) {
	if err := ValidateListName(listName); err != nil {
		return "", err
	}

	fsys := e.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	dir := e.Dir
	if dir == "" {
		dir = config.DefaultOutDir
	}

	if err := fsys.MkdirAll(dir, config.DirPermExport); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrExportDir, err)
	}

	path := filepath.Join(dir, listName+ext)
	if err := afero.WriteFile(fsys, path, data, config.FilePermExport); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrExportWrite, err)
	}

	slog.Info(config.MsgExportWritten,
		config.LogKeyComponent, config.CompExport,
		config.LogKeyPath, path,
		config.LogKeySizeBytes, len(data),
	)
	return path, nil
}

// ValidateListName rejects names that are empty or would escape the output directory.
func ValidateListName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "", trimmed == ".", trimmed == "..":
		return fmt.Errorf("%w: %q", ErrInvalidListName, name)
	case strings.ContainsAny(name, `/\`), strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidListName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrInvalidListName, name)
	}
	return nil
}

// DownloadName returns the file name offered to the browser or the save dialog.
// An empty or unusable listName falls back to "Your List".
func DownloadName(listName, ext string) string {
	if ValidateListName(listName) != nil {
		return config.DownloadFileBase + ext
	}
	return strings.TrimSpace(listName) + ext
}

// ContentDisposition returns an attachment header for filename.
// Non-ASCII names get a transliterated filename= and an RFC 5987 filename*=.
func ContentDisposition(filename string) string {
	fallback := asciiFallback(filename)
	header := fmt.Sprintf(`%s; filename="%s"`, config.DispositionAttachment, fallback)
	if fallback != filename {
		header += "; filename*=UTF-8''" + encodeRFC5987(filename)
	}
	return header
}

func asciiFallback(name string) string {
	ascii := unidecode.Unidecode(name)
	var b strings.Builder
	for _, r := range ascii {
		switch {
		case r < 0x20 || r == 0x7f, r == '"', r == '\\':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return config.DownloadFileName
	}
	return b.String()
}

// encodeRFC5987 percent-encodes everything outside attr-char.
func encodeRFC5987(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
