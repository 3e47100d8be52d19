package diary

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	"github.com/tartampluch/go-boxdlist/internal/config"
)

// Source supplies the raw diary CSV text.
// This interface lets the pipeline run on a fixed file, an upload or a picked file alike.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// FileSource reads the diary from a filesystem path.
type FileSource struct {
	Fs   afero.Fs
	Path string
}

// NewDefaultFileSource reads data/diary.csv from the OS filesystem.
func NewDefaultFileSource() *FileSource {
	return NewFileSource(afero.NewOsFs(), config.DefaultDiaryPath)
}

// NewFileSource creates a FileSource on the given filesystem.
func NewFileSource(fsys afero.Fs, path string) *FileSource {
	return &FileSource{Fs: fsys, Path: path}
}

// Name returns the base name of the diary file.
func (s *FileSource) Name() string {
	return filepath.Base(s.Path)
}

// Open reads the whole file (bounded by config.MaxDiarySize) and returns the CSV text.
// A Letterboxd export archive is unwrapped to its diary.csv entry.
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fsys := s.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	f, err := fsys.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDiaryOpen, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, config.MaxDiarySize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDiaryRead, err)
	}
	return decodePayload(ctx, s.Path, data)
}

// ContentSource wraps diary bytes supplied by the user (upload or file picker).
type ContentSource struct {
	Filename string
	Content  []byte
}

// Name returns the user-facing file name.
func (s *ContentSource) Name() string {
	return s.Filename
}

// Open returns the CSV text held by the source.
func (s *ContentSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodePayload(ctx, s.Filename, s.Content)
}

// decodePayload sniffs the payload and returns a reader on the diary CSV it holds.
func decodePayload(ctx context.Context, name string, data []byte) (io.ReadCloser, error) {
	if len(data) > config.MaxDiarySize {
		return nil, ErrDiaryTooLarge
	}
	if len(data) == 0 {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	mt := mimetype.Detect(data)
	slog.DebugContext(ctx, config.MsgContentSniffed,
		config.LogKeyComponent, config.CompLoader,
		config.LogKeyFile, name,
		config.LogKeyContentType, mt.String(),
		config.LogKeySizeBytes, len(data),
	)

	switch {
	case descendsFrom(mt, config.MimeZip):
		return unwrapArchive(ctx, name, data)
	case isText(mt):
		return io.NopCloser(bytes.NewReader(data)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, mt.String())
	}
}

// unwrapArchive opens the diary.csv entry at the root of a Letterboxd export zip.
func unwrapArchive(ctx context.Context, name string, data []byte) (io.ReadCloser, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrArchiveRead, err)
	}

	for _, f := range zr.File {
		if f.Name != config.DiaryArchiveEntry {
			continue
		}
		slog.InfoContext(ctx, config.MsgArchiveUnwrap,
			config.LogKeyComponent, config.CompLoader,
			config.LogKeyFile, name,
		)
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrArchiveRead, err)
		}
		return &limitedReadCloser{
			Reader: io.LimitReader(rc, config.MaxDiarySize),
			Closer: rc,
		}, nil
	}
	return nil, ErrDiaryNotInArchive
}

func descendsFrom(mt *mimetype.MIME, mime string) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(mime) {
			return true
		}
	}
	return false
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), config.MimeTextPrefix) {
			return true
		}
	}
	return false
}

// limitedReadCloser pairs a size-limited reader with the Closer of the underlying stream.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}
