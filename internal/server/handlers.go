package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-boxdlist/internal/config"
	"github.com/tartampluch/go-boxdlist/internal/diary"
	"github.com/tartampluch/go-boxdlist/internal/export"
	"github.com/tartampluch/go-boxdlist/internal/locale"
)

// errBadNumber marks a numeric form field that could not be read.
var errBadNumber = errors.New(config.ErrInvalidNumber)

// indexPage is the data rendered by templates/index.html.
type indexPage struct {
	Lang        string
	T           map[string]string
	Year        int
	TopN        int
	ListRoute   string
	KindYearEnd string
	KindTop     string
	FormatCSV   string
	FormatICS   string
	Fields      map[string]string
	DefaultFile string
}

func (s *ListServer) translator(r *http.Request) *locale.Translator {
	if s.Catalog == nil {
		return nil
	}
	return s.Catalog.FromAcceptLanguage(r.Header.Get(config.HeaderAcceptLanguage))
}

// handleIndex renders the upload page in the caller's language.
func (s *ListServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	tr := s.translator(r)
	lang := config.DefaultLanguage
	if tr != nil {
		lang = tr.Lang
	}

	keys := []string{
		config.TKeyPageTitle, config.TKeyPageIntro, config.TKeyLblDiary, config.TKeyBtnProcess,
		config.TKeyLblListType, config.TKeyListYearEnd, config.TKeyListTop, config.TKeyLblYear,
		config.TKeyLblTopN, config.TKeyLblIncludeRewatch, config.TKeyLblFormat,
		config.TKeyLblListName, config.TKeyStatusNoFile, config.TKeyLblFooter,
	}
	texts := make(map[string]string, len(keys)+1)
	for _, k := range keys {
		texts[k] = tr.Msg(k)
	}
	// The page substitutes the file name on the client.
	texts[config.TKeyStatusSelected] = tr.MsgData(config.TKeyStatusSelected, map[string]any{"Name": "%s"})

	page := indexPage{
		Lang:        lang,
		T:           texts,
		Year:        s.now().Year(),
		TopN:        config.DefaultTopN,
		ListRoute:   config.RouteList,
		KindYearEnd: config.ListKindYearEnd,
		KindTop:     config.ListKindTop,
		FormatCSV:   config.FormatCSV,
		FormatICS:   config.FormatICS,
		DefaultFile: config.DownloadFileName,
		Fields: map[string]string{
			"Diary":    config.FormFieldDiary,
			"ListType": config.FormFieldListType,
			"Year":     config.FormFieldYear,
			"TopN":     config.FormFieldTopN,
			"Format":   config.FormFieldFormat,
			"ListName": config.FormFieldListName,
			"Rewatch":  config.FormFieldRewatch,
		},
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		slog.Error(config.ErrTemplateRender,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextHTML)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	if r.Method == http.MethodGet {
		writeBody(w, buf.Bytes())
	}
}

// handleCreateList reads the uploaded diary, builds the requested list and returns it as a download.
func (s *ListServer) handleCreateList(w http.ResponseWriter, r *http.Request) {
	tr := s.translator(r)
	log := slog.With(
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRemote, r.RemoteAddr,
	)

	// Multipart overhead on top of the diary itself.
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxDiarySize+config.MaxUploadMemory)

	src, err := readUpload(r)
	if err != nil {
		log.Warn(config.MsgUploadRejected, config.LogKeyError, err)
		s.writeListError(w, tr, err)
		return
	}
	log.Info(config.MsgUploadReceived,
		config.LogKeyFile, src.Name(),
		config.LogKeySizeBytes, len(src.Content),
	)

	cfg, listName, err := listConfigFromForm(r)
	if err != nil {
		s.writeListError(w, tr, err)
		return
	}

	gen := s.Generator
	if gen == nil {
		gen = diary.NewGenerator()
	}
	data, entries, err := gen.Run(r.Context(), src, cfg)
	if err != nil {
		log.Warn(config.MsgUploadRejected, config.LogKeyError, err)
		s.writeListError(w, tr, err)
		return
	}

	filename := export.DownloadName(listName, cfg.Extension())
	contentType := config.MimeTextCSV
	if cfg.Format == config.FormatICS {
		contentType = config.MimeTextCalendar
	}
	s.Update(data, filename, contentType)

	w.Header().Set(config.HeaderContentType, contentType)
	w.Header().Set(config.HeaderContentDisposition, export.ContentDisposition(filename))
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	writeBody(w, data)

	log.Info(config.MsgExportWritten,
		config.LogKeyName, filename,
		config.LogKeyCount, len(entries),
	)
}

// handleLatest serves the last generated list with HTTP caching support.
func (s *ListServer) handleLatest(w http.ResponseWriter, r *http.Request) {
	item := s.cache.Load()

	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgNotReady, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, item.contentType)
	w.Header().Set(config.HeaderContentDisposition, export.ContentDisposition(item.filename))
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		writeBody(w, item.data)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{config.HTTPKeyStatus: config.HTTPStatusOK}); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// readUpload extracts the diary file part. A request without one yields diary.ErrNoFileSelected.
func readUpload(r *http.Request) (*diary.ContentSource, error) {
	if err := r.ParseMultipartForm(config.MaxUploadMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, diary.ErrNoFileSelected
		}
		return nil, fmt.Errorf("%s: %w", config.ErrUploadParse, err)
	}

	file, header, err := r.FormFile(config.FormFieldDiary)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, diary.ErrNoFileSelected
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrUploadParse, err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, config.MaxDiarySize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrUploadParse, err)
	}
	if header.Filename == "" && len(content) == 0 {
		return nil, diary.ErrNoFileSelected
	}
	return &diary.ContentSource{Filename: header.Filename, Content: content}, nil
}

// listConfigFromForm maps the page controls onto a ListConfig.
func listConfigFromForm(r *http.Request) (diary.ListConfig, string, error) {
	cfg := diary.DefaultListConfig()

	if kind := strings.TrimSpace(r.FormValue(config.FormFieldListType)); kind != "" {
		cfg.Kind = kind
	}
	if format := strings.TrimSpace(r.FormValue(config.FormFieldFormat)); format != "" {
		cfg.Format = format
	}

	var err error
	if cfg.Year, err = formInt(r, config.FormFieldYear, 0); err != nil {
		return cfg, "", err
	}
	if cfg.TopN, err = formInt(r, config.FormFieldTopN, config.DefaultTopN); err != nil {
		return cfg, "", err
	}
	cfg.IncludeRewatches = formBool(r, config.FormFieldRewatch)

	return cfg, strings.TrimSpace(r.FormValue(config.FormFieldListName)), nil
}

func formInt(r *http.Request, field string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Join(errBadNumber, err)
	}
	return v, nil
}

func formBool(r *http.Request, field string) bool {
	switch strings.ToLower(strings.TrimSpace(r.FormValue(field))) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// writeListError turns a pipeline error into a localized plain-text status.
func (s *ListServer) writeListError(w http.ResponseWriter, tr *locale.Translator, err error) {
	if errors.Is(err, diary.ErrNoFileSelected) {
		http.Error(w, tr.Msg(config.TKeyStatusNoFile), http.StatusBadRequest)
		return
	}

	status := http.StatusInternalServerError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, diary.ErrDiaryTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, diary.ErrParse),
		errors.Is(err, diary.ErrUnsupportedContent),
		errors.Is(err, diary.ErrDiaryNotInArchive):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, diary.ErrInvalidConfig), errors.Is(err, errBadNumber):
		status = http.StatusBadRequest
	}

	msg := config.HTTPMsgInternalErr
	if status != http.StatusInternalServerError {
		msg = tr.MsgData(config.TKeyStatusError, map[string]any{"Error": err.Error()})
	}
	http.Error(w, msg, status)
}

func writeBody(w http.ResponseWriter, data []byte) {
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
