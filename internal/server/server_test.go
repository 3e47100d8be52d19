package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-boxdlist/internal/config"
	"github.com/tartampluch/go-boxdlist/internal/diary"
	"github.com/tartampluch/go-boxdlist/internal/locale"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

const testDiary = `Name,Year,Letterboxd URI,Rating,Rewatch,Watched Date
Foo,1999,http://x,4,,2024-05-02
Bar,2001,http://y,5,Yes,2024-06-01
Baz,2003,http://z,4.5,,2024-07-01
Old,1950,http://old,5,,2023-01-01
`

func newTestServer() *ListServer {
	gen := &diary.Generator{Clock: MockClock{CurrentTime: time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC)}}
	return NewListServer("127.0.0.1:0", gen, locale.Load())
}

// uploadRequest builds a multipart POST to the list route.
func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile(config.FormFieldDiary, filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, config.RouteList, &body)
	req.Header.Set(config.HeaderContentType, mw.FormDataContentType())
	return req
}

func serve(srv *ListServer, req *http.Request) *http.Response {
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w.Result()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// -----------------------------------------------------------------------------
// List Creation
// -----------------------------------------------------------------------------

func TestCreateList_Download(t *testing.T) {
	srv := newTestServer()

	resp := serve(srv, uploadRequest(t, "diary.csv", testDiary, nil))
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCSV, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, `attachment; filename="Your List.csv"`, resp.Header.Get(config.HeaderContentDisposition))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Equal(t, "Letterboxd URI,Title\nhttp://z,Baz\nhttp://x,Foo\n", body)
}

func TestCreateList_Options(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		wantBody string
		wantFile string
	}{
		{
			name:     "Explicit Year",
			fields:   map[string]string{config.FormFieldYear: "2023"},
			wantBody: "Letterboxd URI,Title\nhttp://old,Old\n",
			wantFile: `attachment; filename="Your List.csv"`,
		},
		{
			name:     "Top N With Rewatches",
			fields:   map[string]string{config.FormFieldListType: config.ListKindTop, config.FormFieldTopN: "2", config.FormFieldRewatch: "on"},
			wantBody: "Letterboxd URI,Title\nhttp://y,Bar\nhttp://old,Old\n",
			wantFile: `attachment; filename="Your List.csv"`,
		},
		{
			name:     "Custom Name",
			fields:   map[string]string{config.FormFieldListName: "Best of 2024"},
			wantBody: "Letterboxd URI,Title\nhttp://z,Baz\nhttp://x,Foo\n",
			wantFile: `attachment; filename="Best of 2024.csv"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(newTestServer(), uploadRequest(t, "diary.csv", testDiary, tt.fields))
			body := readBody(t, resp)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, tt.wantFile, resp.Header.Get(config.HeaderContentDisposition))
		})
	}
}

func TestCreateList_Calendar(t *testing.T) {
	resp := serve(newTestServer(), uploadRequest(t, "diary.csv", testDiary, map[string]string{config.FormFieldFormat: config.FormatICS}))
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderContentDisposition), "Your List.ics")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
}

func TestCreateList_NoFileSelected(t *testing.T) {
	t.Run("English", func(t *testing.T) {
		resp := serve(newTestServer(), uploadRequest(t, "", "", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "No file selected.", strings.TrimSpace(readBody(t, resp)))
	})

	t.Run("French", func(t *testing.T) {
		req := uploadRequest(t, "", "", nil)
		req.Header.Set(config.HeaderAcceptLanguage, "fr-FR,fr;q=0.9")
		resp := serve(newTestServer(), req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Aucun fichier sélectionné.", strings.TrimSpace(readBody(t, resp)))
	})

	t.Run("Not Multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, config.RouteList, strings.NewReader("year=2024"))
		req.Header.Set(config.HeaderContentType, "application/x-www-form-urlencoded")
		resp := serve(newTestServer(), req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "No file selected.", strings.TrimSpace(readBody(t, resp)))
	})
}

func TestCreateList_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		fields   map[string]string
		wantCode int
	}{
		{"Malformed CSV", "Name,Letterboxd URI\nFoo,http://x,extra\n", nil, http.StatusUnprocessableEntity},
		{"Binary Upload", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01", nil, http.StatusUnprocessableEntity},
		{"Bad Year", testDiary, map[string]string{config.FormFieldYear: "next"}, http.StatusBadRequest},
		{"Unknown Kind", testDiary, map[string]string{config.FormFieldListType: "weekly"}, http.StatusBadRequest},
		{"Unknown Format", testDiary, map[string]string{config.FormFieldFormat: "xlsx"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(newTestServer(), uploadRequest(t, "diary.csv", tt.content, tt.fields))
			body := readBody(t, resp)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.True(t, strings.HasPrefix(body, "Could not build the list:"), "body %q", body)
		})
	}
}

func TestCreateList_RateLimited(t *testing.T) {
	srv := newTestServer()
	srv.RPS = 0.001
	srv.Burst = 1
	router := srv.Router()

	first := httptest.NewRecorder()
	router.ServeHTTP(first, uploadRequest(t, "diary.csv", testDiary, nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, uploadRequest(t, "diary.csv", testDiary, nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, config.RateLimitRetry, second.Header().Get(config.HeaderRetryAfter))
}

// -----------------------------------------------------------------------------
// Page & Health
// -----------------------------------------------------------------------------

func TestIndex_RendersControls(t *testing.T) {
	resp := serve(newTestServer(), httptest.NewRequest(http.MethodGet, config.RouteIndex, nil))
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextHTML, resp.Header.Get(config.HeaderContentType))
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, `type="file"`)
	assert.Contains(t, body, `value="year-end" checked`)
	assert.Contains(t, body, `value="2024"`, "year defaults to the clock year")
	assert.Contains(t, body, `<div id="status" role="status" aria-live="polite">No file selected.</div>`)
}

func TestIndex_French(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, config.RouteIndex, nil)
	req.Header.Set(config.HeaderAcceptLanguage, "fr")
	body := readBody(t, serve(newTestServer(), req))

	assert.Contains(t, body, `<html lang="fr">`)
	assert.Contains(t, body, "Créer la liste")
}

func TestHealth(t *testing.T) {
	resp := serve(newTestServer(), httptest.NewRequest(http.MethodGet, config.RouteHealth, nil))
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

// -----------------------------------------------------------------------------
// Latest List (White-Box Testing of Handler Logic)
// -----------------------------------------------------------------------------

func TestLatest_ServingContent(t *testing.T) {
	srv := newTestServer()
	expected := []byte("Letterboxd URI,Title\nhttp://x,Foo\n")
	srv.Update(expected, config.DownloadFileName, config.MimeTextCSV)

	req := httptest.NewRequest(http.MethodGet, config.RouteLatest, nil)
	w := httptest.NewRecorder()
	srv.handleLatest(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCSV, resp.Header.Get(config.HeaderContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, expected, body)
}

func TestLatest_AfterUpload(t *testing.T) {
	srv := newTestServer()
	router := srv.Router()

	upload := httptest.NewRecorder()
	router.ServeHTTP(upload, uploadRequest(t, "diary.csv", testDiary, nil))
	require.Equal(t, http.StatusOK, upload.Code)

	latest := httptest.NewRecorder()
	router.ServeHTTP(latest, httptest.NewRequest(http.MethodGet, config.RouteLatest, nil))
	assert.Equal(t, http.StatusOK, latest.Code)
	assert.Equal(t, upload.Body.String(), latest.Body.String())
	assert.Equal(t, `attachment; filename="Your List.csv"`, latest.Header().Get(config.HeaderContentDisposition))
}

// TestLatest_Caching verifies that the server respects ETag headers (If-None-Match).
func TestLatest_Caching(t *testing.T) {
	srv := newTestServer()
	srv.Update([]byte("DATA_VERSION_1"), config.DownloadFileName, config.MimeTextCSV)

	w1 := httptest.NewRecorder()
	srv.handleLatest(w1, httptest.NewRequest(http.MethodGet, config.RouteLatest, nil))
	etag := w1.Result().Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag, "Server must provide an ETag")

	req2 := httptest.NewRequest(http.MethodGet, config.RouteLatest, nil)
	req2.Header.Set(config.HeaderIfNoneMatch, etag)
	w2 := httptest.NewRecorder()
	srv.handleLatest(w2, req2)

	resp2 := w2.Result()
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)
	body, _ := io.ReadAll(resp2.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")
}

func TestLatest_MethodNotAllowed(t *testing.T) {
	resp := serve(newTestServer(), httptest.NewRequest(http.MethodPost, config.RouteLatest, nil))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

// TestLatest_NotReady verifies the 503 behavior before any list exists.
func TestLatest_NotReady(t *testing.T) {
	srv := newTestServer()

	w := httptest.NewRecorder()
	srv.handleLatest(w, httptest.NewRequest(http.MethodGet, config.RouteLatest, nil))

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition validates the thread-safety of atomic.Pointer usage.
// Run this with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	srv := newTestServer()
	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				srv.Update([]byte(fmt.Sprintf("LIST:%d-%d", id, i)), config.DownloadFileName, config.MimeTextCSV)
				time.Sleep(1 * time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				srv.handleLatest(w, httptest.NewRequest(http.MethodGet, config.RouteLatest, nil))
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", w.Code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

// TestServer_Lifecycle spins up the actual TCP listener to verify network binding
// and graceful shutdown logic.
func TestServer_Lifecycle(t *testing.T) {
	const addr = "127.0.0.1:18099"

	srv := newTestServer()
	srv.Addr = addr
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	base := "http://" + addr
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + config.RouteHealth)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(base + config.RouteLatest)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	srv.Update([]byte("Letterboxd URI,Title\n"), config.DownloadFileName, config.MimeTextCSV)

	resp, err = http.Get(base + config.RouteLatest)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Letterboxd URI,Title\n", readBody(t, resp))

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}

func TestServer_AddrRequired(t *testing.T) {
	srv := newTestServer()
	srv.Addr = ""
	assert.EqualError(t, srv.Start(context.Background()), config.ErrAddrRequired)
}
