package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Boxd List"
	AppID             = "com.github.tartampluch.go-boxdlist"
	CommandName       = "go-boxdlist"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	// Used for creating secure cache directories.
	DirPermUserRWX fs.FileMode = 0700

	// FilePermExport and DirPermExport are used for generated lists, which
	// users are expected to open with other tools.
	FilePermExport fs.FileMode = 0644
	DirPermExport  fs.FileMode = 0755

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Log Rotation
// -----------------------------------------------------------------------------

const (
	LogMaxSizeMB   = 10
	LogMaxBackups  = 3
	LogMaxAgeDays  = 28
	LogCompressOld = true
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdShortRoot   = "Turn a Letterboxd diary export into an importable list"
	CmdUseExport   = "export"
	CmdShortExport = "Build a list from data/diary.csv and write it to out/"
	CmdUseServe    = "serve"
	CmdShortServe  = "Serve the upload page that builds a list in the browser"
	CmdUseGUI      = "gui"
	CmdShortGUI    = "Open the desktop window"

	FlagVersion          = "version"
	FlagDebug            = "debug"
	FlagInput            = "input"
	FlagOutDir           = "out-dir"
	FlagName             = "name"
	FlagList             = "list"
	FlagYear             = "year"
	FlagMonth            = "month"
	FlagDay              = "day"
	FlagTop              = "top"
	FlagIncludeRewatches = "include-rewatches"
	FlagAscending        = "ascending"
	FlagFormat           = "format"
	FlagAddr             = "addr"
	FlagRPS              = "rps"
	FlagBurst            = "burst"

	FlagDescVersion          = "Show application version and exit"
	FlagDescDebug            = "Enable debug logging to stdout"
	FlagDescInput            = "Diary CSV (or Letterboxd export zip) to read"
	FlagDescOutDir           = "Directory the list is written to"
	FlagDescName             = "List name, used as the output file name (default depends on --list)"
	FlagDescList             = "List kind: year-end or top"
	FlagDescYear             = "Watched year for year-end lists (0 = current year)"
	FlagDescMonth            = "Restrict year-end lists to a watched month (1-12, 0 = any)"
	FlagDescDay              = "Restrict year-end lists to a watched day (1-31, 0 = any)"
	FlagDescTop              = "Number of entries kept by top lists"
	FlagDescIncludeRewatches = "Keep rewatched entries"
	FlagDescAscending        = "Sort lowest rating first"
	FlagDescFormat           = "Output format: csv or ics"
	FlagDescAddr             = "Address the upload page listens on"
	FlagDescRPS              = "Maximum list requests per second"
	FlagDescBurst            = "Maximum burst of list requests"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgExportOutput  = "Wrote %d entries to %s\n"
)

// -----------------------------------------------------------------------------
// Paths & Defaults
// -----------------------------------------------------------------------------

const (
	// DefaultDiaryPath is the fixed location read by the filesystem mode.
	DefaultDiaryPath = "data/diary.csv"
	DefaultOutDir    = "out"

	// DiaryArchiveEntry is the diary file inside a full Letterboxd export zip.
	DiaryArchiveEntry = "diary.csv"

	DownloadFileBase = "Your List"
	DownloadFileName = DownloadFileBase + ExtCSV

	FormatYearEndListName = "%d First Watches Ranked"
	FormatTopListName     = "Top %d"

	ExtCSV = ".csv"
	ExtICS = ".ics"
	ExtZip = ".zip"

	ListKindYearEnd = "year-end"
	ListKindTop     = "top"
	FormatCSV       = "csv"
	FormatICS       = "ics"

	DefaultListKind = ListKindYearEnd
	DefaultFormat   = FormatCSV
	DefaultTopN     = 10

	SupportedLanguagesCSV = "en,fr"
	DefaultLanguage       = "en"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Diary CSV Format
// -----------------------------------------------------------------------------

const (
	CSVColDate        = "Date"
	CSVColName        = "Name"
	CSVColYear        = "Year"
	CSVColURI         = "Letterboxd URI"
	CSVColRating      = "Rating"
	CSVColRewatch     = "Rewatch"
	CSVColTags        = "Tags"
	CSVColWatchedDate = "Watched Date"

	// Export header of a Letterboxd list import.
	ListColURI   = "Letterboxd URI"
	ListColTitle = "Title"

	TagSeparator  = ","
	DateFormatISO = "2006-01-02"

	// MaxDiarySize bounds how much of a diary (or export archive) is read.
	MaxDiarySize = 64 * 1024 * 1024 // 64MB
)

// RewatchFalseValues are the non-empty Rewatch cells read as "first watch".
var RewatchFalseValues = []string{"false", "no", "0"}

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Boxd List//Diary//EN"
	ICalCalName = "Letterboxd Diary"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropURL         = "URL"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropCategories  = "CATEGORIES"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	FormatUIDInput      = "%s|%s"
	FormatEventSummary  = "%s (%d)"
	FormatEventRating   = "Rating: %.1f/5"
	FormatEventRewatch  = "Rewatch"
	EventDescUnrated    = "Unrated"
	EventDescSeparator  = " · "
	ICalCategorySep     = ","
	ICalStubLineEnding  = "\r\n"
	ICalStubPropVersion = "VERSION:" + ICalVersion
	ICalStubPropProdid  = "PRODID:" + ICalProdid

	// StubVCalendar is the minimal valid iCalendar object used when no entry has a watched date.
	StubVCalendar = "BEGIN:VCALENDAR" + ICalStubLineEnding +
		ICalStubPropVersion + ICalStubLineEnding +
		ICalStubPropProdid + ICalStubLineEnding +
		"END:VCALENDAR" + ICalStubLineEnding
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	DefaultAddr        = LocalhostBindAddr + ":18081"
	DefaultRPS         = 2.0
	DefaultBurst       = 4
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 30 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	RateLimitRetry     = "1"
	MaxUploadMemory    = 8 * 1024 * 1024

	RouteIndex  = "/"
	RouteList   = "/api/list"
	RouteLatest = "/api/list/latest"
	RouteHealth = "/health"

	FormFieldDiary    = "diary"
	FormFieldListType = "listType"
	FormFieldYear     = "year"
	FormFieldTopN     = "n"
	FormFieldFormat   = "format"
	FormFieldListName = "listName"
	FormFieldRewatch  = "includeRewatches"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderCacheControl       = "Cache-Control"
	HeaderETag               = "ETag"
	HeaderLastModified       = "Last-Modified"
	HeaderRetryAfter         = "Retry-After"
	HeaderXContentType       = "X-Content-Type-Options"
	HeaderIfNoneMatch        = "If-None-Match"
	HeaderIfModifiedSince    = "If-Modified-Since"
	HeaderAcceptLanguage     = "Accept-Language"

	MimeTextCSV      = "text/csv"
	MimeTextCalendar = "text/calendar; charset=utf-8"
	MimeTextHTML     = "text/html; charset=utf-8"
	MimeJSON         = "application/json"
	MimeZip          = "application/zip"
	MimeTextPrefix   = "text/"
	MimeNoSniff      = "nosniff"

	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	DispositionAttachment = "attachment"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrDiaryOpen          = "failed to open diary"
	ErrDiaryRead          = "failed to read diary"
	ErrCSVParse           = "failed to parse diary CSV"
	ErrCSVWrite           = "failed to write list CSV"
	ErrUnsupportedContent = "unsupported diary content"
	ErrArchiveRead        = "failed to read diary archive"
	ErrDiaryNotInArchive  = "archive does not contain " + DiaryArchiveEntry
	ErrDiaryTooLarge      = "diary exceeds the size limit"
	ErrNoFileSelected     = "no file selected"
	ErrInvalidConfig      = "invalid list configuration"
	ErrUnknownListKind    = "unknown list kind"
	ErrUnknownFormat      = "unknown export format"
	ErrNegativeTopN       = "top list size must not be negative"
	ErrMonthRange         = "month must be between 0 and 12"
	ErrDayRange           = "day must be between 0 and 31"
	ErrICalEncode         = "failed to encode iCalendar data"
	ErrInvalidListName    = "invalid list name"
	ErrExportDir          = "failed to create export directory"
	ErrExportWrite        = "failed to write export"
	ErrServerStartup      = "server startup failed"
	ErrServerShutdown     = "server shutdown failed"
	ErrAddrRequired       = "server address is required"
	ErrWriteResp          = "failed to write response body"
	ErrUploadParse        = "failed to read upload"
	ErrTemplateRender     = "failed to render page"
	ErrInvalidNumber      = "must be a whole number"
	ErrLogFile            = "failed to open log file"
	ErrCacheDir           = "could not determine user cache dir"
	ErrCreateDir          = "could not create app cache dir"
	ErrAppFailed          = "application failed unexpectedly"
	ErrLocalesAccess      = "failed to access embedded locales"
	ErrLocaleLoad         = "failed to load locale file"
	ErrSaveList           = "failed to save list"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgNotReady     = "No list generated yet, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgRateLimited  = "Too many requests, please slow down."
	HTTPStatusOK        = "ok"
	HTTPKeyStatus       = "status"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgListStarted     = "List generation started"
	MsgListDone        = "List generation successful"
	MsgDiaryParsed     = "Diary parsed"
	MsgRatingUnrated   = "Unparseable rating treated as unrated"
	MsgYearUnknown     = "Unparseable release year treated as unknown"
	MsgArchiveUnwrap   = "Reading diary from export archive"
	MsgContentSniffed  = "Diary content detected"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Latest list cache updated"
	MsgUploadReceived  = "Diary upload received"
	MsgUploadRejected  = "Diary upload rejected"
	MsgRateLimited     = "Request rate limited"
	MsgExportWritten   = "List written"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgWindowOpen      = "Opening main window"
	MsgFileSelected    = "Diary file selected"
	MsgListSaved       = "List saved"
	MsgSaveCancelled   = "Save dialog cancelled"
	MsgPickerCancelled = "File picker cancelled"
	MsgPreviewOpen     = "Opening preview window"
	MsgPreviewSorted   = "Preview table sorted"
	MsgPrefsSaved      = "List options saved"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle          = "win_title"
	TKeyPageTitle         = "page_title"
	TKeyPageIntro         = "page_intro"
	TKeyLblDiary          = "lbl_diary"
	TKeyBtnChoose         = "btn_choose"
	TKeyBtnProcess        = "btn_process"
	TKeyLblListType       = "lbl_list_type"
	TKeyListYearEnd       = "list_year_end"
	TKeyListTop           = "list_top"
	TKeyLblYear           = "lbl_year"
	TKeyLblTopN           = "lbl_top_n"
	TKeyLblLanguage       = "lbl_language"
	TKeyLblIncludeRewatch = "lbl_include_rewatches"
	TKeyLblFormat         = "lbl_format"
	TKeyLblListName       = "lbl_list_name"
	TKeyBtnSave           = "btn_save"
	TKeyStatusNoFile      = "status_no_file"
	TKeyStatusSelected    = "status_selected" // Requires Name
	TKeyStatusDone        = "status_done"     // Requires Count (plural)
	TKeyStatusError       = "status_error"    // Requires Error
	TKeyStatusSaved       = "status_saved"    // Requires Path
	TKeyLblFooter         = "lbl_footer"
	TKeyBtnPreview        = "btn_preview"
	TKeyWinPreview        = "win_preview"
	TKeyColTitle          = "col_title"
	TKeyColYear           = "col_year"
	TKeyColRating         = "col_rating"
	TKeyColWatched        = "col_watched"
	TKeyErrNumber         = "err_number"
)

// -----------------------------------------------------------------------------
// Fallbacks
// -----------------------------------------------------------------------------

const (
	FallbackStatusNoFile = "No file selected."
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	WindowWidth         = 520
	WindowHeight        = 380
	PreviewWinWidth     = 640
	PreviewWinHeight    = 480
	LayoutColumnsDouble = 2

	// Preview table columns
	ColIDTitle      = 0
	ColIDYear       = 1
	ColIDRating     = 2
	ColIDWatched    = 3
	PreviewColumns  = 4
	ColWidthTitle   = 300
	ColWidthYear    = 70
	ColWidthRating  = 80
	ColWidthWatched = 120

	TablePlaceholder = "Placeholder Text"
	SortIconAsc      = " ▲"
	SortIconDesc     = " ▼"
	UnknownValue     = "—"
	FormatRating     = "%.1f"

	PrefLanguage       = "language"
	PrefListKind       = "list_kind"
	PrefYear           = "year"
	PrefTopN           = "top_n"
	PrefFormat         = "format"
	PrefIncludeRewatch = "include_rewatches"
	PrefLastListName   = "list_name"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent   = "component"
	LogKeyError       = "error"
	LogKeyPath        = "path"
	LogKeyFile        = "file"
	LogKeyName        = "name"
	LogKeyLang        = "lang"
	LogKeyKey         = "key"
	LogKeyAddr        = "addr"
	LogKeyKind        = "kind"
	LogKeyFormat      = "format"
	LogKeyYear        = "year"
	LogKeyValue       = "value"
	LogKeyContentType = "content_type"
	LogKeySizeBytes   = "size_bytes"
	LogKeyETag        = "etag"
	LogKeyStats       = "stats"
	LogKeyParsed      = "entries_parsed"
	LogKeyKept        = "entries_kept"
	LogKeyCount       = "count"
	LogKeyDuration    = "duration_ms"
	LogKeyRemote      = "remote_addr"
	LogKeySortCol     = "sort_col"
	LogKeySortAsc     = "sort_asc"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "build_date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain   = "main"
	CompEngine = "engine"
	CompLoader = "loader"
	CompServer = "server"
	CompUI     = "ui"
	CompExport = "export"
	CompI18n   = "i18n"
)
