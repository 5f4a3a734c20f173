package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeySlug       = "slug"
	KeyTool       = "tool"
	KeyCategory   = "category"
	KeyPost       = "post"
	KeyTemplate   = "template"
	KeyCount      = "count"
	KeyOutput     = "output"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func Slug(s string) slog.Attr           { return slog.String(KeySlug, s) }
func Tool(name string) slog.Attr        { return slog.String(KeyTool, name) }
func Category(name string) slog.Attr    { return slog.String(KeyCategory, name) }
func Post(title string) slog.Attr       { return slog.String(KeyPost, title) }
func Template(name string) slog.Attr    { return slog.String(KeyTemplate, name) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Output(dir string) slog.Attr       { return slog.String(KeyOutput, dir) }
func Method(m string) slog.Attr         { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr         { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr     { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(addr string) slog.Attr  { return slog.String(KeyRemoteAddr, addr) }
func Elapsed(d time.Duration) slog.Attr { return DurationMS(float64(d.Microseconds()) / 1000) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
