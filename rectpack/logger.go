package rectpack

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler 丢弃所有日志。Enabled 返回 false，调用方不会格式化参数
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger 设置包使用的日志器。默认不输出任何日志，传入 nil 恢复静默。
//
// 使用的级别:
//   - [slog.LevelDebug]: 箱子增长、未能放置的请求
//   - [slog.LevelError]: 内部不变量被破坏
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger 返回当前的日志器
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
