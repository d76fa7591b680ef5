package payment

import (
	"context"

	"lezat-lumer/internal/logger"
	"lezat-lumer/internal/notify"

	"go.uber.org/zap"
)

const (
	MsgCopied     = "Nomor rekening berhasil disalin!"
	MsgCopyFailed = "Gagal menyalin nomor rekening"
)

type TextWriter interface {
	WriteText(ctx context.Context, text string) error
}

// TextWriterFunc adapts a function to TextWriter.
type TextWriterFunc func(ctx context.Context, text string) error

func (f TextWriterFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Clipboard copies text with the primary writer and falls back to the second one.
// The outcome is reported as a toast, never as an error.
type Clipboard struct {
	primary  TextWriter
	fallback TextWriter
	notifier Notifier
}

func NewClipboard(primary, fallback TextWriter, n Notifier) *Clipboard {
	return &Clipboard{primary: primary, fallback: fallback, notifier: n}
}

// Copy reports whether either writer succeeded.
func (c *Clipboard) Copy(ctx context.Context, text string) bool {
	log := logger.FromCtx(ctx)

	if c.primary != nil {
		err := c.primary.WriteText(ctx, text)
		if err == nil {
			c.notifier.Toast(notify.LevelSuccess, MsgCopied)
			return true
		}
		log.Debug("clipboard write failed, trying fallback", zap.Error(err))
	}

	if c.fallback != nil {
		err := c.fallback.WriteText(ctx, text)
		if err == nil {
			c.notifier.Toast(notify.LevelSuccess, MsgCopied)
			return true
		}
		log.Warn("clipboard fallback failed", zap.Error(err))
	}

	c.notifier.Toast(notify.LevelError, MsgCopyFailed)
	return false
}
