package authoring

import (
	"fmt"
	"io"
	"sync"

	"coursestudio/internal/logger"

	"go.uber.org/zap"
)

// Notifier показывает короткие уведомления (toast).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

type Toast struct {
	Kind    ToastKind
	Message string
}

// LogNotifier пишет уведомления в общий zap-логгер.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { logger.Log.Info("toast", zap.String("message", msg)) }
func (LogNotifier) Error(msg string)   { logger.Log.Warn("toast", zap.String("message", msg)) }

// WriterNotifier печатает уведомления в терминал.
type WriterNotifier struct {
	mu sync.Mutex
	W  io.Writer
}

func (n *WriterNotifier) Success(msg string) { n.print("✓", msg) }
func (n *WriterNotifier) Error(msg string)   { n.print("✗", msg) }

func (n *WriterNotifier) print(mark, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.W, "%s %s\n", mark, msg)
}

// Recorder запоминает уведомления по порядку.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Success(msg string) { r.add(ToastSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(ToastError, msg) }

func (r *Recorder) add(kind ToastKind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Kind: kind, Message: msg})
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}
