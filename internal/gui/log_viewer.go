package gui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogViewer is a widget that displays log messages, newest first. It is
// also a zapcore.WriteSyncer so the application logger can write into it.
type LogViewer struct {
	widget.BaseWidget

	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll

	mu          sync.Mutex
	messages    []string
	maxMessages int
	now         func() time.Time
	refresh     func(text string)
}

// NewLogViewer creates a new log viewer widget
func NewLogViewer() *LogViewer {
	v := &LogViewer{
		maxMessages: 500,
		now:         time.Now,
	}

	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable() // Read-only
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.SetMinSize(fyne.NewSize(0, 120))

	v.container = container.NewBorder(
		widget.NewLabel("Log messages (newest first):"),
		nil, nil, nil,
		v.scrollView,
	)

	v.refresh = func(text string) {
		fyne.Do(func() {
			v.logEntry.SetText(text)
			v.scrollView.Offset = fyne.NewPos(0, 0)
			v.scrollView.Refresh()
		})
	}

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// Write implements io.Writer, one message per line
func (v *LogViewer) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			v.AddMessage(line)
		}
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer
func (v *LogViewer) Sync() error {
	return nil
}

// AddMessage adds a message to the log
func (v *LogViewer) AddMessage(message string) {
	v.mu.Lock()
	timestamp := v.now().Format("15:04:05")
	v.messages = append([]string{fmt.Sprintf("[%s] %s", timestamp, message)}, v.messages...)
	if len(v.messages) > v.maxMessages {
		v.messages = v.messages[:v.maxMessages]
	}
	text := strings.Join(v.messages, "\n")
	v.mu.Unlock()

	v.refresh(text)
}

// Messages returns the messages, newest first
func (v *LogViewer) Messages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.messages...)
}

// Clear clears all log messages
func (v *LogViewer) Clear() {
	v.mu.Lock()
	v.messages = v.messages[:0]
	v.mu.Unlock()

	v.refresh("")
}

// Tee returns a logger writing to base and to the viewer
func (v *LogViewer) Tee(base *zap.Logger, level zapcore.LevelEnabler) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "" // The viewer adds its own timestamp
	encoderConfig.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(v), level)

	if base == nil {
		return zap.New(core)
	}
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, core)
	}))
}
