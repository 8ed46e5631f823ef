package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Types int

const (
	Debug Types = iota
	Info
	Warn
	Error
)

// Logger is a tagged view onto the shared logrus logger.
type Logger struct {
	entry *logrus.Entry
}

type manager struct {
	base    *logrus.Logger
	logFile *os.File
	runID   string
}

var (
	logManager *manager
	once       sync.Once
	mu         sync.RWMutex
)

// InitLogger sets up the shared logger. When logPath is set, entries are
// written to a timestamped file inside it; in dev mode they are mirrored into
// view, which is normally the debug console.
func InitLogger(dev bool, logPath string, level string, view io.Writer) {
	once.Do(func() {
		m := newManager(dev, logPath, level, view)
		mu.Lock()
		logManager = m
		mu.Unlock()
	})
}

func newManager(dev bool, logPath string, level string, view io.Writer) *manager {
	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	base.SetLevel(parseLevel(level))

	m := &manager{
		base:  base,
		runID: uuid.NewString(),
	}

	if logPath != "" {
		timestamp := time.Now().Format("20060102_150405")
		fileName := fmt.Sprintf("stockchat_log_%s.log", timestamp)
		filePath := filepath.Join(logPath, fileName)

		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Failed to open log file: %s", err)
		}
		m.logFile = file
		base.SetOutput(file)
	}

	if dev && view != nil {
		base.AddHook(&viewHook{view: view})
	}

	return m
}

func parseLevel(level string) logrus.Level {
	switch level {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// NewLogger returns a logger tagged with the calling component's name. Before
// InitLogger runs, the returned logger discards everything.
func NewLogger(tag string) *Logger {
	mu.RLock()
	m := logManager
	mu.RUnlock()

	var base *logrus.Logger
	fields := logrus.Fields{"tag": tag}
	if m == nil {
		base = logrus.New()
		base.SetOutput(io.Discard)
	} else {
		base = m.base
		fields["run"] = m.runID
	}

	return &Logger{
		entry: base.WithFields(fields),
	}
}

func (l *Logger) log(logTypes Types, v ...interface{}) {
	message := fmt.Sprint(v...)
	switch logTypes {
	case Debug:
		l.entry.Debug(message)
	case Info:
		l.entry.Info(message)
	case Warn:
		l.entry.Warn(message)
	case Error:
		l.entry.Error(message)
	}
}

func (l *Logger) Debug(v ...interface{}) {
	l.log(Debug, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.log(Info, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.log(Warn, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.log(Error, v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.log(Debug, fmt.Sprintf(format, v...))
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.log(Info, fmt.Sprintf(format, v...))
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.log(Warn, fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.log(Error, fmt.Sprintf(format, v...))
}

// Close flushes and closes the shared log file, if any. Later entries from
// any tagged logger are discarded.
func (l *Logger) Close() {
	mu.RLock()
	m := logManager
	mu.RUnlock()
	if m != nil {
		m.close()
	}
}

func (m *manager) close() {
	mu.Lock()
	defer mu.Unlock()
	if m.logFile == nil {
		return
	}
	m.base.SetOutput(io.Discard)
	m.logFile.Sync()
	m.logFile.Close()
	m.logFile = nil
}

// viewHook writes colored, tview-tagged lines to the debug console.
type viewHook struct {
	view io.Writer
	mu   sync.Mutex
}

func (h *viewHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *viewHook) Fire(entry *logrus.Entry) error {
	tag, _ := entry.Data["tag"].(string)
	format := levelFormat(entry.Level)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.view, format, tag, entry.Message)
	return err
}

func levelFormat(level logrus.Level) string {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "[grey]DEBUG (%s): %s[-]\n"
	case logrus.InfoLevel:
		return "[green]INFO (%s): %s[-]\n"
	case logrus.WarnLevel:
		return "[yellow]WARN (%s): %s[-]\n"
	default:
		return "[red]ERROR (%s): %s[-]\n"
	}
}
