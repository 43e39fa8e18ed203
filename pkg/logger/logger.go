package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	base    *zap.Logger
	sugar   *zap.SugaredLogger
	logFile *os.File
	fileBuf *zapcore.BufferedWriteSyncer
)

// InitLogger writes human readable logs to stdout and, when filename is not
// empty, JSON lines to filename as well. File output is buffered until Close.
func InitLogger(filename string, level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), lvl),
	}

	var (
		f   *os.File
		buf *zapcore.BufferedWriteSyncer
	)
	if filename != "" {
		f, err = os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		buf = &zapcore.BufferedWriteSyncer{WS: zapcore.AddSync(f)}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), buf, lvl))
	}

	mu.Lock()
	defer mu.Unlock()
	closeFile()
	logFile = f
	fileBuf = buf
	base = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	sugar = base.Sugar()
	return nil
}

// SetLogger replaces the active logger. Used by tests to observe output.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	sugar = l.Sugar()
}

// L returns the active logger.
func L() *zap.Logger {
	return current().Desugar()
}

// Close flushes and closes the log file. Safe to call more than once.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if base != nil {
		_ = base.Sync()
	}
	closeFile()
}

func closeFile() {
	if fileBuf != nil {
		_ = fileBuf.Stop()
		fileBuf = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func current() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s != nil {
		return s
	}
	if err := InitLogger("", "info"); err != nil {
		SetLogger(zap.NewNop())
	}
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Info(format string, v ...interface{}) {
	current().Infof(format, v...)
}

func Infof(format string, v ...interface{}) {
	Info(format, v...)
}

func Debugf(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

func Error(format string, v ...interface{}) {
	current().Errorf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	Error(format, v...)
}

func Warn(format string, v ...interface{}) {
	current().Warnf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	Warn(format, v...)
}

// Warnw logs msg with structured key/value pairs.
func Warnw(msg string, keysAndValues ...interface{}) {
	current().Warnw(msg, keysAndValues...)
}
