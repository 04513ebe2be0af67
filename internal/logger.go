package internal

import (
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"os"
	"paygate/entity"
	"paygate/services"
	"sync"
	"time"
)

var (
	logOutput zapcore.WriteSyncer = zapcore.Lock(os.Stdout)
	logMutex  sync.RWMutex
)

// SetLogFile redirects every logger created afterwards to a rotated file.
func SetLogFile(file string, maxSize, maxBackups int) {
	if file == "" {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	logOutput = zapcore.AddSync(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   true,
	})
}

// Logger implements services.LogHandler on zap; info and above also go to the database when one is set.
type Logger struct {
	category string
	log      *zap.Logger
	database services.Database
}

func NewLogger(category string, debug bool, database services.Database) *Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	logMutex.RLock()
	output := logOutput
	logMutex.RUnlock()

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), output, level)
	return &Logger{
		category: category,
		log:      zap.New(core).Named(category),
		database: database,
	}
}

func (l *Logger) Debug(text string) {
	l.log.Debug(text)
}

func (l *Logger) Info(text string) {
	l.log.Info(text)
	l.store(zapcore.InfoLevel, text)
}

func (l *Logger) Warn(text string) {
	l.log.Warn(text)
	l.store(zapcore.WarnLevel, text)
}

func (l *Logger) Error(text string, err error) {
	l.log.Error(text, zap.Error(err))
	l.store(zapcore.ErrorLevel, fmt.Sprintf("%s: %v", text, err))
}

func (l *Logger) store(level zapcore.Level, text string) {
	if l.database == nil {
		return
	}
	message := &entity.LogMessage{
		Time:     time.Now().UTC(),
		Level:    level.String(),
		Category: l.category,
		Text:     text,
	}
	if err := l.database.WriteLogMessage(message); err != nil {
		l.log.Warn("write log to database failed", zap.Error(err))
	}
}

// secret masks an identifier for logging.
func secret(some string) string {
	if len(some) > 5 {
		return fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		return "?"
	}
	return "***"
}
