package logging

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger = logrus.New()
var once sync.Once

// EventFormatter renders one event per line with a generated event id so log
// aggregation can correlate entries.
type EventFormatter struct {
	SystemName string
}

func (f *EventFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	if entry.Buffer != nil {
		b = entry.Buffer
	}

	b.WriteString(fmt.Sprintf("time=%s ", entry.Time.Format("2006-01-02T15:04:05")))
	b.WriteString(fmt.Sprintf("source=%s ", f.SystemName))
	b.WriteString(fmt.Sprintf("level=%s ", strings.ToUpper(entry.Level.String())))
	b.WriteString(fmt.Sprintf("event=%s ", uuid.New().String()))
	b.WriteString(fmt.Sprintf("msg=%q", entry.Message))
	if entry.HasCaller() {
		b.WriteString(fmt.Sprintf(" location=%s:%d", entry.Caller.File, entry.Caller.Line))
	}
	b.WriteByte('\n')

	return b.Bytes(), nil
}

// InitLogger configures the global logger. With LOG_FILE set, output rotates
// through lumberjack; otherwise it goes to stdout.
func InitLogger() {
	once.Do(func() {
		if logFile := os.Getenv("LOG_FILE"); logFile != "" {
			Logger.SetOutput(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		} else {
			Logger.SetOutput(os.Stdout)
		}

		Logger.SetFormatter(&EventFormatter{SystemName: "planora-backend"})
		Logger.SetLevel(logrus.InfoLevel)

		Logger.Info("logger initialized")
	})
}
