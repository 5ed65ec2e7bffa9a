package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Log é o logger do processo. Configure uma vez no main via Setup.
var Log = logrus.New()

func init() {
	Log.SetFormatter(jsonFormatter())
	Log.SetLevel(logrus.InfoLevel)
	Log.SetOutput(os.Stdout)
}

func jsonFormatter() logrus.Formatter {
	return &logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	}
}

// Setup aplica nível e formato (json|text). Nível inválido cai para info.
func Setup(level, format string, out io.Writer) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.EqualFold(format, "text") {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	} else {
		Log.SetFormatter(jsonFormatter())
	}

	if out != nil {
		Log.SetOutput(out)
	}
}

func WithComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
