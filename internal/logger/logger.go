// Package logger is the process-wide structured logger.  Every line carries
// a message plus a flat field map; output is JSON outside development.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

// Setup configures level and format.  env "development" switches to the
// text formatter; an unknown level keeps info.
func Setup(env, level string) {
	if env == "development" {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) { base.SetOutput(w) }

func entry(fields map[string]interface{}) *logrus.Entry {
	e := base.WithField("service", "packer")
	if len(fields) > 0 {
		e = e.WithFields(logrus.Fields(fields))
	}
	return e
}

func Debug(message string, fields map[string]interface{}) {
	entry(fields).Debug(message)
}

func Info(message string, fields map[string]interface{}) {
	entry(fields).Info(message)
}

func Warn(message string, fields map[string]interface{}) {
	entry(fields).Warn(message)
}

func Error(message string, fields map[string]interface{}) {
	entry(fields).Error(message)
}

// Fatal logs and exits with status 1.
func Fatal(message string, fields map[string]interface{}) {
	entry(fields).Fatal(message)
}
