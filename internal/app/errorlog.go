package app

import (
	"log"

	"github.com/sirupsen/logrus"
)

// newServerErrorLog routes net/http's internal errors into logrus
func newServerErrorLog(l *logrus.Logger) *log.Logger {
	return log.New(l.WithField("component", "http").WriterLevel(logrus.WarnLevel), "", 0)
}
