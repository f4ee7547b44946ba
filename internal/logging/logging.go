package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

func Logger() *logrus.Logger {
	return logg
}

// SetLevel applies a level name from configuration; unknown names keep info.
func SetLevel(name string) {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		logg.Warnf("unknown log level %q, keeping info", name)
		return
	}
	logg.SetLevel(lvl)
}
