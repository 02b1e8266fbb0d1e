package core

import "github.com/sirupsen/logrus"

// logReporter implements Reporter over a *logrus.Logger, mapping
// spec.md §6's report(char_tag)/PHASE/LOG collaborators onto structured
// fields instead of the teacher's bare fmt.Printf (main.go's
// printStatistics). A nil logger makes every method a no-op.
type logReporter struct {
	log *logrus.Logger
}

func newLogReporter(log *logrus.Logger) *logReporter {
	return &logReporter{log: log}
}

func (r *logReporter) Report(tag byte) {
	if r.log == nil {
		return
	}
	r.log.WithField("tag", string(tag)).Debug("report")
}

func (r *logReporter) Phase(msg string, args ...interface{}) {
	if r.log == nil {
		return
	}
	r.log.Debugf("PHASE "+msg, args...)
}

func (r *logReporter) Log(msg string, args ...interface{}) {
	if r.log == nil {
		return
	}
	r.log.Infof(msg, args...)
}
