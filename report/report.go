// Package report carries diagnostics out of the numerical packages.
//
// The model emits structured events (transform chosen, loop mode, warnings,
// timing) to a Reporter; sinks decide how to render them. TextReporter
// prints the classic verbosity report, ZapReporter forwards to a zap
// logger and Recorder keeps events in memory.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind classifies an event and fixes the verbosity level at which it is
// printed.
type Kind int

const (
	Warning Kind = iota // level 1
	Timing              // level 2
	Header              // level 3
	Setting             // level 3
	Detail              // level 4
)

// Level is the lowest verbosity at which events of this kind are shown.
func (k Kind) Level() int {
	switch k {
	case Warning:
		return 1
	case Timing:
		return 2
	case Header, Setting:
		return 3
	}
	return 4
}

func (k Kind) String() string {
	switch k {
	case Warning:
		return "warning"
	case Timing:
		return "timing"
	case Header:
		return "header"
	case Setting:
		return "setting"
	case Detail:
		return "detail"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event is one diagnostic message.
type Event struct {
	Kind    Kind
	Key     string        // setting name, header title or timing stage
	Value   string        // setting value or warning text
	Elapsed time.Duration // Timing only
}

// Reporter receives events. Implementations must be safe for concurrent
// use.
type Reporter interface {
	Report(Event)
}

// Discard drops every event.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Event) {}

// Warn reports a warning.
func Warn(r Reporter, format string, args ...any) {
	r.Report(Event{Kind: Warning, Value: fmt.Sprintf(format, args...)})
}

// Set reports a setting.
func Set(r Reporter, key, value string) {
	r.Report(Event{Kind: Setting, Key: key, Value: value})
}

// Multi fans events out to several reporters.
func Multi(rs ...Reporter) Reporter {
	return multi(rs)
}

type multi []Reporter

func (m multi) Report(e Event) {
	for _, r := range m {
		r.Report(e)
	}
}

// TextReporter renders events as text lines up to a verbosity level:
// 0 nothing, 1 warnings, 2 timing, 3 settings, 4 details.
type TextReporter struct {
	mu    sync.Mutex
	w     io.Writer
	level int
}

func NewTextReporter(w io.Writer, level int) *TextReporter {
	return &TextReporter{w: w, level: level}
}

func (t *TextReporter) Report(e Event) {
	if e.Kind.Level() > t.level {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	switch e.Kind {
	case Warning:
		fmt.Fprintf(t.w, "* WARNING :: %s\n", e.Value)
	case Timing:
		fmt.Fprintf(t.w, "   :: %s :: %s\n", e.Key, formatElapsed(e.Elapsed))
	case Header:
		fmt.Fprintf(t.w, "\n   %s\n", e.Key)
	default:
		fmt.Fprintf(t.w, "   %-16s:  %s\n", e.Key, e.Value)
	}
}

// formatElapsed prints a duration as h:mm:ss.ffffff.
func formatElapsed(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return fmt.Sprintf("%d:%02d:%02d.%06d", h, m, s, d/time.Microsecond)
}

// ZapReporter forwards events to a zap logger as structured fields.
type ZapReporter struct {
	Logger *zap.Logger
}

func (z ZapReporter) Report(e Event) {
	switch e.Kind {
	case Warning:
		z.Logger.Warn(e.Value)
	case Timing:
		z.Logger.Info("timing", zap.String("stage", e.Key), zap.Duration("elapsed", e.Elapsed))
	case Header:
		z.Logger.Debug("section", zap.String("title", e.Key))
	case Setting:
		z.Logger.Info("setting", zap.String("key", settingKey(e.Key)), zap.String("value", e.Value))
	default:
		z.Logger.Debug("detail", zap.String("key", settingKey(e.Key)), zap.String("value", e.Value))
	}
}

// settingKey strips the indentation used for sub-settings.
func settingKey(k string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(k), ">"))
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Report(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Warnings returns the text of the recorded warnings.
func (r *Recorder) Warnings() []string {
	var w []string
	for _, e := range r.Events() {
		if e.Kind == Warning {
			w = append(w, e.Value)
		}
	}
	return w
}

// Lookup returns the value of the last setting or detail with the given
// key, ignoring indentation.
func (r *Recorder) Lookup(key string) (string, bool) {
	events := r.Events()
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if (e.Kind == Setting || e.Kind == Detail) && settingKey(e.Key) == settingKey(key) {
			return e.Value, true
		}
	}
	return "", false
}
