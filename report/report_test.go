package report

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampleEvents() []Event {
	return []Event{
		{Kind: Header, Key: ":: layeredem START ::"},
		{Kind: Setting, Key: "frequency  [Hz]", Value: "1 2 3"},
		{Kind: Setting, Key: "Hankel", Value: "DLF (Fast Hankel Transform)"},
		{Kind: Setting, Key: "  > Filter", Value: "dlf_hankel_361"},
		{Kind: Setting, Key: "  > DLF type", Value: "Lagged Convolution"},
		{Kind: Detail, Key: "  > base range", Value: "2.06e-09 - 8.89e+06"},
		{Kind: Setting, Key: "Loop over", Value: "Frequencies"},
		{Kind: Warning, Value: "`etaH != etaV` at receiver level, only etaH considered"},
		{Kind: Timing, Key: "layeredem END; runtime", Elapsed: 1234567 * time.Microsecond},
	}
}

func TestTextReporterGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, level := range []struct {
		name  string
		level int
	}{
		{"level0", 0},
		{"level1", 1},
		{"level4", 4},
	} {
		t.Run(level.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewTextReporter(&buf, level.level)
			for _, e := range sampleEvents() {
				r.Report(e)
			}
			g.Assert(t, level.name, buf.Bytes())
		})
	}
}

func TestTextReporterLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf, 3)
	Set(r, "Hankel", "DLF (Fast Hankel Transform)")
	Set(r, "  > DLF type", "Standard")
	Set(r, "Loop over", "None (all vectorized)")
	Warn(r, "`mpermH != mpermV` at %s level, only mpermH considered", "source")
	r.Report(Event{Kind: Detail, Key: "hidden", Value: "at level 4"})
	out := buf.String()
	assert.Contains(t, out, "Hankel          :  DLF (Fast Hankel Transform)")
	assert.Contains(t, out, "  > DLF type    :  Standard")
	assert.Contains(t, out, "Loop over       :  None (all vectorized)")
	assert.Contains(t, out, "* WARNING :: `mpermH != mpermV` at source level, ")
	assert.NotContains(t, out, "hidden")
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0:00:00.000000", formatElapsed(0))
	assert.Equal(t, "1:02:03.000004", formatElapsed(time.Hour+2*time.Minute+3*time.Second+4*time.Microsecond))
}

func TestKindLevels(t *testing.T) {
	assert.Equal(t, 1, Warning.Level())
	assert.Equal(t, 2, Timing.Level())
	assert.Equal(t, 3, Header.Level())
	assert.Equal(t, 3, Setting.Level())
	assert.Equal(t, 4, Detail.Level())
	assert.Equal(t, "setting", Setting.String())
}

func TestZapReporter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := ZapReporter{Logger: zap.New(core)}
	for _, e := range sampleEvents() {
		r.Report(e)
	}

	settings := logs.FilterMessage("setting").All()
	require.Len(t, settings, 5)
	assert.Equal(t, "DLF type", settings[3].ContextMap()["key"])
	assert.Equal(t, "Lagged Convolution", settings[3].ContextMap()["value"])
	assert.Equal(t, "Loop over", settings[4].ContextMap()["key"])

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "etaH != etaV")

	timing := logs.FilterMessage("timing").All()
	require.Len(t, timing, 1)
	assert.Equal(t, 1234567*time.Microsecond, timing[0].ContextMap()["elapsed"])
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Warn(&rec, "w")
		}()
	}
	wg.Wait()
	assert.Len(t, rec.Warnings(), 8)

	Set(&rec, "  > DLF type", "Standard")
	Set(&rec, "  > DLF type", "Lagged Convolution")
	v, ok := rec.Lookup("DLF type")
	assert.True(t, ok)
	assert.Equal(t, "Lagged Convolution", v)
	_, ok = rec.Lookup("Fourier")
	assert.False(t, ok)
}

func TestMulti(t *testing.T) {
	var a, b Recorder
	m := Multi(&a, &b, Discard)
	for _, e := range sampleEvents() {
		m.Report(e)
	}
	if diff := cmp.Diff(a.Events(), b.Events()); diff != "" {
		t.Errorf("recorders differ (-a +b):\n%s", diff)
	}
	assert.Equal(t, sampleEvents(), a.Events())
}
