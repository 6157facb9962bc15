// SPDX-License-Identifier: EPL-2.0

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordRecording(4, 1)
	m.RecordRecording(6, 0)
	m.RecordPlayback(true, 0.5)
	m.RecordPlayback(false, 1)
	m.RecordPlayback(true, 2)
	m.RecordNotice("FileNotFound")
	m.RecordImport("mp3")

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"recordings", testutil.ToFloat64(m.Recordings), 2},
		{"bytes", testutil.ToFloat64(m.RecordedBytes), 10},
		{"capture errors", testutil.ToFloat64(m.CaptureErrors), 1},
		{"reverse", testutil.ToFloat64(m.Playbacks.WithLabelValues("reverse")), 2},
		{"forward", testutil.ToFloat64(m.Playbacks.WithLabelValues("forward")), 1},
		{"notices", testutil.ToFloat64(m.Notices.WithLabelValues("FileNotFound")), 1},
		{"imports", testutil.ToFloat64(m.Imports.WithLabelValues("mp3")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.RecordRecording(1, 0)
	if got := testutil.ToFloat64(b.Recordings); got != 0 {
		t.Errorf("second registry saw %v recordings", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordPlayback(false, 0.1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Result().Body)
	for _, want := range []string{
		`audrev_playbacks_total{direction="forward"} 1`,
		"audrev_playback_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output lacks %q", want)
		}
	}
}

func TestDirection(t *testing.T) {
	t.Parallel()

	if Direction(true) != "reverse" || Direction(false) != "forward" {
		t.Error("Direction() labels changed")
	}
}
