package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"stealthspanner/internal/extract"
	"stealthspanner/internal/latency"
	"stealthspanner/internal/storage/models"
)

func TestRender(t *testing.T) {
	fast, slow := 15.0, 120.0
	rep := latency.Aggregate([]latency.Outcome{
		{
			Target:       extract.Target{Source: "ipvanish-NL-Amsterdam-ams-a01.ovpn", Host: "nl-ams-a01.ipvanish.com", Port: 443, CountryCode: "NL"},
			Status:       latency.StatusSuccess,
			AvgLatencyMS: &fast,
			Jitter:       &latency.Jitter{StdDevMS: 1.2, MeanDevMS: 0.9, RangeMS: 3.1},
			Attempts:     4, Succeeded: 4,
		},
		{
			Target:       extract.Target{Source: "ipvanish-US-Chicago-chi-a01.ovpn", Host: "us-chi-a01.ipvanish.com", Port: 443, CountryCode: "US"},
			Status:       latency.StatusSuccess,
			AvgLatencyMS: &slow,
			Attempts:     4, Succeeded: 2, PacketLossPct: 50.0,
		},
		{
			Target:   extract.Target{Source: "ipvanish-CH-Zurich-zrh-c18.ovpn", Host: "ch-zrh-c18.ipvanish.com", Port: 443, CountryCode: "CH"},
			Status:   latency.StatusTimeout,
			Attempts: 4, PacketLossPct: 100.0,
		},
	})

	var buf bytes.Buffer
	Render(&buf, rep, latency.ScoreConfig{
		PrivacyEnabled: true,
		PrivacyWeight:  0.35,
		PrivacyScores:  latency.MergePrivacyScores(nil),
	})
	out := buf.String()

	for _, want := range []string{
		"ipvanish-NL-Amsterdam-ams-a01.ovpn",
		"Netherlands",
		"15.00 ms",
		"Timeout",
		"Total: 3 servers",
		"Successful: 2",
		"Best latency:  nl-ams-a01.ipvanish.com (15.00 ms)",
		"Worst latency: us-chi-a01.ipvanish.com (120.00 ms)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q", want)
		}
	}

	// Ranked: fast success first, timeout last.
	if strings.Index(out, "nl-ams-a01") > strings.Index(out, "us-chi-a01") {
		t.Error("fast success not ranked before slow success")
	}
	if strings.Index(out, "us-chi-a01") > strings.Index(out, "ch-zrh-c18") {
		t.Error("success not ranked before timeout")
	}
}

func TestRenderEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, latency.Aggregate(nil), latency.ScoreConfig{})

	out := buf.String()
	if !strings.Contains(out, "Total: 0 servers") {
		t.Errorf("Render() output missing empty summary: %q", out)
	}
	if strings.Contains(out, "Best latency") {
		t.Error("Render() printed best/worst for an empty report")
	}
}

func TestRenderHistory(t *testing.T) {
	lat := 22.5
	outcomes := []*models.Outcome{
		{
			Host: "nl-ams-a01.ipvanish.com", Status: "success",
			LatencyMS: &lat, PacketLoss: 0, Score: 88.5,
			TestedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
		{
			Host: "nl-ams-a01.ipvanish.com", Status: "timeout",
			PacketLoss: 100, TestedAt: time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	RenderHistory(&buf, "nl-ams-a01.ipvanish.com", outcomes)
	out := buf.String()

	for _, want := range []string{
		"Probe history: nl-ams-a01.ipvanish.com",
		"2026-08-30 12:00:00",
		"22.50 ms",
		"Timeout",
		"N/A",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderHistory() output missing %q", want)
		}
	}
}

func TestPadTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 60)
	got := pad(long, 10, dimStyle)
	if !strings.Contains(got, "...") {
		t.Errorf("pad() did not truncate: %q", got)
	}
}
