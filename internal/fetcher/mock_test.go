package fetcher

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"heating_monitor/internal/models"
)

func TestMockFetcher_StaysWithinBandAndNeverFails(t *testing.T) {
	m := NewMockFetcher(rand.New(rand.NewPCG(1, 2)))
	cfg := models.Config{BaseURL: "https://x", PollIntervalSeconds: 60, UseMock: true}

	const boiler = "112/10021/0/0/12161"
	for i := 0; i < 1000; i++ {
		r, err := m.Fetch(context.Background(), boiler, cfg)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error %v", i, err)
		}
		if !strings.HasSuffix(r.FormattedValue, "°C") {
			t.Fatalf("formatted value %q has no unit", r.FormattedValue)
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(r.FormattedValue, "°C"), 64)
		if err != nil {
			t.Fatalf("parse %q: %v", r.FormattedValue, err)
		}
		if v < 64.4 || v > 66.4 {
			t.Fatalf("iteration %d: %v outside [64.4, 66.4]", i, v)
		}
		raw, err := strconv.Atoi(r.RawValue)
		if err != nil {
			t.Fatalf("raw value %q not an integer: %v", r.RawValue, err)
		}
		if raw < 644 || raw > 664 {
			t.Fatalf("raw value %d not scaled ×10", raw)
		}
		if r.Address != boiler || r.CapturedAtMs == 0 {
			t.Fatalf("unexpected reading: %+v", r)
		}
	}
}

func TestMockBaseValue(t *testing.T) {
	cases := []struct {
		addr string
		want float64
	}{
		{"112/10021/0/0/12161", 65.4},
		{"120/10221/0/0/12101", 4.5},
		{"120/10101/0/0/12111", 21.5},
		{"999/0/0/0/1", 20},
	}
	for _, tc := range cases {
		if got := MockBaseValue(tc.addr); got != tc.want {
			t.Errorf("MockBaseValue(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}
