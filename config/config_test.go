package config

import (
	"testing"
	"time"
)

func TestMergeConfig(t *testing.T) {
	global := &Config{
		DefaultFormat:     "table",
		ServeAddr:         ":8080",
		QuotaPollInterval: "90s",
		FeaturedCount:     6,
	}

	tests := []struct {
		name       string
		local      *Config
		wantFormat string
		wantAddr   string
		wantPoll   string
	}{
		{
			name:       "empty local preserves global",
			local:      &Config{},
			wantFormat: "table",
			wantAddr:   ":8080",
			wantPoll:   "90s",
		},
		{
			name:       "local format wins",
			local:      &Config{DefaultFormat: "json"},
			wantFormat: "json",
			wantAddr:   ":8080",
			wantPoll:   "90s",
		},
		{
			name:       "local addr and poll win",
			local:      &Config{ServeAddr: ":9000", QuotaPollInterval: "2m"},
			wantFormat: "table",
			wantAddr:   ":9000",
			wantPoll:   "2m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeConfig(global, tt.local)
			if got.DefaultFormat != tt.wantFormat {
				t.Errorf("DefaultFormat = %q, want %q", got.DefaultFormat, tt.wantFormat)
			}
			if got.ServeAddr != tt.wantAddr {
				t.Errorf("ServeAddr = %q, want %q", got.ServeAddr, tt.wantAddr)
			}
			if got.QuotaPollInterval != tt.wantPoll {
				t.Errorf("QuotaPollInterval = %q, want %q", got.QuotaPollInterval, tt.wantPoll)
			}
		})
	}
}

func TestPollInterval(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty uses default", "", DefaultPollInterval},
		{"valid duration", "2m", 2 * time.Minute},
		{"invalid uses default", "soonish", DefaultPollInterval},
		{"negative uses default", "-10s", DefaultPollInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{QuotaPollInterval: tt.value}
			if got := c.PollInterval(); got != tt.want {
				t.Errorf("PollInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToYAML(t *testing.T) {
	c := &Config{DefaultFormat: "json", ServeAddr: ":9000"}
	out, err := c.ToYAML()
	if err != nil {
		t.Fatalf("ToYAML() error: %v", err)
	}
	if out == "" {
		t.Error("expected non-empty YAML output")
	}
}
