package cli

import (
	"testing"

	"github.com/ardnew/varscan/log"
)

func TestLogConfig_Scan(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate_values",
			args: []string{"count", "--log-level", "debug", "--log-format", "text", "file"},
			want: logConfig{Level: "debug", Format: "text"},
		},
		{
			name: "assigned_values",
			args: []string{"--log-level=warn", "--log-time-layout=none"},
			want: logConfig{Level: "warn", TimeLayout: "none"},
		},
		{
			name: "value_looks_like_flag",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true},
		},
		{
			name: "booleans",
			args: []string{"--log-pretty", "--log-caller=false"},
			want: logConfig{Pretty: true},
		},
		{
			name: "negated",
			args: []string{"--log-pretty", "--log-caller", "--no-log-pretty", "--no-log-caller=false"},
			want: logConfig{Caller: true},
		},
		{
			name: "bad_bool_ignored",
			args: []string{"--log-caller=maybe"},
		},
		{
			name: "unrelated",
			args: []string{"--scan-capacity", "8", "--logger", "--log"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logConfig

			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestLogConfig_ScanConfiguresLogger(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var f logConfig

	f.scan([]string{"--log-level=trace", "--log-format=text"})

	if log.Default().Level() != log.LevelTrace {
		t.Errorf("level = %v, want trace", log.Default().Level())
	}

	if log.Default().Format() != log.FormatText {
		t.Errorf("format = %v, want text", log.Default().Format())
	}
}

func TestLogConfig_Vars(t *testing.T) {
	var f logConfig

	if got := f.vars()["logLevelEnum"]; got != "trace,debug,info,warn,error" {
		t.Errorf("logLevelEnum = %q", got)
	}
}
