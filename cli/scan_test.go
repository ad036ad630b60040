package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/varscan/scan"
)

func parseScanFlags(t *testing.T, args ...string) scanConfig {
	t.Helper()

	var cli struct {
		Scan scanConfig `embed:"" prefix:"scan-"`
	}

	parser, err := kong.New(&cli, cli.Scan.vars())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatal(err)
	}

	return cli.Scan
}

func TestScanConfig_Defaults(t *testing.T) {
	f := parseScanFlags(t)

	if f.Capacity != scan.DefaultCapacity || f.Increment != scan.DefaultIncrement ||
		f.ChunkSize != scan.DefaultChunkSize || f.MaxSize != 0 ||
		f.Policy != "anchored" || f.Syntax != "extended" || f.KeepCR || !f.Cache {
		t.Errorf("defaults = %+v", f)
	}
}

func TestScanConfig_Loader(t *testing.T) {
	const input = "a = 1\r\nf(x) = 2\r\n"

	tests := []struct {
		name string
		args []string
		want map[string]string
	}{
		{
			name: "defaults",
			want: map[string]string{"a": "1", "f(x)": "2"},
		},
		{
			name: "plain_syntax",
			args: []string{"--scan-syntax=plain"},
			want: map[string]string{"a": "1"},
		},
		{
			name: "keep_cr",
			args: []string{"--scan-keep-cr", "--no-scan-cache"},
			want: map[string]string{"a": "1\r", "f(x)": "2\r"},
		},
		{
			name: "chunk_policy",
			// The second 8-byte chunk begins inside "f(x)".
			args: []string{"--scan-policy=chunk", "--scan-chunk-size=8"},
			want: map[string]string{"a": "1", "x)": "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parseScanFlags(t, tt.args...)
			l, err := cfg.loader(context.Background())
			if err != nil {
				t.Fatal(err)
			}

			vars, err := scan.Read(context.Background(), strings.NewReader(input), l.Options...)
			if err != nil {
				t.Fatal(err)
			}

			got := vars.ToMap()
			if len(got) != len(tt.want) {
				t.Fatalf("Read() = %q, want %q", got, tt.want)
			}

			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("Read()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestScanConfig_InvalidSizes(t *testing.T) {
	cfg := parseScanFlags(t, "--scan-increment=0")
	l, err := cfg.loader(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	_, err = scan.Read(context.Background(), strings.NewReader("a=1\n"), l.Options...)
	if !errors.Is(err, scan.ErrInvalidOption) {
		t.Errorf("error = %v, want ErrInvalidOption", err)
	}
}

func TestScanConfig_InvalidPolicy(t *testing.T) {
	f := scanConfig{Policy: "bogus"}

	if _, err := f.options(); !errors.Is(err, scan.ErrInvalidOption) {
		t.Errorf("error = %v, want ErrInvalidOption", err)
	}
}
