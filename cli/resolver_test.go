package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/varscan/scan"
)

func TestResolve_FlagValues(t *testing.T) {
	scan.ClearCache()
	t.Cleanup(scan.ClearCache)

	var cli struct {
		LogLevel  string   `default:"info" name:"log-level"`
		Pretty    bool     `default:"true"`
		Capacity  int      `default:"80"`
		Tags      []string `name:"tags"`
		Untouched string   `default:"kept"`
	}

	const file = `
# settings
log_level = debug
pretty = false
capacity = 256
tags = a,b,c
not an assignment
`

	parser, err := kong.New(&cli,
		kong.Resolvers(mustResolve(t, file)),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(nil); err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "debug" || cli.Pretty || cli.Capacity != 256 ||
		strings.Join(cli.Tags, "|") != "a|b|c" || cli.Untouched != "kept" {
		t.Errorf("resolved flags = %+v", cli)
	}
}

func TestResolve_CommandLineWins(t *testing.T) {
	var cli struct {
		LogLevel string `default:"info" name:"log-level"`
	}

	parser, err := kong.New(&cli, kong.Resolvers(mustResolve(t, "log_level = debug\n")))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--log-level=warn"}); err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cli.LogLevel)
	}
}

func TestConfig_Resolve_NameForms(t *testing.T) {
	tests := []struct {
		name string
		cfg  config
		want any
	}{
		{"hyphen", config{"log-level": "a"}, "a"},
		{"underscore", config{"log_level": "b"}, "b"},
		{"hyphen_first", config{"log-level": "a", "log_level": "b"}, "a"},
		{"missing", config{"other": "c"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-level"}})
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestResolve_ReadError(t *testing.T) {
	scan.ClearCache()
	t.Cleanup(scan.ClearCache)

	r, err := resolve(context.Background())(io.MultiReader(
		strings.NewReader("log_level = debug\n"),
		errorReader{},
	))
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	if _, ok := r.(config); !ok {
		t.Fatalf("resolve() = %T, want config", r)
	}
}

func mustResolve(t *testing.T, content string) kong.Resolver {
	t.Helper()

	r, err := resolve(context.Background())(strings.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}

	return r
}
