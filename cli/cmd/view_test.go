package cmd

import (
	"context"
	"errors"
	"maps"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/varscan/scan"
)

const sample = "x = 1\ny=hello world\nbad line\nz()=3\n"

func TestCount_Run(t *testing.T) {
	path := writeSource(t, t.TempDir(), "in.env", sample)
	ctx, out := testContext(t, nil, Loader{})

	err := (&Count{Source: path}).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if out.String() != "Number of variables: 3\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestCount_Run_OpenError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")
	ctx, out := testContext(t, nil, Loader{})

	err := (&Count{Source: missing}).Run(ctx)
	if !errors.Is(err, scan.ErrStreamOpen) {
		t.Errorf("error = %v, want ErrStreamOpen", err)
	}

	if out.Len() != 0 {
		t.Errorf("output = %q, want none", out.String())
	}
}

func TestCount_Run_ReadError(t *testing.T) {
	// The second line does not fit the buffer limit, so the scan stops
	// after the first binding.
	path := writeSource(t, t.TempDir(), "in.env", "a=1\n"+strings.Repeat("x", 64)+"\n")
	ctx, out := testContext(t, nil, Loader{Options: []scan.Option{
		scan.WithCapacity(8), scan.WithMaxSize(16),
	}})

	err := (&Count{Source: path}).Run(ctx)
	if !errors.Is(err, scan.ErrAllocation) {
		t.Errorf("error = %v, want ErrAllocation", err)
	}

	if out.String() != "Number of variables: 1\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestList_Run(t *testing.T) {
	path := writeSource(t, t.TempDir(), "in.env", sample)

	tests := []struct {
		name    string
		list    List
		want    string
		wantErr error
	}{
		{
			name: "all",
			want: "x = 1\ny = hello world\nz() = 3\n",
		},
		{
			name: "where_value",
			list: List{Where: `value startsWith "h"`},
			want: "y = hello world\n",
		},
		{
			name: "where_line",
			list: List{Where: `line > 1 && name != "y"`},
			want: "z() = 3\n",
		},
		{
			name: "line_numbers",
			list: List{Lines: true, Where: `name == "z()"`},
			want: "4: z() = 3\n",
		},
		{
			name:    "invalid_expr",
			list:    List{Where: `name ==`},
			wantErr: ErrFilter,
		},
		{
			name:    "not_boolean",
			list:    List{Where: `line + 1`},
			wantErr: ErrFilter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, nil, Loader{})

			tt.list.Source = path

			err := tt.list.Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestGet_Run(t *testing.T) {
	path := writeSource(t, t.TempDir(), "in.env", "log_level = debug\nlog_format = json\nname = x\n")

	ctx, out := testContext(t, nil, Loader{})

	err := (&Get{Name: "log_level", Source: path}).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if out.String() != "debug\n" {
		t.Errorf("output = %q", out.String())
	}

	err = (&Get{Name: "loglvl", Source: path}).Run(ctx)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestSuggest(t *testing.T) {
	names := []string{"log_format", "log_level", "name", "pprof_mode", "scan_policy"}

	got := suggest("loglvl", names)
	if len(got) == 0 || got[0] != "log_level" {
		t.Errorf("suggest(loglvl) = %v, want log_level first", got)
	}

	if got := suggest("l", names); len(got) > maxSuggestions {
		t.Errorf("suggest(l) returned %d names", len(got))
	}

	if got := suggest("qqq", names); len(got) != 0 {
		t.Errorf("suggest(qqq) = %v, want none", got)
	}
}

func TestFmt_Run(t *testing.T) {
	path := writeSource(t, t.TempDir(), "in.env", sample)
	want := map[string]string{"x": "1", "y": "hello world", "z()": "3"}

	t.Run("env", func(t *testing.T) {
		ctx, out := testContext(t, nil, Loader{})

		if err := (&Env{Source: path}).Run(ctx); err != nil {
			t.Fatal(err)
		}

		if out.String() != "x = 1\ny = hello world\nz() = 3\n" {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		ctx, out := testContext(t, nil, Loader{})

		if err := (&JSON{Source: path}).Run(ctx); err != nil {
			t.Fatal(err)
		}

		if out.String() != `{"x":"1","y":"hello world","z()":"3"}`+"\n" {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		ctx, out := testContext(t, nil, Loader{})

		if err := (&YAML{Indent: 2, Source: path}).Run(ctx); err != nil {
			t.Fatal(err)
		}

		var got map[string]string
		if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
			t.Fatalf("output is not YAML: %v\n%s", err, out.String())
		}

		if !maps.Equal(got, want) {
			t.Errorf("decoded %v, want %v", got, want)
		}
	})
}

func TestCommands_Canceled(t *testing.T) {
	path := writeSource(t, t.TempDir(), "in.env", sample)
	ctx, _ := testContext(t, nil, Loader{})

	ctx, cancel := context.WithCancel(ctx)
	cancel()

	err := (&Env{Source: path}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
