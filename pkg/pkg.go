//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the varscan module embedded at build
// time. It is printed by the CLI's --version flag.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier. It appears in help
	// text, default config paths and environment variable names.
	Name = "varscan"
	// Description is a short summary used in help output.
	Description = "Scan text streams for name = value assignments"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
