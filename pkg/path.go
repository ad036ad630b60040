package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/xyproto/env/v2"
)

// DirMode is the permission mode for directories created by [MkdirAll].
const DirMode os.FileMode = 0o700

// Environment variables overriding the default directories.
var (
	ConfigDirEnv = EnvName("CONFIG_DIR")
	CacheDirEnv  = EnvName("CACHE_DIR")
)

// EnvName returns the environment variable name for key, prefixed with the
// upper-cased executable name, e.g. "VARSCAN_CONFIG_DIR".
func EnvName(key string) string {
	return strings.ToUpper(Name) + "_" + key
}

// Prefix returns the base name of the running executable, used to construct
// the configuration and cache directory paths.
//
// Two substitutions apply:
//   - "__debug_bin" (default output of the dlv debugger): replaced with Name
//   - "^\.+" (dot-prefixed names): the dots are removed
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		return cleanPrefix(id)
	},
)

func cleanPrefix(path string) string {
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	id = regexp.MustCompile(`^__debug_bin\d*$`).ReplaceAllString(id, Name)
	id = regexp.MustCompile(`^\.+`).ReplaceAllString(id, "")

	if id == "" {
		return Name
	}

	return id
}

// ConfigDir returns the configuration directory. [ConfigDirEnv] overrides
// the user configuration directory.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(ConfigDirEnv, os.UserConfigDir, ".config")
})

// CacheDir returns the directory for transient files such as profiles and
// browse history. [CacheDirEnv] overrides the user cache directory.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(CacheDirEnv, os.UserCacheDir, ".cache")
})

// userDir resolves a per-user directory, falling back from the environment
// override to the platform default, then to a dot directory in $HOME, then
// to the working directory.
func userDir(name string, platform func() (string, error), dot string) string {
	if dir := env.Str(name); dir != "" {
		return filepath.Clean(dir)
	}

	dir, err := platform()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, dot)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// ConfigPath joins elem onto [ConfigDir].
func ConfigPath(elem ...string) string {
	return filepath.Join(append([]string{ConfigDir()}, elem...)...)
}

// CachePath joins elem onto [CacheDir].
func CachePath(elem ...string) string {
	return filepath.Join(append([]string{CacheDir()}, elem...)...)
}

// MkdirAll creates the configuration and cache directories.
func MkdirAll() error {
	for _, dir := range []string{ConfigDir(), CacheDir()} {
		err := os.MkdirAll(dir, DirMode)
		if err != nil {
			return err
		}
	}

	return nil
}
