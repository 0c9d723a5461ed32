package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvPath names a config file that takes precedence over the search path.
const EnvPath = "LINEPROBE_CONFIG"

// Loader finds and reads the lineprobe rc file.
type Loader struct {
	Version      string // "dev" builds also look in the working directory
	OverridePath string // set at link time for packaged builds
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first rc file found. Defaults are returned when there is none.
func (l *Loader) Load() (*Config, error) {
	path := l.Path()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Candidates lists the rc locations in search order:
// $LINEPROBE_CONFIG, the link-time override, ./.lineproberc for dev builds,
// then config.rc and lineprobe.rc under the user config directory.
func (l *Loader) Candidates() []string {
	var paths []string
	if p := os.Getenv(EnvPath); p != "" {
		paths = append(paths, p)
	}
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".lineproberc"))
		}
	}
	if dir := userDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.rc"), filepath.Join(dir, "lineprobe.rc"))
	}
	return paths
}

// Path returns the first existing candidate, or "".
func (l *Loader) Path() string {
	for _, p := range l.Candidates() {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// SavePath is where `config save` writes: the file in use, otherwise
// config.rc under the user config directory.
func (l *Loader) SavePath() (string, error) {
	if p := l.Path(); p != "" {
		return p, nil
	}
	dir := userDir()
	if dir == "" {
		return "", fmt.Errorf("no user config directory")
	}
	return filepath.Join(dir, "config.rc"), nil
}

func userDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "lineprobe")
}
