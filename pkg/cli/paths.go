package cli

import (
	"os"
	"path/filepath"
)

// Paths locates the files of an app under ~/.streamio.
type Paths struct {
	// AppName is the application name
	AppName string

	// HomeDir is the user's home directory
	HomeDir string
}

// NewPaths creates a new Paths instance for the given app
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{AppName: appName, HomeDir: home}, nil
}

// BaseDir returns the base directory (~/.streamio)
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// AppDir returns the app-specific directory (~/.streamio/<app>)
func (p *Paths) AppDir() string {
	return filepath.Join(p.BaseDir(), p.AppName)
}

// ConfigFile returns the config file path (~/.streamio/<app>/config.yaml)
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir(), DefaultConfigFile)
}

// DataDir returns the data directory (~/.streamio/<app>/data)
func (p *Paths) DataDir() string {
	return filepath.Join(p.AppDir(), "data")
}

// DataPath returns a path within the data directory
func (p *Paths) DataPath(name string) string {
	return filepath.Join(p.DataDir(), name)
}

// BlobDir returns the default blob store directory
func (p *Paths) BlobDir() string {
	return p.DataPath("blobs")
}

// EnsureDataDir creates the data directory if it doesn't exist
func (p *Paths) EnsureDataDir() error {
	return os.MkdirAll(p.DataDir(), 0755)
}
