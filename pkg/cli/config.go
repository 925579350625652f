package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".streamio"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Config represents the main configuration structure for a CLI app
type Config struct {
	// AppName is the application name
	AppName string `yaml:"-"`

	// CurrentContext is the name of the currently active context
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts is a map of context name to context configuration
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	configPath string
}

// Context describes where streams are read from and written to.
type Context struct {
	// Name is the context name
	Name string `yaml:"name"`

	// BufferSize is the buffer capacity used by copy (0 means the default)
	BufferSize int `yaml:"buffer_size,omitempty"`

	// LocalRoot is the root directory for plain-path endpoints and for serve.
	// Empty means the working directory.
	LocalRoot string `yaml:"local_root,omitempty"`

	// BlobDir is the badger directory of the kv: blob store.
	// Empty means <app dir>/data/blobs.
	BlobDir string `yaml:"blob_dir,omitempty"`

	// S3 holds the settings of the s3:// endpoints
	S3 *S3Settings `yaml:"s3,omitempty"`

	// Server is the listen address of serve
	Server string `yaml:"server,omitempty"`
}

// S3Settings configures access to S3 or an S3-compatible service.
type S3Settings struct {
	Bucket    string `yaml:"bucket,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
}

// LoadConfig loads or creates configuration for the specified app
func LoadConfig(appName string) (*Config, error) {
	return LoadConfigWithPath(appName, "")
}

// LoadConfigWithPath loads configuration from a custom path
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		paths, err := NewPaths(appName)
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = paths.ConfigFile()
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		AppName:    appName,
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	cfg.AppName = appName
	cfg.configPath = configPath

	return cfg, nil
}

// Save saves the configuration to disk. The file may hold S3 secrets and is
// written with mode 0600.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// AddContext adds or replaces a context
func (c *Config) AddContext(name string, ctx *Context) error {
	if name == "" {
		return fmt.Errorf("context name is required")
	}
	ctx.Name = name
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// GetCurrentContext returns the current context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the context by name, or current context if name is empty
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		return c.GetCurrentContext()
	}
	return c.GetContext(name)
}

// ListContexts returns all context names in sorted order
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Masked returns a copy of the context with secrets masked for display.
func (ctx *Context) Masked() *Context {
	out := *ctx
	if ctx.S3 != nil {
		s3 := *ctx.S3
		s3.AccessKey = MaskSecret(s3.AccessKey)
		s3.SecretKey = MaskSecret(s3.SecretKey)
		out.S3 = &s3
	}
	return &out
}

// MaskSecret masks a credential for display
func MaskSecret(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
