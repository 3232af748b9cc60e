package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spiffcs/ghinventory/internal/constants"
	"github.com/spiffcs/ghinventory/internal/duration"
	"github.com/spiffcs/ghinventory/internal/model"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvToken     = "GITHUB_TOKEN"
	EnvBaseURL   = "GITHUB_SERVER_BASE"
	EnvSSLCert   = "GITHUB_SSL_CERT"
	EnvSSLVerify = "GITHUB_SSL_NO_VERIFY"
)

// Config represents the application configuration
type Config struct {
	BaseURL            string   `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	SSLCert            string   `yaml:"ssl_cert,omitempty" json:"ssl_cert,omitempty"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify,omitempty" json:"insecure_skip_verify,omitempty"`
	DefaultFormat      string   `yaml:"default_format,omitempty" json:"default_format,omitempty"`
	ExcludeUsers       []string `yaml:"exclude_users,omitempty" json:"exclude_users,omitempty"`

	PullRequests *PullRequestConfig `yaml:"pull_requests,omitempty" json:"pull_requests,omitempty"`
}

// PullRequestConfig sets the age thresholds open pull requests are counted
// against, as duration strings such as "2w" or "30d".
type PullRequestConfig struct {
	StaleAfter string `yaml:"stale_after,omitempty" json:"stale_after,omitempty"`
	OldAfter   string `yaml:"old_after,omitempty" json:"old_after,omitempty"`
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".ghinventory"
	}
	return filepath.Join(configDir, "ghinventory")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".ghinventory.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from XDG config directory, then merges
// any local .ghinventory.yaml config on top (local values take precedence).
func Load() (*Config, error) {
	cfg := &Config{}

	global, err := readFile(ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load global config file: %w", err)
	}
	if global != nil {
		cfg = global
	}

	local, err := readFile(LocalConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load local config file: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	return cfg, nil
}

// LoadFile loads an explicitly named config file, which must exist.
func LoadFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config file %s does not exist", path)
	}
	return cfg, nil
}

// readFile returns nil, nil when path does not exist.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := *global

	if local.BaseURL != "" {
		result.BaseURL = local.BaseURL
	}
	if local.SSLCert != "" {
		result.SSLCert = local.SSLCert
	}
	if local.InsecureSkipVerify {
		result.InsecureSkipVerify = true
	}
	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}
	if len(local.ExcludeUsers) > 0 {
		result.ExcludeUsers = local.ExcludeUsers
	}

	if local.PullRequests != nil {
		pr := PullRequestConfig{}
		if global.PullRequests != nil {
			pr = *global.PullRequests
		}
		if local.PullRequests.StaleAfter != "" {
			pr.StaleAfter = local.PullRequests.StaleAfter
		}
		if local.PullRequests.OldAfter != "" {
			pr.OldAfter = local.PullRequests.OldAfter
		}
		result.PullRequests = &pr
	}

	return &result
}

// ApplyEnv overlays the GITHUB_* environment variables on c. Environment
// values win over the config file.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(EnvSSLCert); v != "" {
		c.SSLCert = v
	}
	if v := getenv(EnvSSLVerify); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.InsecureSkipVerify = b
		}
	}
}

// APIBaseURL returns the REST API root. Hosts other than api.github.com
// are GitHub Enterprise Server instances and get /api/v3 appended unless
// the path already ends with it.
func (c *Config) APIBaseURL() string {
	return NormalizeBaseURL(c.BaseURL)
}

// NormalizeBaseURL implements the APIBaseURL rules for a raw value.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" || raw == constants.DefaultBaseURL {
		return constants.DefaultBaseURL
	}
	if strings.HasSuffix(raw, constants.EnterpriseAPIPath) {
		return raw
	}
	return raw + constants.EnterpriseAPIPath
}

// CACertFile returns the CA bundle to trust. Without ssl_cert, a bundle
// named after the API host is looked up under ssl/ in the working directory.
func (c *Config) CACertFile() string {
	if c.SSLCert != "" {
		return c.SSLCert
	}
	u, err := url.Parse(c.APIBaseURL())
	if err != nil || u.Hostname() == "" {
		return ""
	}
	candidate := filepath.Join("ssl", u.Hostname()+".pem")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// PRThresholds returns the stale and old pull request ages, falling back to
// two weeks and 30 days.
func (c *Config) PRThresholds() (staleAfter, oldAfter time.Duration, err error) {
	staleAfter, oldAfter = model.DefaultStaleAfter, model.DefaultOldAfter
	if c.PullRequests == nil {
		return staleAfter, oldAfter, nil
	}
	if s := c.PullRequests.StaleAfter; s != "" {
		if staleAfter, err = duration.Parse(s); err != nil {
			return 0, 0, fmt.Errorf("invalid pull_requests.stale_after: %w", err)
		}
	}
	if s := c.PullRequests.OldAfter; s != "" {
		if oldAfter, err = duration.Parse(s); err != nil {
			return 0, 0, fmt.Errorf("invalid pull_requests.old_after: %w", err)
		}
	}
	if oldAfter < staleAfter {
		return 0, 0, fmt.Errorf("pull_requests.old_after (%s) must not be shorter than stale_after (%s)", c.PullRequests.OldAfter, c.PullRequests.StaleAfter)
	}
	return staleAfter, oldAfter, nil
}

// DefaultConfig returns a fully populated config with all default values.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       constants.DefaultBaseURL,
		DefaultFormat: "table",
		ExcludeUsers:  []string{},
		PullRequests: &PullRequestConfig{
			StaleAfter: "2w",
			OldAfter:   "30d",
		},
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# ghinventory configuration file
# See: ghinventory config defaults  (for all available options)

# GitHub Enterprise Server root; /api/v3 is appended automatically
# base_url: https://github.example.com

# Extra CA bundle trusted for the server above
# ssl_cert: /etc/ssl/certs/corp-ca.pem

# Output format: table, csv or json
default_format: table

# Leave service accounts out of the collaborators column (optional)
# exclude_users:
#   - svc-deploy

# Pull request age thresholds (optional)
# pull_requests:
#   stale_after: 2w
#   old_after: 30d
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
