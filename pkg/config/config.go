// pkg/config/config.go - configuration settings for WDS Super Menu.

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sdporres/wdssupermenu/pkg/configstore"
)

// AppName names the per-user configuration and cache directories.
const AppName = "WDSSuperMenu"

// RegistryPath holds policy-style overrides used when no Config.yaml exists.
const RegistryPath = `Software\WDSSuperMenu\Config`

// Configuration holds the configurable options in YAML format
type Configuration struct {
	Vendor               string   `yaml:"Vendor"`
	Publisher            string   `yaml:"Publisher"`
	ExcludedDisplayNames []string `yaml:"ExcludedDisplayNames"`

	SeriesURL         string `yaml:"SeriesURL"`
	SeriesCachePath   string `yaml:"SeriesCachePath"`
	SeriesMaxAgeHours int    `yaml:"SeriesMaxAgeHours"`

	UpdateURL           string `yaml:"UpdateURL"`
	FetchTimeoutSeconds int    `yaml:"FetchTimeoutSeconds"`
	FetchRetries        int    `yaml:"FetchRetries"`

	ClassifierFallback string `yaml:"ClassifierFallback"` // "stem-length", "install-record" or "either"
	ScanFixedDrives    bool   `yaml:"ScanFixedDrives"`
	DriveFolderName    string `yaml:"DriveFolderName"`
	Workers            int    `yaml:"Workers"`

	PreferencesPath string `yaml:"PreferencesPath"`
	LogDir          string `yaml:"LogDir"`
	LogLevel        string `yaml:"LogLevel"`
	Debug           bool   `yaml:"Debug"`
	Verbose         bool   `yaml:"Verbose"`
}

// DefaultConfigPath returns <UserConfigDir>\WDSSuperMenu\Config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(userDir(os.UserConfigDir), "Config.yaml")
}

func userDir(base func() (string, error)) string {
	dir, err := base()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, AppName)
}

// GetDefaultConfig provides default configuration values.
func GetDefaultConfig() *Configuration {
	cacheDir := userDir(os.UserCacheDir)
	configDir := userDir(os.UserConfigDir)
	return &Configuration{
		Vendor:               "WDS LLC",
		Publisher:            "WDS LLC",
		ExcludedDisplayNames: []string{"WDS Super Menu"},
		SeriesURL:            "https://raw.githubusercontent.com/sdporres/WDSSuperMenu/master/series.json",
		SeriesCachePath:      filepath.Join(cacheDir, "series.json"),
		SeriesMaxAgeHours:    24,
		UpdateURL:            "https://api.github.com/repos/sdporres/WDSSuperMenu/releases/latest",
		FetchTimeoutSeconds:  10,
		FetchRetries:         2,
		ClassifierFallback:   "stem-length",
		ScanFixedDrives:      false,
		DriveFolderName:      "WDS",
		Workers:              4,
		PreferencesPath:      filepath.Join(configDir, "Preferences.yaml"),
		LogDir:               filepath.Join(cacheDir, "logs"),
		LogLevel:             "INFO",
	}
}

// LoadConfig loads the configuration from a YAML file.
// If the YAML file doesn't exist, it falls back to registry settings and then to defaults.
func LoadConfig(path string, store configstore.Store) (*Configuration, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Configuration file does not exist: %s", path)
		if store != nil {
			cfg, regErr := LoadConfigFromStore(store)
			if regErr == nil {
				log.Printf("Loaded configuration from registry path: %s", RegistryPath)
				return cfg, nil
			}
			log.Printf("No registry configuration: %v", regErr)
		}
		return GetDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Failed to read configuration file: %v", err)
		return nil, err
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("Failed to parse configuration file: %v", err)
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(path string, cfg *Configuration) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// LoadConfigFromStore reads overrides from HKCU\Software\WDSSuperMenu\Config on top of the defaults.
func LoadConfigFromStore(store configstore.Store) (*Configuration, error) {
	key, err := store.OpenKey(configstore.CurrentUser, RegistryPath, configstore.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry key %s: %w", RegistryPath, err)
	}
	defer key.Close()

	cfg := GetDefaultConfig()

	loadString(key, "Vendor", &cfg.Vendor)
	loadString(key, "Publisher", &cfg.Publisher)
	loadString(key, "SeriesURL", &cfg.SeriesURL)
	loadString(key, "SeriesCachePath", &cfg.SeriesCachePath)
	loadString(key, "UpdateURL", &cfg.UpdateURL)
	loadString(key, "ClassifierFallback", &cfg.ClassifierFallback)
	loadString(key, "DriveFolderName", &cfg.DriveFolderName)
	loadString(key, "PreferencesPath", &cfg.PreferencesPath)
	loadString(key, "LogDir", &cfg.LogDir)
	loadString(key, "LogLevel", &cfg.LogLevel)

	loadInt(key, "SeriesMaxAgeHours", &cfg.SeriesMaxAgeHours)
	loadInt(key, "FetchTimeoutSeconds", &cfg.FetchTimeoutSeconds)
	loadInt(key, "FetchRetries", &cfg.FetchRetries)
	loadInt(key, "Workers", &cfg.Workers)

	loadBool(key, "ScanFixedDrives", &cfg.ScanFixedDrives)
	loadBool(key, "Debug", &cfg.Debug)
	loadBool(key, "Verbose", &cfg.Verbose)

	loadStringArray(key, "ExcludedDisplayNames", &cfg.ExcludedDisplayNames)

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Configuration) applyDefaults() {
	d := GetDefaultConfig()
	if c.Vendor == "" {
		c.Vendor = d.Vendor
	}
	if c.SeriesCachePath == "" {
		c.SeriesCachePath = d.SeriesCachePath
	}
	if c.SeriesMaxAgeHours <= 0 {
		c.SeriesMaxAgeHours = d.SeriesMaxAgeHours
	}
	if c.FetchTimeoutSeconds <= 0 {
		c.FetchTimeoutSeconds = d.FetchTimeoutSeconds
	}
	if c.FetchRetries <= 0 {
		c.FetchRetries = 1
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.DriveFolderName == "" {
		c.DriveFolderName = d.DriveFolderName
	}
	if c.PreferencesPath == "" {
		c.PreferencesPath = d.PreferencesPath
	}
	if c.LogDir == "" {
		c.LogDir = d.LogDir
	}
}

// SeriesMaxAge is the freshness window of the local series cache.
func (c *Configuration) SeriesMaxAge() time.Duration {
	return time.Duration(c.SeriesMaxAgeHours) * time.Hour
}

// FetchTimeout bounds every remote request.
func (c *Configuration) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// loadString loads a string value from the store if it exists.
func loadString(key configstore.Key, name string, target *string) {
	v, err := key.GetValue(name)
	if err != nil || v.String == "" {
		return
	}
	switch v.Kind {
	case configstore.KindString:
		*target = v.String
	case configstore.KindExpandString:
		*target = expandPercentVars(v.String)
	default:
		return
	}
	log.Printf("Registry: Loaded %s = %s", name, *target)
}

// expandPercentVars expands %NAME% references the way REG_EXPAND_SZ consumers do.
// Unknown variables are left untouched.
func expandPercentVars(s string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(s, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start+1:], '%')
		if end < 0 {
			break
		}
		end += start + 1
		name := s[start+1 : end]
		b.WriteString(s[:start])
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(val)
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}

// loadBool accepts "true"/"false", "1"/"0" and DWORD 1/0.
func loadBool(key configstore.Key, name string, target *bool) {
	v, err := key.GetValue(name)
	if err != nil {
		return
	}
	switch v.Kind {
	case configstore.KindString:
		if parsed, perr := strconv.ParseBool(v.String); perr == nil {
			*target = parsed
			log.Printf("Registry: Loaded %s = %t", name, parsed)
		}
	case configstore.KindDWord, configstore.KindQWord:
		*target = v.Integer != 0
		log.Printf("Registry: Loaded %s = %t", name, *target)
	}
}

// loadInt accepts decimal strings and DWORD values.
func loadInt(key configstore.Key, name string, target *int) {
	v, err := key.GetValue(name)
	if err != nil {
		return
	}
	switch v.Kind {
	case configstore.KindString:
		if parsed, perr := strconv.Atoi(v.String); perr == nil {
			*target = parsed
			log.Printf("Registry: Loaded %s = %d", name, parsed)
		}
	case configstore.KindDWord, configstore.KindQWord:
		*target = int(v.Integer)
		log.Printf("Registry: Loaded %s = %d", name, *target)
	}
}

// loadStringArray accepts REG_MULTI_SZ or a comma-separated string.
func loadStringArray(key configstore.Key, name string, target *[]string) {
	v, err := key.GetValue(name)
	if err != nil {
		return
	}
	var raw []string
	switch v.Kind {
	case configstore.KindMultiString:
		raw = v.Strings
	case configstore.KindString:
		raw = strings.Split(v.String, ",")
	default:
		return
	}
	filtered := make([]string, 0, len(raw))
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	if len(filtered) > 0 {
		*target = filtered
		log.Printf("Registry: Loaded %s = %v", name, filtered)
	}
}
