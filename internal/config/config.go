// Package config loads a project's .podo.yaml configuration file: named
// profiles, each holding a database URL and a metadata schema name, with
// ${VAR}-style environment variable expansion and .env loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFile is the project configuration file's fixed name.
	ConfigFile = ".podo.yaml"
	// DefaultProfile is used when a command is not given --profile.
	DefaultProfile = "database"
	// HistoryDirName and DefinitionsDirName are fixed relative to the
	// project root, mirroring the original Rust project layout.
	HistoryDirName     = "history"
	DefinitionsDirName = "definitions"
)

// Profile is one named target database a command can operate against.
type Profile struct {
	DatabaseURL    string `yaml:"database_url"`
	MetadataSchema string `yaml:"metadata_schema"`
}

// Config is the parsed, environment-expanded contents of .podo.yaml.
type Config struct {
	Profiles map[string]Profile `yaml:"profiles"`

	// ProjectDir is the directory containing .podo.yaml, used to resolve
	// the history/ and definitions/ directories.
	ProjectDir string `yaml:"-"`
}

// Discover walks up from the current working directory looking for
// .podo.yaml, stopping at the first project-root marker (.git, go.mod,
// package.json).
func Discover() (*Config, error) {
	startDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return DiscoverFrom(startDir)
}

// DiscoverFrom is Discover with an explicit starting directory, used by
// Discover and by tests.
func DiscoverFrom(startDir string) (*Config, error) {
	path, err := findConfigPath(startDir)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

func findConfigPath(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if isProjectRoot(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found", ConfigFile)
}

func isProjectRoot(dir string) bool {
	for _, marker := range []string{".git", "go.mod", "package.json"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// Load reads and parses the config file at path, expanding environment
// variables in every profile's database_url after loading a sibling .env
// file (if present) into the process environment.
func Load(path string) (*Config, error) {
	dir := filepath.Dir(path)

	dotenv := filepath.Join(dir, ".env")
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", dotenv, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.ProjectDir = dir

	for name, p := range cfg.Profiles {
		p.DatabaseURL = expandEnv(p.DatabaseURL)
		cfg.Profiles[name] = p
	}

	return &cfg, nil
}

// Profile resolves a named profile, falling back to DefaultProfile when
// name is empty.
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not defined in %s", name, ConfigFile)
	}
	if p.MetadataSchema == "" {
		p.MetadataSchema = "podo_meta"
	}
	return p, nil
}

func (c *Config) HistoryDir() string {
	return filepath.Join(c.ProjectDir, HistoryDirName)
}

func (c *Config) DefinitionsDir() string {
	return filepath.Join(c.ProjectDir, DefinitionsDirName)
}

var envVarRe = regexp.MustCompile(`\$(\w+|\{\w+\})`)

// expandEnv replaces $VAR and ${VAR} references with the corresponding
// environment variable's value, leaving unset variables as an empty string.
func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1:]
		if len(name) > 0 && name[0] == '{' {
			name = name[1 : len(name)-1]
		}
		return os.Getenv(name)
	})
}
