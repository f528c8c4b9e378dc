package mirror

import (
	"github.com/goccy/go-yaml"
)

// RepoConfig locates one repository: the remote url and the path of the
// local clone.
type RepoConfig struct {
	Url  string `yaml:"url"`
	Path string `yaml:"path"`
}

// Config is the immutable configuration of a mirror. It is built once at
// startup and passed to every component; nothing reads ambient process
// state.
type Config struct {
	// Source is the repository whose history is rewritten. Its url is
	// required for any repository work.
	Source RepoConfig `yaml:"source"`

	// Destination receives the rewritten history. An empty url disables
	// publishing; the local destination repository still exists.
	Destination RepoConfig `yaml:"destination"`

	// DbPath is the checkpoint database file. Empty means a throwaway
	// temporary file, which forfeits incrementality across runs.
	DbPath string `yaml:"db_path"`

	// OverlayDir is copied into every produced commit, after checkout.
	OverlayDir string `yaml:"overlay_dir"`

	// Pathspecs restrict which source paths are materialized. Empty means
	// unrestricted.
	Pathspecs []string `yaml:"pathspecs"`

	// Hook is a shell command run in the staged worktree of every
	// non-skipped commit; a non-zero exit quarantines the commit.
	Hook string `yaml:"hook"`

	// MaxDepth bounds the ancestry walk per ref; 0 means unlimited.
	MaxDepth int `yaml:"max_depth"`

	// DefaultBranch names the branch seeded with overlay content when the
	// destination repository is created fresh.
	DefaultBranch string `yaml:"default_branch"`
}

// ParseConfigYAML parses a [Config] and fills in defaults.
func ParseConfigYAML(file []byte) (*Config, error) {
	result := &Config{}

	if err := yaml.Unmarshal(file, result); err != nil {
		return nil, err
	}

	result.setDefaults()

	return result, nil
}

func (c *Config) setDefaults() {
	if c.Source.Path == "" {
		c.Source.Path = "source.git"
	}
	if c.Destination.Path == "" {
		c.Destination.Path = "destination.git"
	}
	if c.DefaultBranch == "" {
		c.DefaultBranch = "main"
	}
}

// Validate reports the configuration errors that must stop the process
// before any repository work begins.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.Source.Url == "" {
		return ErrNoSource
	}

	return nil
}
