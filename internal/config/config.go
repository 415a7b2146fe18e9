// Package config loads moodlog settings from
// $XDG_CONFIG_HOME/moodlog/config.yaml (usually ~/.config/moodlog/config.yaml).
package config

import (
	"os"
	"path/filepath"

	"moodlog/internal/fsutil"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const appName = "moodlog"

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.moodlog)
	DataDir string `yaml:"data_dir,omitempty"`

	Theme   ThemeConfig   `yaml:"theme,omitempty"`
	Keys    KeysConfig    `yaml:"keys,omitempty"`
	UX      UXConfig      `yaml:"ux,omitempty"`
	Gallery GalleryConfig `yaml:"gallery,omitempty"`
	Sync    SyncConfig    `yaml:"sync,omitempty"`
	Remind  RemindConfig  `yaml:"remind,omitempty"`
}

// RemindConfig controls "moodlog remind".
type RemindConfig struct {
	Sound bool `yaml:"sound,omitempty"`
}

// GalleryConfig controls image attachments.
type GalleryConfig struct {
	// MaxImages caps attachments per entry
	MaxImages int `yaml:"max_images,omitempty"` // default: 8

	// ThumbnailSize is the bounding box edge in pixels
	ThumbnailSize int `yaml:"thumbnail_size,omitempty"` // default: 256
}

// SyncConfig defines git synchronization settings.
type SyncConfig struct {
	Enabled       bool   `yaml:"enabled,omitempty"`
	AutoCommit    bool   `yaml:"auto_commit,omitempty"`
	AutoPush      bool   `yaml:"auto_push,omitempty"`
	PullOnStartup bool   `yaml:"pull_on_startup,omitempty"`
	CommitMessage string `yaml:"commit_message,omitempty"` // "auto" for semantic messages
}

// ThemeConfig defines colors as hex strings, e.g. "#FF5733".
type ThemeConfig struct {
	Primary    string `yaml:"primary,omitempty"`
	Accent     string `yaml:"accent,omitempty"`
	Muted      string `yaml:"muted,omitempty"`
	Danger     string `yaml:"danger,omitempty"`
	Background string `yaml:"background,omitempty"`
	Text       string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings, e.g. "q,ctrl+c".
// Empty fields fall back to the built-in defaults in the ui package.
type KeysConfig struct {
	// Global
	Quit string `yaml:"quit,omitempty"` // default: "ctrl+c"
	Help string `yaml:"help,omitempty"` // default: "?"

	// Home screen
	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	New    string `yaml:"new,omitempty"`    // default: "n,a"
	Open   string `yaml:"open,omitempty"`   // default: "enter"
	Delete string `yaml:"delete,omitempty"` // default: "x"
	Undo   string `yaml:"undo,omitempty"`   // default: "ctrl+z,u"
	Redo   string `yaml:"redo,omitempty"`   // default: "ctrl+y"

	// Write screen
	Save        string `yaml:"save,omitempty"`         // default: "ctrl+s"
	PickDate    string `yaml:"pick_date,omitempty"`    // default: "ctrl+t"
	RevertDate  string `yaml:"revert_date,omitempty"`  // default: "ctrl+r"
	DeleteEntry string `yaml:"delete_entry,omitempty"` // default: "ctrl+x"
	Back        string `yaml:"back,omitempty"`         // default: "esc"
	NextField   string `yaml:"next_field,omitempty"`   // default: "tab"
	PrevField   string `yaml:"prev_field,omitempty"`   // default: "shift+tab"
	PrevMood    string `yaml:"prev_mood,omitempty"`    // default: "ctrl+left"
	NextMood    string `yaml:"next_mood,omitempty"`    // default: "ctrl+right"
	AddImage    string `yaml:"add_image,omitempty"`    // default: "ctrl+o"
	RemoveImage string `yaml:"remove_image,omitempty"` // default: "ctrl+d"

	// Dialogs
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	ConfirmDeletions      bool `yaml:"confirm_deletions,omitempty"`       // default: true
	NarrowLayoutThreshold int  `yaml:"narrow_layout_threshold,omitempty"` // default: 80
	// GlamourStyle is a glamour standard style name ("dark", "light", "notty")
	GlamourStyle string `yaml:"glamour_style,omitempty"` // default: "dark"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Theme: ThemeConfig{
			Primary: "#F59E0B", // Amber
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
			Danger:  "#EF4444", // Red
		},
		UX: UXConfig{
			ConfirmDeletions:      true,
			NarrowLayoutThreshold: 80,
			GlamourStyle:          "dark",
		},
		Gallery: GalleryConfig{
			MaxImages:     8,
			ThumbnailSize: 256,
		},
		Sync: SyncConfig{
			AutoCommit:    true,
			CommitMessage: "auto",
		},
	}
}

func defaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// Path returns the config file location, or "" when no home is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults.
// A missing file yields the defaults.
func Load() (*Config, error) {
	cfg := Default()

	path := Path()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; nil doc means conservative merge

	cfg.mergeFromYAML(&userCfg, &doc)
	return cfg, nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// mergeNonEmpty applies non-empty strings and positive ints from other.
// Booleans need presence-aware merging and are left alone here.
func (c *Config) mergeNonEmpty(other *Config) {
	setIf(&c.DataDir, other.DataDir)

	setIf(&c.Theme.Primary, other.Theme.Primary)
	setIf(&c.Theme.Accent, other.Theme.Accent)
	setIf(&c.Theme.Muted, other.Theme.Muted)
	setIf(&c.Theme.Danger, other.Theme.Danger)
	setIf(&c.Theme.Background, other.Theme.Background)
	setIf(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, other.Keys
	for _, pair := range []struct {
		dst *string
		src string
	}{
		{&k.Quit, o.Quit}, {&k.Help, o.Help},
		{&k.Up, o.Up}, {&k.Down, o.Down}, {&k.New, o.New}, {&k.Open, o.Open},
		{&k.Delete, o.Delete}, {&k.Undo, o.Undo}, {&k.Redo, o.Redo},
		{&k.Save, o.Save}, {&k.PickDate, o.PickDate}, {&k.RevertDate, o.RevertDate},
		{&k.DeleteEntry, o.DeleteEntry}, {&k.Back, o.Back},
		{&k.NextField, o.NextField}, {&k.PrevField, o.PrevField},
		{&k.PrevMood, o.PrevMood}, {&k.NextMood, o.NextMood},
		{&k.AddImage, o.AddImage}, {&k.RemoveImage, o.RemoveImage},
		{&k.Confirm, o.Confirm}, {&k.Cancel, o.Cancel},
	} {
		setIf(pair.dst, pair.src)
	}

	if other.UX.NarrowLayoutThreshold > 0 {
		c.UX.NarrowLayoutThreshold = other.UX.NarrowLayoutThreshold
	}
	setIf(&c.UX.GlamourStyle, other.UX.GlamourStyle)

	if other.Gallery.MaxImages > 0 {
		c.Gallery.MaxImages = other.Gallery.MaxImages
	}
	if other.Gallery.ThumbnailSize > 0 {
		c.Gallery.ThumbnailSize = other.Gallery.ThumbnailSize
	}

	setIf(&c.Sync.CommitMessage, other.Sync.CommitMessage)
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}

	if yamlHasPath(doc, "sync", "enabled") {
		c.Sync.Enabled = other.Sync.Enabled
	}
	if yamlHasPath(doc, "sync", "auto_commit") {
		c.Sync.AutoCommit = other.Sync.AutoCommit
	}
	if yamlHasPath(doc, "sync", "auto_push") {
		c.Sync.AutoPush = other.Sync.AutoPush
	}
	if yamlHasPath(doc, "sync", "pull_on_startup") {
		c.Sync.PullOnStartup = other.Sync.PullOnStartup
	}
	if yamlHasPath(doc, "remind", "sound") {
		c.Remind.Sound = other.Remind.Sound
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the data directory with a leading ~ expanded.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	expanded, err := homedir.Expand(c.DataDir)
	if err != nil {
		return c.DataDir
	}
	return expanded
}
