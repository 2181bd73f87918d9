// Package config loads the tumbler command configuration from defaults, a
// TOML file, the environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayn2op/tumbler"
	"github.com/ayn2op/tumbler/keybind"
	"github.com/ayn2op/tumbler/loop"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "TUMBLER"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the command configuration.
type Config struct {
	Tumbler    TumblerConfig
	Appearance AppearanceConfig
	Keys       KeysConfig
	Log        LogConfig
	Items      []string
	FrameRate  int `mapstructure:"frame_rate"`
}

// TumblerConfig holds the scrolling behavior.
type TumblerConfig struct {
	Loop       bool
	Snap       bool
	Virtualize bool
	Duration   time.Duration
	Easing     string
	Alignment  string
	ShownCount int `mapstructure:"shown_count"`
	Selected   int
}

// AppearanceConfig holds presentation settings.
type AppearanceConfig struct {
	Title      string
	Border     string
	ItemHeight int `mapstructure:"item_height"`
	Indicator  bool
	Counter    bool
	// Help shows a line of key bindings below the tumbler.
	Help       bool
}

// KeysConfig holds key names per action, in the notation of the keybind
// package.
type KeysConfig struct {
	Up       []string
	Down     []string
	PageUp   []string `mapstructure:"page_up"`
	PageDown []string `mapstructure:"page_down"`
	Home     []string
	End      []string
	Select   []string
	Help     []string
	Quit     []string
}

// LogConfig holds the log file settings.
type LogConfig struct {
	Path  string
	Level string
}

// DefaultPath returns ~/.config/tumbler/config.toml.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "tumbler", "config.toml")
}

// Loader reads the configuration and keeps track of the file it came from.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader for path. An empty path falls back to
// TUMBLER_CONFIG and then to [DefaultPath].
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tumbler.loop", false)
	v.SetDefault("tumbler.snap", true)
	v.SetDefault("tumbler.virtualize", false)
	v.SetDefault("tumbler.duration", loop.DefaultAnimationDuration)
	v.SetDefault("tumbler.easing", "linear")
	v.SetDefault("tumbler.alignment", "center")
	v.SetDefault("tumbler.shown_count", 0)
	v.SetDefault("tumbler.selected", 0)
	v.SetDefault("appearance.title", "")
	v.SetDefault("appearance.border", "round")
	v.SetDefault("appearance.item_height", 1)
	v.SetDefault("appearance.indicator", true)
	v.SetDefault("appearance.counter", true)
	v.SetDefault("appearance.help", true)
	v.SetDefault("keys.up", []string{"up", "k"})
	v.SetDefault("keys.down", []string{"down", "j"})
	v.SetDefault("keys.page_up", []string{"pgup", "ctrl+b"})
	v.SetDefault("keys.page_down", []string{"pgdn", "ctrl+f"})
	v.SetDefault("keys.home", []string{"home", "g"})
	v.SetDefault("keys.end", []string{"end", "G"})
	v.SetDefault("keys.select", []string{"enter", "space"})
	v.SetDefault("keys.help", []string{"?"})
	v.SetDefault("keys.quit", []string{"q", "esc", "ctrl+c"})
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("items", []string{})
	v.SetDefault("frame_rate", 60)
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"loop":        "tumbler.loop",
	"snap":        "tumbler.snap",
	"virtualize":  "tumbler.virtualize",
	"duration":    "tumbler.duration",
	"easing":      "tumbler.easing",
	"alignment":   "tumbler.alignment",
	"selected":    "tumbler.selected",
	"title":       "appearance.title",
	"border":      "appearance.border",
	"item-height": "appearance.item_height",
	"indicator":   "appearance.indicator",
	"help-bar":    "appearance.help",
	"log-file":    "log.path",
	"log-level":   "log.level",
}

// BindFlags lets the flags of cmd that are set override file and
// environment values.
func (l *Loader) BindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration file if present and decodes the result. A
// missing file is only an error when it was named explicitly.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Path returns the file the configuration was read from, if any.
func (l *Loader) Path() string {
	return l.v.ConfigFileUsed()
}

// Watch calls fn with the decoded configuration each time the file changes.
// It reports false when no file was loaded.
func (l *Loader) Watch(fn func(Config, error)) bool {
	if l.Path() == "" {
		return false
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(l.decode())
	})
	l.v.WatchConfig()
	return true
}

// Validate reports names that do not map to a known option.
func (c Config) Validate() error {
	if _, ok := loop.ParseAlignment(c.Tumbler.Alignment); !ok {
		return fmt.Errorf("%w: alignment %q", ErrInvalid, c.Tumbler.Alignment)
	}
	if _, ok := ParseEasing(c.Tumbler.Easing); !ok {
		return fmt.Errorf("%w: easing %q", ErrInvalid, c.Tumbler.Easing)
	}
	if _, ok := tumbler.ParseBorderSet(c.Appearance.Border); !ok {
		return fmt.Errorf("%w: border %q", ErrInvalid, c.Appearance.Border)
	}
	if c.Appearance.ItemHeight < 1 {
		return fmt.Errorf("%w: item height %d", ErrInvalid, c.Appearance.ItemHeight)
	}
	if c.Tumbler.Duration < 0 {
		return fmt.Errorf("%w: duration %s", ErrInvalid, c.Tumbler.Duration)
	}
	return nil
}

// ParseEasing returns the easing curve with the given name.
func ParseEasing(name string) (loop.Easing, bool) {
	switch name {
	case "", "linear":
		return loop.Linear, true
	case "expo", "ease-in-out-expo":
		return loop.EaseInOutExpo, true
	}
	return loop.Linear, false
}

// Engine converts the scrolling settings into a panel configuration.
func (c Config) Engine() loop.Config {
	cfg := loop.DefaultConfig()
	cfg.Loop = c.Tumbler.Loop
	cfg.SnapToItem = c.Tumbler.Snap
	cfg.Virtualize = c.Tumbler.Virtualize
	cfg.ShownCount = c.Tumbler.ShownCount
	cfg.SelectedIndex = c.Tumbler.Selected
	if c.Tumbler.Duration > 0 {
		cfg.AnimationDuration = c.Tumbler.Duration
	}
	cfg.Easing, _ = ParseEasing(c.Tumbler.Easing)
	cfg.VerticalAlignment, _ = loop.ParseAlignment(c.Tumbler.Alignment)
	return cfg
}

// KeyMap converts the key names into widget key bindings. Actions without
// names keep their default keys.
func (c Config) KeyMap() tumbler.KeyMap {
	keys := tumbler.DefaultKeyMap()
	for _, b := range []struct {
		kb    *keybind.Keybind
		names []string
	}{
		{&keys.Up, c.Keys.Up},
		{&keys.Down, c.Keys.Down},
		{&keys.PageUp, c.Keys.PageUp},
		{&keys.PageDown, c.Keys.PageDown},
		{&keys.Home, c.Keys.Home},
		{&keys.End, c.Keys.End},
		{&keys.Select, c.Keys.Select},
		{&keys.Help, c.Keys.Help},
		{&keys.Quit, c.Keys.Quit},
	} {
		if len(b.names) > 0 {
			b.kb.SetKeys(b.names...)
		}
	}
	return keys
}
