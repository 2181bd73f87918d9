// Package cmd implements the tumbler command line.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/ayn2op/tumbler"
	"github.com/ayn2op/tumbler/help"
	"github.com/ayn2op/tumbler/internal/config"
	"github.com/ayn2op/tumbler/internal/logging"
	"github.com/ayn2op/tumbler/layers"
	"github.com/ayn2op/tumbler/loop"
)

// ErrNoItems is returned when neither arguments, stdin nor the
// configuration provide items.
var ErrNoItems = errors.New("no items to pick from")

var rootCmd = &cobra.Command{
	Use:   "tumbler [items...]",
	Short: "Pick an item from a scrolling list",
	Long: `Show items in a tumbler that scrolls with the wheel, drags, keys and clicks.
The chosen item is printed to stdout. Items come from the arguments, from
stdin when it is not a terminal, or from the items list of the config file.`,
	Example: `
# Pick a weekday
tumbler mon tue wed thu fri sat sun

# Pick an hour, wrapping around midnight
seq -w 0 23 | tumbler --loop

# Use another config file
tumbler --config ./tumbler.toml
  `,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP("config", "c", "", "Config file (default $TUMBLER_CONFIG or ~/.config/tumbler/config.toml)")
	flags.BoolP("loop", "l", false, "Wrap around endlessly")
	flags.Bool("snap", true, "Center the closest item after a drag")
	flags.Bool("virtualize", false, "Only create the items near the viewport")
	flags.Duration("duration", loop.DefaultAnimationDuration, "Duration of the scroll animation")
	flags.String("easing", "linear", "Animation easing: linear or expo")
	flags.String("alignment", "center", "Vertical alignment: start, center or end")
	flags.IntP("selected", "s", 0, "Index of the initially selected item")
	flags.StringP("title", "t", "", "Title shown in the border")
	flags.String("border", "round", "Border: plain, round, thick, double or none")
	flags.Int("item-height", 1, "Rows per item")
	flags.Bool("indicator", true, "Show the position indicator")
	flags.Bool("help-bar", true, "Show a line of key bindings")
	flags.String("log-file", "", "Write logs to this file")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
}

// Execute runs the root command.
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithoutManpage()); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	loader := config.NewLoader(path)
	if err := loader.BindFlags(cmd); err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	logger, closer := logging.New(logging.Options{
		Path:       cfg.Log.Path,
		Level:      cfg.Log.Level,
		MaxSizeMB:  5,
		MaxBackups: 3,
	})
	defer closer.Close()
	slog.SetDefault(logger)
	loop.SetLogger(logger)

	labels, fromConfig, err := collectItems(args, cmd.InOrStdin(), cfg)
	if err != nil {
		return err
	}

	items := tumbler.NewTextItems(labels).SetItemHeight(cfg.Appearance.ItemHeight)
	ui, err := newUI(items, cfg)
	if err != nil {
		return err
	}
	defer ui.tumbler.Close()

	app := tumbler.NewApplication().
		SetLogger(logger).
		SetFrameRate(cfg.FrameRate)

	chosen := -1
	ui.tumbler.SetSelectedFunc(func(index int) {
		chosen = index
		app.Stop()
	})
	app.SetRoot(ui.root)

	if loader.Watch(func(next config.Config, err error) {
		if err != nil {
			logger.Warn("ignoring config change", "err", err)
			return
		}
		logger.Info("config reloaded", "path", loader.Path())
		app.QueueUpdateDraw(func() {
			ui.apply(next)
			if fromConfig && len(next.Items) > 0 && !slices.Equal(items.Labels(), next.Items) {
				items.SetLabels(next.Items)
				ui.tumbler.Reset()
			}
		})
	}) {
		logger.Debug("watching config", "path", loader.Path())
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("run tumbler: %w", err)
	}
	if chosen >= 0 {
		fmt.Fprintln(cmd.OutOrStdout(), items.Labels()[chosen])
	}
	return nil
}

const (
	tumblerLayer = "tumbler"
	barLayer     = "bar"
	keysLayer    = "keys"
)

// ui is the tumbler with a help line below it and a table of all keys that
// the help key toggles.
type ui struct {
	root    *layers.Layers
	tumbler *tumbler.Tumbler
	bar     *help.Help
	keys    *help.Help
}

func newUI(items *tumbler.TextItems, cfg config.Config) (*ui, error) {
	t, err := tumbler.NewTumbler(items, items, cfg.Engine())
	if err != nil {
		return nil, err
	}
	u := &ui{
		root:    layers.New(),
		tumbler: t,
		bar:     help.New(),
		keys:    help.New().SetShowAll(true),
	}
	u.keys.SetBorders(tumbler.BordersAll)
	u.keys.SetBorderSet(tumbler.BorderSetRound())
	u.keys.SetTitle("keys")
	u.keys.SetDoneFunc(func() { u.root.HideLayer(keysLayer) })
	t.SetHelpFunc(func() { u.root.ToggleLayer(keysLayer) })

	u.root.AddLayer(t, layers.WithName(tumblerLayer), layers.WithBounds(u.tumblerBounds))
	u.root.AddLayer(u.bar, layers.WithName(barLayer), layers.WithBounds(layers.Bottom(1)), layers.WithEnabled(false))
	u.apply(cfg)
	return u, nil
}

// tumblerBounds leaves the bottom row to the help line when it is shown.
func (u *ui) tumblerBounds(x, y, width, height int) (int, int, int, int) {
	if u.root.Visible(barLayer) {
		height--
	}
	return x, y, width, max(height, 0)
}

// apply sets the options that can change while the tumbler is running.
func (u *ui) apply(cfg config.Config) {
	engine := cfg.Engine()
	keys := cfg.KeyMap()
	u.tumbler.SetLoop(engine.Loop).
		SetSnapToItem(engine.SnapToItem).
		SetAnimationDuration(engine.AnimationDuration).
		SetKeyMap(keys).
		SetIndicatorVisible(cfg.Appearance.Indicator).
		SetCounterVisible(cfg.Appearance.Counter)

	set, _ := tumbler.ParseBorderSet(cfg.Appearance.Border)
	borders := tumbler.BordersAll
	if strings.EqualFold(strings.TrimSpace(cfg.Appearance.Border), "none") {
		borders = tumbler.BordersNone
	}
	u.tumbler.SetBorders(borders)
	u.tumbler.SetBorderSet(set)
	u.tumbler.SetTitle(cfg.Appearance.Title)

	u.bar.SetKeyMap(keys)
	if cfg.Appearance.Help {
		u.root.ShowLayer(barLayer)
	} else {
		u.root.HideLayer(barLayer)
	}

	// The table is sized to its content, so it is added again whenever the
	// keys change.
	u.keys.SetKeyMap(keys)
	width, lines := 0, u.keys.Lines(0)
	for _, line := range lines {
		width = max(width, tumbler.StringWidth(line))
	}
	u.root.AddLayer(u.keys,
		layers.WithName(keysLayer),
		layers.WithBounds(layers.Centered(width+2, len(lines)+2)),
		layers.WithOverlay(),
		layers.WithVisible(u.root.Visible(keysLayer)),
	)
}

// collectItems returns the labels to pick from and whether they came from
// the configuration.
func collectItems(args []string, stdin io.Reader, cfg config.Config) ([]string, bool, error) {
	if len(args) > 0 {
		return args, false, nil
	}
	if f, ok := stdin.(*os.File); !ok || !isTerminal(f) {
		lines, err := readLines(stdin)
		if err != nil {
			return nil, false, err
		}
		if len(lines) > 0 {
			return lines, false, nil
		}
	}
	if len(cfg.Items) > 0 {
		return cfg.Items, true, nil
	}
	return nil, false, ErrNoItems
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return lines, nil
}
