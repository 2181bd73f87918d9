package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayn2op/tumbler"
	"github.com/ayn2op/tumbler/internal/config"
)

func TestCollectItems(t *testing.T) {
	cfg := config.Config{Items: []string{"from", "config"}}

	t.Run("arguments win", func(t *testing.T) {
		labels, fromConfig, err := collectItems([]string{"a", "b"}, strings.NewReader("c\n"), cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, labels)
		assert.False(t, fromConfig)
	})

	t.Run("stdin lines", func(t *testing.T) {
		labels, fromConfig, err := collectItems(nil, strings.NewReader("one\r\n\ntwo\n"), cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, labels)
		assert.False(t, fromConfig)
	})

	t.Run("config fallback", func(t *testing.T) {
		labels, fromConfig, err := collectItems(nil, strings.NewReader(""), cfg)
		require.NoError(t, err)
		assert.Equal(t, []string{"from", "config"}, labels)
		assert.True(t, fromConfig)
	})

	t.Run("nothing", func(t *testing.T) {
		_, _, err := collectItems(nil, strings.NewReader(""), config.Config{})
		require.ErrorIs(t, err, ErrNoItems)
	})
}

func testConfig() config.Config {
	return config.Config{
		Tumbler: config.TumblerConfig{
			Loop:      true,
			Snap:      true,
			Duration:  time.Second,
			Alignment: "center",
		},
		Appearance: config.AppearanceConfig{Title: "pick", Border: "none", ItemHeight: 1, Help: true},
	}
}

func TestUIApply(t *testing.T) {
	items := tumbler.NewTextItems([]string{"a", "b", "c"})
	u, err := newUI(items, testConfig())
	require.NoError(t, err)

	assert.True(t, u.tumbler.Panel().Config().Loop)
	assert.Equal(t, time.Second, u.tumbler.Panel().Config().AnimationDuration)
	assert.Equal(t, "pick", u.tumbler.GetTitle())
	assert.Equal(t, tumbler.BordersNone, u.tumbler.GetBorders())
	assert.True(t, u.root.Visible(barLayer))
	assert.False(t, u.root.Visible(keysLayer))

	cfg := testConfig()
	cfg.Appearance.Border = "double"
	cfg.Appearance.Help = false
	u.apply(cfg)
	assert.Equal(t, tumbler.BordersAll, u.tumbler.GetBorders())
	assert.False(t, u.root.Visible(barLayer))
	assert.Equal(t, 3, u.root.Count(), "re-adding the key table replaces it")
}

func TestUITumblerBounds(t *testing.T) {
	u, err := newUI(tumbler.NewTextItems([]string{"a"}), testConfig())
	require.NoError(t, err)

	_, _, _, h := u.tumblerBounds(0, 0, 20, 10)
	assert.Equal(t, 9, h, "the help line takes the bottom row")

	u.root.HideLayer(barLayer)
	_, _, _, h = u.tumblerBounds(0, 0, 20, 10)
	assert.Equal(t, 10, h)
}

func TestUIHelpKeyTogglesKeyTable(t *testing.T) {
	u, err := newUI(tumbler.NewTextItems([]string{"a", "b"}), testConfig())
	require.NoError(t, err)
	var focused tumbler.Primitive
	u.root.Focus(func(p tumbler.Primitive) {
		focused = p
		p.Focus(nil)
	})
	require.Same(t, u.tumbler, focused)

	u.tumbler.InputHandler(nil)
	assert.False(t, u.root.Visible(keysLayer), "a nil event matches no key")

	u.root.ToggleLayer(keysLayer)
	assert.True(t, u.root.Visible(keysLayer))
	assert.Same(t, u.keys, focused)

	assert.Equal(t, tumbler.RedrawCommand{}, u.keys.InputHandler(nil))
	assert.False(t, u.root.Visible(keysLayer))
	assert.Same(t, u.tumbler, focused)
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"config", "loop", "snap", "duration", "border", "item-height", "log-file"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
}
