package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/glyphdust/pkg/config"
	"github.com/matzehuels/glyphdust/pkg/pipeline"
)

func newFlagCommand(f *optionFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	f.bindAll(cmd)
	f.bindOutput(cmd)
	return cmd
}

func TestOptionsFlagsOverrideConfig(t *testing.T) {
	cfg := &config.Config{
		Icon: pipeline.Options{ParticleCount: 5000, Depth: pipeline.Float(0.2), ParticleShape: "ring"},
		Render: config.Render{
			Formats: []string{"svg"},
			Width:   320,
		},
	}

	var f optionFlags
	cmd := newFlagCommand(&f)
	require.NoError(t, cmd.ParseFlags([]string{"-n", "700", "--strength", "0", "--format", "png,json"}))

	opts := f.options(cmd, cfg, pipeline.SourceIcon)
	assert.Equal(t, pipeline.SourceIcon, opts.Source)
	assert.Equal(t, 700, opts.ParticleCount, "flag wins")
	require.NotNil(t, opts.Depth)
	assert.Equal(t, 0.2, *opts.Depth, "config kept when flag unset")
	assert.Equal(t, "ring", opts.ParticleShape)
	assert.Equal(t, []string{"png", "json"}, opts.Formats)
	assert.Equal(t, 320, opts.Width)
	require.NotNil(t, opts.Strength)
	assert.Equal(t, 0.0, *opts.Strength, "explicit zero strength disables the push")
}

func TestOptionsExplicitZeroDepth(t *testing.T) {
	cfg := &config.Config{Icon: pipeline.Options{Depth: pipeline.Float(0.2)}}

	var f optionFlags
	cmd := newFlagCommand(&f)
	require.NoError(t, cmd.ParseFlags([]string{"--depth", "0", "--influence-radius", "0"}))

	opts := f.options(cmd, cfg, pipeline.SourceIcon)
	require.NoError(t, opts.ValidateAndSetDefaults())
	require.NotNil(t, opts.Depth)
	assert.Equal(t, 0.0, *opts.Depth, "flat shape requested")
	assert.Zero(t, opts.Profile().InfluenceRadius)
}

func TestOptionsUnsetFlagsKeepDefaults(t *testing.T) {
	var f optionFlags
	cmd := newFlagCommand(&f)
	require.NoError(t, cmd.ParseFlags(nil))

	opts := f.options(cmd, &config.Config{}, pipeline.SourceImage)
	assert.Nil(t, opts.Strength, "profile default applies")
	assert.Zero(t, opts.MaxDimension, "left for ValidateAndSetDefaults")
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, pipeline.DefaultMaxDimension, opts.MaxDimension)
}

func TestOptionsImageFlags(t *testing.T) {
	var f optionFlags
	cmd := newFlagCommand(&f)
	require.NoError(t, cmd.ParseFlags([]string{
		"--max-dimension", "120", "--contrast", "40", "--tint", "#ff8800", "--grayscale", "--morph-speed", "0.2",
	}))

	opts := f.options(cmd, &config.Config{}, pipeline.SourceImage)
	assert.Equal(t, 120, opts.MaxDimension)
	assert.Equal(t, 40.0, opts.Contrast)
	assert.Equal(t, "#ff8800", opts.TintColor)
	assert.True(t, opts.Grayscale)
	assert.Equal(t, 0.2, opts.MorphSpeed)
}
