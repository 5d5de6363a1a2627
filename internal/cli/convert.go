package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphdust/pkg/config"
	"github.com/matzehuels/glyphdust/pkg/pipeline"
)

// convertCommand creates the convert command and its source subcommands.
func (c *CLI) convertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an icon or image into a particle buffer",
		Long: `Convert an icon or image into a particle buffer.

The buffer is written as JSON by default. SVG and PNG render it through the
same camera as the live previews. With --ticks the field first plays its
entrance animation for that many frames, which renders a mid-flight still.

Conversions are cached locally; use --refresh to recompute.`,
	}

	cmd.AddCommand(c.convertSourceCommand(pipeline.SourceIcon))
	cmd.AddCommand(c.convertSourceCommand(pipeline.SourceImage))

	return cmd
}

// convertSourceCommand creates "convert icon" or "convert image".
func (c *CLI) convertSourceCommand(source string) *cobra.Command {
	var (
		flags  optionFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   source + " [file|-]...",
		Short: "Convert " + source + " files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, source)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if len(args) > 1 {
				if output != "" {
					return fmt.Errorf("--output needs a single input, got %d", len(args))
				}
				if source == pipeline.SourceIcon {
					return c.runConvertIcons(cmd.Context(), cfg, args, opts)
				}
			}
			for _, input := range args {
				if err := c.runConvert(cmd.Context(), cfg, input, opts, output); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	if source == pipeline.SourceIcon {
		flags.bindIcon(cmd)
	} else {
		flags.bindImage(cmd)
		cmd.Flags().Uint64Var(&flags.v.Seed, "seed", 0, "random seed for the entrance animation (0 = random)")
		flags.add("seed", func(d *pipeline.Options, f *optionFlags) { d.Seed = f.v.Seed })
	}
	flags.bindAnimation(cmd)
	flags.bindShape(cmd)
	flags.bindOutput(cmd)

	return cmd
}

// runConvert reads one input and runs the full pipeline on it.
func (c *CLI) runConvert(ctx context.Context, cfg *config.Config, input string, opts pipeline.Options, output string) error {
	data, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	setInput(&opts, data)

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if output == stdinName {
		uiOut = os.Stderr
		defer func() { uiOut = os.Stdout }()
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Converting %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Conversion failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Converted %s", input)
	printStats(convertStats{
		particles: result.Stats.Particles,
		subpaths:  result.Stats.Subpaths,
		segments:  result.Stats.Segments,
		cached:    result.CacheInfo.ConvertHit,
		fallback:  result.Stats.Fallback,
	})
	if result.Stats.Fallback {
		printWarning("No outline found in %s; sampled the fallback disk", input)
	}
	for _, p := range paths {
		if p != stdinName {
			printFile(p)
		}
	}
	return nil
}

// runConvertIcons converts several icons concurrently and writes each
// next to its input.
func (c *CLI) runConvertIcons(ctx context.Context, cfg *config.Config, inputs []string, opts pipeline.Options) error {
	markups := make([]string, len(inputs))
	for i, input := range inputs {
		if input == stdinName {
			return fmt.Errorf("stdin cannot be combined with other inputs")
		}
		data, err := readInput(input)
		if err != nil {
			return fmt.Errorf("read %s: %w", input, err)
		}
		markups[i] = string(data)
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, fmt.Sprintf("Converting %d icons...", len(inputs)))
	spinner.Start()

	bufs, err := runner.Icons(ctx, markups, opts)
	if err != nil {
		spinner.StopWithError("Conversion failed")
		return err
	}
	spinner.Stop()

	total := 0
	for i, buf := range bufs {
		total += buf.Len()
		frame, err := pipeline.Animate(buf, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", inputs[i], err)
		}
		artifacts, err := pipeline.Render(frame, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", inputs[i], err)
		}
		paths, err := writeArtifacts(artifacts, opts.Formats, inputs[i], "")
		if err != nil {
			return err
		}
		printSuccess("Converted %s", inputs[i])
		printStats(convertStats{particles: buf.Len()})
		for _, p := range paths {
			printFile(p)
		}
	}
	prog.done("Converted icons", "icons", len(inputs), "particles", total)
	return nil
}
