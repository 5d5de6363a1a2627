//go:build nowindow

package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// windowCommand reports that this build has no desktop window support.
func (c *CLI) windowCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "window [file]",
		Short:  "Animate an icon or image in a desktop window (not in this build)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("glyphdust was built with the nowindow tag")
		},
	}
}
