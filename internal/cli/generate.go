package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/inkblot/pkg/errors"
	"github.com/matzehuels/inkblot/pkg/export"
)

// generateCommand creates the generate command: draw one inkblot and save it.
func (c *CLI) generateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate one inkblot and save it as PNG",
		Long: `Generate draws a fresh inkblot and saves it as a PNG file.

The parameters behind the image (shape count, padding, blur) are printed so
an interesting result can be reproduced with --seed.`,
		Example: `  inkblot generate
  inkblot generate -o blot.png --seed 42
  inkblot generate --preset sparse --blur 8-12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", export.DefaultImageName, "output PNG file")
	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, output string) error {
	if err := validateImagePath(output); err != nil {
		return err
	}
	comp, canvas, err := c.newComposer(cmd)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	params := comp.Generate(cmd.Context(), canvas)
	if err := export.SaveImage(output, canvas.Image()); err != nil {
		return err
	}
	prog.done("Rendered inkblot")

	printSuccess("Generated %s", output)
	printParams(params)
	printKeyValue("Seed", StyleNumber.Render(formatSeed(comp.Seed())))
	printNextStep("Export a batch", "inkblot batch -n 10")
	return nil
}

// validateImagePath requires a usable path ending in .png.
func validateImagePath(path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return errors.New(errors.ErrCodeInvalidPath, "output must be a .png file: %s", path)
	}
	return nil
}
