package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hupe1980/vtkconverter"
	"github.com/hupe1980/vtkconverter/export"
	"github.com/hupe1980/vtkconverter/transform"
)

func infoCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Print general information about meshes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.converter("")
			if err != nil {
				return err
			}
			if err := open(cmd.Context(), c, args...); err != nil {
				return err
			}
			for _, name := range args {
				info, err := c.Info(name)
				if err != nil {
					return err
				}
				printInfo(cmd.OutOrStdout(), info)
			}
			return nil
		},
	}
}

func statsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE FIELD...",
		Short: "Print range, integral and average of fields",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.converter("")
			if err != nil {
				return err
			}
			if err := open(cmd.Context(), c, args[0]); err != nil {
				return err
			}
			for _, field := range args[1:] {
				st, err := c.Describe(args[0], field)
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), st)
			}
			return nil
		},
	}
}

func writeCmd(g *globals) *cobra.Command {
	var (
		format string
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "write FILE",
		Short: "Export fields as point cloud, IP-Fluent profile or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.converter(g.out)
			if err != nil {
				return err
			}
			if err := open(cmd.Context(), c, args[0]); err != nil {
				return err
			}
			done := g.logger.WithMesh(args[0]).StartTimer(cmd.Name())
			defer done()

			paths, err := c.Write(cmd.Context(), args[0], fields, format)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "File %s created\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", fmt.Sprintf("Output format: %v (required)", export.Formats()))
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Field to export (repeatable, required)")
	_ = cmd.MarkFlagRequired("format")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

// transformCmd builds translate and rotate, which share their argument shape.
func transformCmd(
	g *globals,
	use, short string,
	apply func(c *vtkconverter.Converter, cmd *cobra.Command, name string, v [3]float64) (transform.Result, error),
) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v [3]float64
			for i, s := range args[1:] {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return fmt.Errorf("argument %d: %w", i+2, err)
				}
				v[i] = f
			}
			c, err := g.converter("")
			if err != nil {
				return err
			}
			if err := open(cmd.Context(), c, args[0]); err != nil {
				return err
			}
			done := g.logger.WithMesh(args[0]).StartTimer(cmd.Name())
			defer done()

			res, err := apply(c, cmd, args[0], v)
			if err != nil {
				return err
			}
			return finish(cmd, c, res, save)
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "Save the result as a VTK file: binary|ascii")
	return cmd
}

func translateCmd(g *globals) *cobra.Command {
	return transformCmd(g, "translate FILE DX DY DZ", "Translate a mesh",
		func(c *vtkconverter.Converter, cmd *cobra.Command, name string, v [3]float64) (transform.Result, error) {
			return c.Translate(cmd.Context(), name, v[0], v[1], v[2])
		})
}

func rotateCmd(g *globals) *cobra.Command {
	return transformCmd(g, "rotate FILE RX RY RZ", "Rotate a mesh about x, then y, then z (degrees)",
		func(c *vtkconverter.Converter, cmd *cobra.Command, name string, v [3]float64) (transform.Result, error) {
			return c.Rotate(cmd.Context(), name, v[0], v[1], v[2])
		})
}

func jointCmd(g *globals) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "joint A B",
		Short: "Merge two meshes into one unstructured grid",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.converter("")
			if err != nil {
				return err
			}
			if err := open(cmd.Context(), c, args...); err != nil {
				return err
			}
			res, err := c.Joint(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return finish(cmd, c, res, save)
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "Save the result as a VTK file: binary|ascii")
	return cmd
}

func finish(cmd *cobra.Command, c *vtkconverter.Converter, res transform.Result, save string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Mesh %s created (%s)\n", res.Name, res.Kind)
	if save == "" {
		return nil
	}
	if err := c.Save(cmd.Context(), res.Name, save); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "File %s saved\n", res.Name)
	return nil
}
