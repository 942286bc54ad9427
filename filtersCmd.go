package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bob-anderson-ok/layeredem/filters"
)

func newFiltersCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Export and check digital linear filters",
	}
	cmd.AddCommand(newFiltersExportCommand(root))
	cmd.AddCommand(newFiltersCheckCommand(root))
	return cmd
}

func newFiltersExportCommand(root *rootOptions) *cobra.Command {
	var format, plotFile string
	cmd := &cobra.Command{
		Use:       "export <hankel|fourier>",
		Short:     "Write a built-in filter to stdout",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"hankel", "fourier"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var f *filters.Filter
			switch args[0] {
			case "hankel":
				f = filters.Hankel()
			case "fourier":
				f = filters.Fourier()
			default:
				return commandError("unknown filter %q, want hankel or fourier", args[0])
			}
			ff := filters.Format(format)
			if ff != filters.YAML && ff != filters.JSON5 {
				return commandError("unknown format %q, want yaml or json5", format)
			}
			if err := f.Write(cmd.OutOrStdout(), ff); err != nil {
				return err
			}
			if plotFile != "" {
				if err := makeFilterPlot(f, plotFile); err != nil {
					return fmt.Errorf("plotting filter: %w", err)
				}
			}

			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			logger.Debug("filter exported", zap.String("filter", f.Name), zap.Int("length", len(f.Base)))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(filters.YAML), "output format (yaml|json5)")
	cmd.Flags().StringVar(&plotFile, "plot", "", "also plot the weights to this PNG file")
	return cmd
}

func newFiltersCheckCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <filter-file>",
		Short: "Validate a filter file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filters.Load(args[0])
			if err != nil {
				return commandError("%w", err)
			}
			kind := "fourier"
			if f.IsHankel() {
				kind = "hankel"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s filter, %d points\n", f.Name, kind, len(f.Base))

			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			logger.Debug("filter checked", zap.String("file", args[0]))
			return nil
		},
	}
}
