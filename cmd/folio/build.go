package main

import (
	"github.com/spf13/cobra"
)

var outDir string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static site",
	Long: `build renders every page, the RSS feeds, sitemap and robots.txt into
the output directory and copies the public assets next to them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return app.Build(cmd.Context(), outDir)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config, \"out\")")
}
