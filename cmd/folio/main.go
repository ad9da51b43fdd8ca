// Command folio serves, builds and scaffolds folio sites.
package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

// version is set at build time via ldflags.
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "A personal blog and portfolio engine built with Go, Echo, and templ",
	Long: `folio renders a markdown blog, tag pages, RSS feed and project
portfolio. Run it as a server with "folio serve" or generate a static
site with "folio build".`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the folio version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.AddCommand(serveCmd, buildCmd, newCmd, viewsCmd, versionCmd)
}

// newApp loads the configuration and builds an App with the default theme.
func newApp() (*folio.App, error) {
	cfg, err := folio.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	app := folio.New(cfg, folio.ViewFuncs{})
	configureLogger(app.Echo.Logger, cfg.Production)
	return app, nil
}

func configureLogger(l echo.Logger, production bool) {
	l.SetPrefix("folio")
	if production {
		l.SetLevel(log.INFO)
		return
	}
	l.SetLevel(log.DEBUG)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
