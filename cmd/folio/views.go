package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/eringen/folio/analytics"
)

var siteURL string

var viewsCmd = &cobra.Command{
	Use:   "views <title>",
	Short: "Print the view count of a post from a running site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		vc := &analytics.ViewClient{BaseURL: siteURL, Log: log.New("folio")}
		count := vc.Start(ctx, args[0])
		<-count.Done()
		fmt.Fprintf(cmd.OutOrStdout(), "%s views\n", humanize.Comma(int64(count.Value())))
		return nil
	},
}

func init() {
	viewsCmd.Flags().StringVar(&siteURL, "url", "http://localhost:3000", "base URL of the site")
}
