package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rogerjs93/rsvp/reader"
)

var (
	recentLimit  int
	recentFilter string

	recentCmd = &cobra.Command{
		Use:   "recent",
		Short: "List recently read documents",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := reader.LoadConfigFromViper()
			if err != nil {
				return err
			}
			store := openCache(cfg)
			if store == nil {
				return fmt.Errorf("document cache is unavailable")
			}
			defer store.Close()

			docs := store.Recent(recentLimit)
			if recentFilter != "" {
				docs = store.Search(recentFilter)
			}
			if len(docs) == 0 {
				fmt.Println("No documents read yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			for _, d := range docs {
				fmt.Fprintf(w, "%s\t%s words\t%s\n",
					d.Name,
					humanize.Comma(int64(d.WordCount)),
					humanize.Time(d.SavedAt),
				)
			}
			return w.Flush()
		},
	}
)

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 10, "maximum documents to list")
	recentCmd.Flags().StringVarP(&recentFilter, "filter", "f", "", "fuzzy-filter documents by name")
}
