package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docu-cli/internal/adapters/driving/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Ingest documents added to a directory",
	Long: `Watches a directory and ingests every supported document created or
rewritten in it. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	opts := []watch.Option{
		watch.WithDebounce(watchDebounce),
		watch.WithResultHandler(func(r watch.Result) {
			if r.Err != nil {
				cmd.PrintErrf("failed %s: %v\n", r.Path, r.Err)
				return
			}
			cmd.Printf("ingested %s -> %s (%d chunks)\n", r.Path, r.Ingest.DocumentID, r.Ingest.ChunkCount)
		}),
	}
	if supportsFile != nil {
		opts = append(opts, watch.WithFilter(supportsFile))
	}

	w, err := watch.New(pipelineService, args[0], opts...)
	if err != nil {
		return err
	}
	return w.Run(cmd.Context())
}
