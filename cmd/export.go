package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/soocke/box-annotator/domain/annotate"
	"github.com/soocke/box-annotator/domain/dataset"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <imageID>",
		Short: "Print an image's normalized labels as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.load(cmd.ErrOrStderr())
			records, err := dataset.NewStore(cfg.DatasetDir, logger).Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if records == nil {
				records = []annotate.Record{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
}
