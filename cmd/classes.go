package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soocke/box-annotator/domain/dataset"
)

func newClassesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List or add dataset classes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the class registry, one id and name per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.load(cmd.ErrOrStderr())
			names, err := dataset.NewStore(cfg.DatasetDir, logger).Classes(cmd.Context())
			if err != nil {
				return err
			}
			for i, n := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, n)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a class to the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.load(cmd.ErrOrStderr())
			store := dataset.NewStore(cfg.DatasetDir, logger)
			if err := store.Init(); err != nil {
				return err
			}
			res, err := store.AddClass(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", res.Status, res.ClassID, res.Classes[res.ClassID])
			return nil
		},
	})
	return cmd
}
