package main

import (
	"context"
	"io"

	app "github.com/mohammadpnp/student-import/internal/application/student"
	"github.com/mohammadpnp/student-import/internal/infrastructure/file"
	"github.com/spf13/cobra"
)

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Report what an import of a CSV file would run into, without writing",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.close()

			return runPreview(cmd.Context(), cmd.OutOrStdout(), env.services.Preview, env.source, path)
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "CSV file, relative to IMPORT_BASE_DIR (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runPreview(ctx context.Context, w io.Writer, uc app.PreviewStudentsImport, source *file.LocalSource, path string) error {
	data, err := source.ReadAll(ctx, path)
	if err != nil {
		return err
	}

	res, err := uc.Execute(ctx, app.PreviewStudentsImportInput{CSV: data})
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}
