package main

import (
	"context"
	"io"
	"time"

	app "github.com/mohammadpnp/student-import/internal/application/student"
	"github.com/mohammadpnp/student-import/internal/infrastructure/file"
	"github.com/spf13/cobra"
)

type importOutput struct {
	Command    string                          `json:"command"`
	File       string                          `json:"file"`
	DurationMS int64                           `json:"duration_ms"`
	Result     app.ImportStudentsFromCSVOutput `json:"result"`
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		path     string
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a student CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.close()

			return runImport(cmd.Context(), cmd.OutOrStdout(), env.services.ImportStudents, env.source, path, strategy)
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "CSV file, relative to IMPORT_BASE_DIR (required)")
	cmd.Flags().StringVar(&strategy, "strategy", "skip", "Duplicate strategy: skip, update or suffix")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(ctx context.Context, w io.Writer, uc app.ImportStudentsFromCSV, source *file.LocalSource, path, strategy string) error {
	data, err := source.ReadAll(ctx, path)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := uc.Execute(ctx, app.ImportStudentsFromCSVInput{
		CSV:      data,
		Strategy: strategy,
		Source:   path,
	})
	if err != nil {
		return err
	}

	return writeJSON(w, importOutput{
		Command:    "import",
		File:       path,
		DurationMS: time.Since(start).Milliseconds(),
		Result:     res,
	})
}
