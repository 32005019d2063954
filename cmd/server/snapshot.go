package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"obesity-risk/internal/config"
	"obesity-risk/internal/dataset"
	"obesity-risk/internal/snapshot"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and list versioned dataset tables",
	}

	var csvPath string
	save := &cobra.Command{
		Use:   "save",
		Short: "Store the dataset as a new versioned table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if csvPath == "" {
				csvPath = cfg.DatasetPath
			}
			t, err := dataset.Load(csvPath)
			if err != nil {
				return err
			}

			svc, closeDB, err := openSnapshots(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			s, err := svc.Save(cmd.Context(), t, csvPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d rows to %s\n", s.RowCount, s.TableName)
			return nil
		},
	}
	save.Flags().StringVar(&csvPath, "csv", "", "dataset CSV (defaults to DATASET_PATH)")
	cmd.AddCommand(save)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the versioned tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, closeDB, err := openSnapshots(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			v, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(v.Tables) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no versions of %s\n", v.BaseName)
				return nil
			}

			registered := make(map[string]snapshot.Snapshot, len(v.Snapshots))
			for _, s := range v.Snapshots {
				registered[s.TableName] = s
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TABLE\tROWS\tCREATED\tSOURCE")
			for _, name := range v.Tables {
				s, ok := registered[name]
				if !ok {
					fmt.Fprintf(tw, "%s\t-\t-\t-\n", name)
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, s.RowCount, s.CreatedAt.Format("2006-01-02 15:04"), s.Source)
			}
			return tw.Flush()
		},
	})

	return cmd
}

func openSnapshots(cmd *cobra.Command, cfg *config.Config) (*snapshot.Service, func(), error) {
	if !cfg.SnapshotsEnabled() {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	logger := newLogger(cfg)
	db, err := connectDB(cmd.Context(), cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, err
	}
	svc, err := snapshot.NewService(snapshot.NewRepository(db), cfg.SnapshotBaseName, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return svc, func() { db.Close() }, nil
}
