package ingest

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/simseed/simseed/log"
	"github.com/simseed/simseed/pkg/config"
	"github.com/simseed/simseed/pkg/db/postgres"
	bobrepos "github.com/simseed/simseed/pkg/repository/bob"
	"github.com/simseed/simseed/pkg/service/ingest"
	"github.com/simseed/simseed/pkg/utils"
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "imports a provider export file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runImport(ctx context.Context, file string) error {
	// wait for database
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err = utils.WaitForTCP(postgresAddr, timeout); err != nil {
		log.Fatal("database not ready", log.ErrorField(err))
	}

	pool := postgres.InitWithUrl(config.DB)
	defer pool.Close()

	svc := ingest.NewService(
		ingest.WithRepositories(bobrepos.NewRepositoriesFromPool(pool)),
		ingest.WithPool(pool))
	res, err := svc.ImportFile(ctx, file)
	if err != nil {
		return err
	}
	log.Info("import finished",
		log.String("runId", res.RunID.String()),
		log.Int("sessions", res.Sessions),
		log.Int64("telemetryRows", res.TelemetryRows),
		log.Int64("lapRows", res.LapRows),
		log.Int("skippedRows", res.SkippedRows))
	return nil
}
