package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"maturity-quiz-service/internal/config"
	"maturity-quiz-service/internal/domain"
	"maturity-quiz-service/internal/infra/file"
	"maturity-quiz-service/internal/infra/postgres"
	pgmigrations "maturity-quiz-service/internal/infra/postgres/migrations"
	"maturity-quiz-service/internal/scoring"
)

// NewMigrateCmd applies database migrations and optionally seeds question banks.
func NewMigrateCmd(st *state) *cobra.Command {
	var seed bool
	var seedFiles []string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := runMigrations(ctx, st.cfg, st.logger); err != nil {
				return err
			}
			if !seed && len(seedFiles) == 0 {
				return nil
			}
			banks := make([]domain.QuestionBank, 0, len(seedFiles)+1)
			if seed {
				banks = append(banks, scoring.BuiltinBank())
			}
			for _, path := range seedFiles {
				bank, err := file.ReadBank(path)
				if err != nil {
					return err
				}
				banks = append(banks, bank)
			}
			return seedBanks(ctx, st.cfg, st.logger, banks)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "store the built-in question bank")
	cmd.Flags().StringSliceVar(&seedFiles, "seed-file", nil, "question bank YAML/JSON files to store")
	return cmd
}

func runMigrations(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info("no new migrations")
		return nil
	}
	logger.Info("migrations applied", zap.Stringer("group", group))
	return nil
}

func seedBanks(ctx context.Context, cfg config.Config, logger *zap.Logger, banks []domain.QuestionBank) error {
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.NewBankLoader(pool)
	for _, bank := range banks {
		// Never store a bank the service would refuse to load.
		if err := scoring.Validate(bank); err != nil {
			return err
		}
		if err := store.SaveBank(ctx, bank); err != nil {
			return err
		}
		logger.Info("question bank stored", zap.String("bankId", bank.ID), zap.Int("questions", len(bank.Questions)))
	}
	return nil
}
