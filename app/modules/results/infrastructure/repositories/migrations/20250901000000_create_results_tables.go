package resultsmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	resultsdb "github.com/Infuseting/SAE301-sub003/app/modules/results/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating results tables...")

		// Reference tables are owned by the event-management modules but
		// created here IF NOT EXISTS so the engine can run standalone.
		for _, model := range []interface{}{
			(*resultsdb.Race)(nil),
			(*resultsdb.User)(nil),
			(*resultsdb.Team)(nil),
			(*resultsdb.Participation)(nil),
			(*resultsdb.IndividualResult)(nil),
			(*resultsdb.TeamResult)(nil),
		} {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		if _, err := db.NewCreateIndex().
			Model((*resultsdb.IndividualResult)(nil)).
			Index("individual_results_user_race_key").
			Unique().
			Column("user_id", "race_id").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateIndex().
			Model((*resultsdb.TeamResult)(nil)).
			Index("team_results_team_race_key").
			Unique().
			Column("team_id", "race_id").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateIndex().
			Model((*resultsdb.Participation)(nil)).
			Index("participations_user_race_idx").
			Column("user_id", "race_id").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Results tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping results tables...")

		for _, model := range []interface{}{
			(*resultsdb.IndividualResult)(nil),
			(*resultsdb.TeamResult)(nil),
		} {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Results tables dropped successfully!")
		return nil
	})
}
