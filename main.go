package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/seed"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/pkg/logger"
	"storefront/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Every subcommand loads configuration
// from v before doing anything else.
func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Storefront REST backend: users, products and orders",
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(v),
		newMigrateCmd(v),
		newSeedCmd(v),
	)
	return root
}

// bootstrap loads configuration, initializes logging and opens the database.
func bootstrap(v *viper.Viper) (*config.Config, zerolog.Logger, *gorm.DB, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "storefront",
	})

	db, err := database.Open(database.Config{
		DSN:             cfg.DatabaseDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, log, nil, err
	}
	return cfg, log, db, nil
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, db, err := bootstrap(v)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if cfg.AutoMigrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
				log.Info().Msg("database schema is up to date")
			}

			events, closeEvents := connectEvents(cfg, log)
			defer closeEvents()

			app := server.New(server.Dependencies{
				DB:     db,
				Hasher: auth.NewBcryptHasher(cfg.BcryptCost),
				Tokens: auth.NewJWTCodec(cfg.JWTSecret, cfg.JWTTTL),
				Events: events,
				Log:    log,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			listenErr := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.AppPort).Msg("starting server")
				listenErr <- app.Listen(cfg.AppPort)
			}()

			select {
			case err := <-listenErr:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down server")
			if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
				log.Error().Err(err).Msg("error during shutdown")
			}
			log.Info().Msg("server gracefully stopped")
			return nil
		},
	}
}

// connectEvents dials RabbitMQ when a URL is configured. A broker that cannot
// be reached disables events rather than the API.
func connectEvents(cfg *config.Config, log zerolog.Logger) (services.EventPublisher, func()) {
	if cfg.RabbitMQURL == "" {
		log.Info().Msg("RABBITMQ_URL not set, order events disabled")
		return nil, func() {}
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
	if err != nil {
		log.Error().Err(err).Msg("order events disabled")
		return nil, func() {}
	}

	if cfg.RabbitMQConsume {
		if err := client.ConsumeOrderEvents(rabbitmq.LogOrderEvent(log)); err != nil {
			log.Error().Err(err).Msg("failed to start order event consumer")
		}
	}

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close rabbitmq client")
		}
	}
}

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, log, db, err := bootstrap(v)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if down {
				if err := database.Rollback(db); err != nil {
					return err
				}
				log.Info().Msg("migrations rolled back")
				return nil
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back every migration instead")
	return cmd
}

func newSeedCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo user, products and order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, db, err := bootstrap(v)
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			res, err := seed.Run(ctx, db, auth.NewBcryptHasher(cfg.BcryptCost), log)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return fmt.Errorf("seeding timed out: %w", err)
				}
				return err
			}
			log.Info().
				Int("user_id", res.User.ID).
				Int("products", len(res.Products)).
				Int("order_id", res.Order.ID).
				Msg("database seeded")
			return nil
		},
	}
}
