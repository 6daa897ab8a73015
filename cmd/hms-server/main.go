package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/diagnostics"
	"github.com/hms/hms/internal/domain/facility"
	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/domain/scheduling"
	"github.com/hms/hms/internal/domain/staff"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hms-server",
		Short: "Hospital administration API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// seedCmd creates the bootstrap admin and the default charge master rows the
// patient registration flow depends on.
func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed bootstrap admin and default charge masters",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("admin-email")
			password, _ := cmd.Flags().GetString("admin-password")
			if email == "" || password == "" {
				return fmt.Errorf("--admin-email and --admin-password are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret,
				cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
			identitySvc := identity.NewService(identity.NewUserRepoPG(pool), issuer)

			admin := &identity.User{Name: "Administrator", Email: email, Role: identity.RoleAdmin}
			if err := identitySvc.Register(ctx, admin, password); err != nil {
				if httperr.Status(err) == http.StatusConflict {
					fmt.Printf("Admin %s already exists, skipping.\n", email)
				} else {
					return err
				}
			} else {
				fmt.Printf("Created admin %s (user #%d).\n", email, admin.UserNumber)
			}

			billingSvc := billing.NewService(billing.NewChargeMasterRepoPG(pool),
				billing.NewChargeRepoPG(pool), billing.NewServiceItemRepoPG(pool))

			defaults := []billing.ChargeMaster{
				{Name: "OPD Consultation (New)", Code: "OPD_NEW", ChargeType: "OPD", Amount: 500},
				{Name: "OPD Consultation (Returning)", Code: "OPD_OLD", ChargeType: "OPD", Amount: 300},
				{Name: "IPD Admission (New)", Code: "IPD_NEW", ChargeType: "IPD", Amount: 2000},
				{Name: "IPD Admission (Returning)", Code: "IPD_OLD", ChargeType: "IPD", Amount: 1500},
				{Name: "Emergency Admission", Code: "EMERGENCY", ChargeType: "EMERGENCY", Amount: 1000},
			}
			for _, cm := range defaults {
				cm := cm
				if err := billingSvc.CreateChargeMaster(ctx, &cm); err != nil {
					if httperr.Status(err) == http.StatusConflict {
						fmt.Printf("Charge master %s already exists, skipping.\n", cm.Code)
						continue
					}
					return err
				}
				fmt.Printf("Created charge master %s (%.2f %s).\n", cm.Code, cm.Amount, cm.Currency)
			}
			return nil
		},
	}
	cmd.Flags().String("admin-email", "", "Bootstrap admin email")
	cmd.Flags().String("admin-password", "", "Bootstrap admin password")
	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	txRunner := db.NewTxRunner(pool)

	// Services
	identitySvc := identity.NewService(identity.NewUserRepoPG(pool), issuer)
	staffSvc := staff.NewService(staff.NewDoctorRepoPG(pool), staff.NewLabTechnicianRepoPG(pool),
		staff.NewRecipientRepoPG(pool), staff.NewSpecializationRepoPG(pool),
		staff.NewDegreeRepoPG(pool), staff.NewDepartmentRepoPG(pool), identitySvc)
	facilitySvc := facility.NewService(facility.NewFloorRepoPG(pool), facility.NewWardRepoPG(pool),
		facility.NewRoomRepoPG(pool), facility.NewBedRepoPG(pool))
	diagnosticsSvc := diagnostics.NewService(diagnostics.NewLabTestRepoPG(pool))
	billingSvc := billing.NewService(billing.NewChargeMasterRepoPG(pool),
		billing.NewChargeRepoPG(pool), billing.NewServiceItemRepoPG(pool))
	schedulingSvc := scheduling.NewService(scheduling.NewAppointmentRepoPG(pool), txRunner)
	patientSvc := patient.NewService(patient.NewPatientRepoPG(pool), billingSvc, txRunner)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httperr.Handler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	// Login and token refresh stay outside the auth middleware.
	public := e.Group("/api/auth")
	public.Use(middleware.RateLimit(rateLimitCfg))

	api := e.Group("/api")
	api.Use(middleware.RateLimit(rateLimitCfg))
	if cfg.IsDev() {
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.Middleware(issuer))
	}

	identity.NewHandler(identitySvc).RegisterRoutes(public, api.Group("/auth"))
	staff.NewHandler(staffSvc).RegisterRoutes(api)
	facility.NewHandler(facilitySvc).RegisterRoutes(api)
	diagnostics.NewHandler(diagnosticsSvc).RegisterRoutes(api)
	billing.NewHandler(billingSvc).RegisterRoutes(api)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(api)
	patient.NewHandler(patientSvc).RegisterRoutes(api)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
