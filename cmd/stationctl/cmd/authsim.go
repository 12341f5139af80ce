package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/louagetn/station-client/internal/authsim"
	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
	"github.com/louagetn/station-client/internal/core/service"
	"github.com/louagetn/station-client/internal/infrastructure/db/memory"
	"github.com/louagetn/station-client/internal/infrastructure/db/mongo"
	"github.com/louagetn/station-client/internal/pkg/config"
)

var (
	seedCIN      string
	seedPassword string
	seedRole     string
)

var authsimCmd = &cobra.Command{
	Use:   "authsim",
	Short: "Run a local stand-in for the staff auth service",
	Long: `authsim serves /api/auth/{register,login,verify,logout} with the same
wire format as the real auth service so a kiosk can run end to end offline.
Point AUTH_API_URL at http://<AUTHSIM_ADDR>/api.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		l := log("authsim")
		if cfg.AuthSim.JWTSecret == "" {
			return errors.New("JWT_SECRET is required for authsim")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		repo, closeRepo, err := staffRepository(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRepo()

		svc := service.NewStaffAuthService(repo, cfg.AuthSim.JWTSecret, cfg.AuthSim.TokenTTL)
		if seedCIN != "" {
			_, err := svc.Register(ctx, ports.RegisterStaffInput{
				CIN:       seedCIN,
				Password:  seedPassword,
				FirstName: "Demo",
				LastName:  "Staff",
				Role:      domain.Role(seedRole),
			})
			switch {
			case errors.Is(err, domain.ErrStaffExists):
				l.Info().Str("cin", seedCIN).Msg("seed staff already present")
			case err != nil:
				return fmt.Errorf("seed staff: %w", err)
			default:
				l.Info().Str("cin", seedCIN).Str("role", seedRole).Msg("seed staff registered")
			}
		}

		server := &http.Server{
			Addr:              cfg.AuthSim.Addr,
			Handler:           authsim.NewRouter(svc, l),
			ReadHeaderTimeout: 10 * time.Second,
		}
		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("authsim failed: %w", err)
				return
			}
			done <- nil
		}()
		l.Info().Str("addr", cfg.AuthSim.Addr).Str("staff_store", cfg.AuthSim.StaffStore).Msg("auth simulator started")

		select {
		case <-ctx.Done():
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(sctx)
		case err := <-done:
			return err
		}
	},
}

func staffRepository(ctx context.Context, cfg *config.Config) (ports.StaffRepository, func(), error) {
	if cfg.AuthSim.StaffStore != config.StoreMongo {
		return memory.NewStaffRepository(), func() {}, nil
	}
	db, err := mongo.Dial(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, nil, err
	}
	repo := mongo.NewStaffRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		mongo.Hangup(db)
		return nil, nil, err
	}
	return repo, func() { mongo.Hangup(db) }, nil
}

func init() {
	rootCmd.AddCommand(authsimCmd)
	authsimCmd.Flags().StringVar(&seedCIN, "seed-cin", "", "Register this CIN at startup")
	authsimCmd.Flags().StringVar(&seedPassword, "seed-password", "changeme", "Password of the seeded staff")
	authsimCmd.Flags().StringVar(&seedRole, "seed-role", string(domain.RoleWorker), "Role of the seeded staff")
}
