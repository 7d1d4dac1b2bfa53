package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/sitevoice/internal/profile"
	"github.com/hrygo/sitevoice/server"
	"github.com/hrygo/sitevoice/store"
	"github.com/hrygo/sitevoice/store/db"
)

var version = "0.1.0"

var (
	rootCmd = &cobra.Command{
		Use:   "sitevoice",
		Short: `Timesheet skill backend for voice assistants on construction sites.`,
		Run: func(cmd *cobra.Command, _ []string) {
			instanceProfile := loadProfile()
			if err := instanceProfile.Validate(); err != nil {
				slog.Error("invalid profile", "error", err)
				os.Exit(1)
			}
			setupLogger(instanceProfile)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			storeInstance, err := openStore(ctx, instanceProfile)
			if err != nil {
				slog.Error("failed to open store", "error", err)
				os.Exit(1)
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				slog.Error("failed to create server", "error", err)
				os.Exit(1)
			}

			c := make(chan os.Signal, 1)
			// Trigger graceful shutdown on SIGINT or SIGTERM.
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)

			if err := s.Start(ctx); err != nil {
				slog.Error("failed to start server", "error", err)
				os.Exit(1)
			}

			<-c
			cancel()
			s.Shutdown(context.Background())
		},
	}

	sessionCmd = &cobra.Command{
		Use:   "session",
		Short: "Open a call session without the authentication step, for local testing.",
		RunE:  runSession,
	}
)

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver, sqlite or postgres")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")

	for _, name := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	sessionCmd.Flags().String("call-id", "", "call id the voice platform will send")
	sessionCmd.Flags().String("tenant-id", "", "tenant the caller belongs to")
	sessionCmd.Flags().String("user-id", "", "authenticated worker")
	sessionCmd.Flags().String("user-name", "", "worker name")
	sessionCmd.Flags().String("timezone", "UTC", "tenant IANA timezone")
	sessionCmd.Flags().String("current-date", "", "pin the call's today (YYYY-MM-DD)")
	for _, name := range []string{"call-id", "tenant-id", "user-id"} {
		_ = sessionCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(sessionCmd)

	viper.SetEnvPrefix("sitevoice")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func loadProfile() *profile.Profile {
	p := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version,
	}
	p.FromEnv()
	return p
}

func setupLogger(p *profile.Profile) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if p.IsDev() {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func openStore(ctx context.Context, p *profile.Profile) (*store.Store, error) {
	dbDriver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, err
	}
	storeInstance := store.New(dbDriver, p)
	if err := storeInstance.Migrate(ctx); err != nil {
		_ = storeInstance.Close()
		return nil, err
	}
	return storeInstance, nil
}

func runSession(cmd *cobra.Command, _ []string) error {
	p := loadProfile()
	if err := p.Validate(); err != nil {
		return err
	}
	setupLogger(p)

	ctx := cmd.Context()
	storeInstance, err := openStore(ctx, p)
	if err != nil {
		return err
	}
	defer storeInstance.Close()

	flags := cmd.Flags()
	callID, _ := flags.GetString("call-id")
	tenantID, _ := flags.GetString("tenant-id")
	userID, _ := flags.GetString("user-id")
	userName, _ := flags.GetString("user-name")
	tz, _ := flags.GetString("timezone")
	currentDate, _ := flags.GetString("current-date")

	now := time.Now()
	session, err := storeInstance.UpsertCallSession(ctx, &store.CallSession{
		CallID:         callID,
		TenantID:       tenantID,
		UserID:         userID,
		UserName:       userName,
		TenantTimezone: tz,
		CurrentDate:    currentDate,
		CreatedTs:      now.Unix(),
		ExpiresTs:      now.Add(p.SessionTTL).Unix(),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "session %s open until %s\n",
		session.CallID, time.Unix(session.ExpiresTs, 0).Format(time.RFC3339))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
