package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zelus7/fantasy-dvp-builder/internal/api/sleeper"
	"github.com/Zelus7/fantasy-dvp-builder/internal/api/worker"
	"github.com/Zelus7/fantasy-dvp-builder/internal/config"
	"github.com/Zelus7/fantasy-dvp-builder/internal/notify"
	"github.com/Zelus7/fantasy-dvp-builder/internal/repository/memory"
	"github.com/Zelus7/fantasy-dvp-builder/internal/scheduler"
	"github.com/Zelus7/fantasy-dvp-builder/internal/service"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	workerURL  string
	leagueID   string
	espnS2     string
	swid       string
	scoring    string
	season     int
	through    int
	positions  string
	maxPlayers int
	cronExpr   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dvpbuilder",
	Short: "Build Defense-vs-Position tables and upload them to the Worker KV cache",
	Long: `dvpbuilder aggregates Sleeper per-player weekly stats into fantasy
points allowed by each defense per position, ranks the defenses, and
publishes one document per position to the ESPN-proxy Worker's KV cache.

The week range is always season-to-date: week 1 through the current
fantasy week (resolved via the Worker) or the provided --through week.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVar(&workerURL, "worker-url", "", "base URL of the Worker, e.g. https://espn-fantasy-proxy.example.workers.dev")
	rootCmd.Flags().StringVar(&leagueID, "league-id", "", "ESPN leagueId (used to find the current week)")
	rootCmd.Flags().StringVar(&espnS2, "s2", "", "espn_s2 cookie value")
	rootCmd.Flags().StringVar(&swid, "swid", "", "SWID cookie value (with or without braces)")
	rootCmd.Flags().StringVar(&scoring, "scoring", "", "scoring mode: std, half or ppr (default half)")
	rootCmd.Flags().IntVar(&season, "season", 0, "override season year (defaults to current year)")
	rootCmd.Flags().IntVar(&through, "through", 0, "override through week (defaults to current fantasy week)")
	rootCmd.Flags().StringVar(&positions, "positions", "", "comma-separated positions to build (default WR,RB,QB,TE)")
	rootCmd.Flags().IntVar(&maxPlayers, "max-players-per-pos", 0, "cap on players per position, for testing and rate limiting")
	rootCmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression; when set, the build reruns on this schedule until interrupted")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func run(cmd *cobra.Command) error {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	mergeFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	sleeperClient := sleeper.NewClient(sleeper.Config{
		BaseURL:      cfg.Sleeper.BaseURL,
		RequestDelay: cfg.RequestDelay(),
	})
	workerClient := worker.NewClient(worker.Config{
		BaseURL:  cfg.Worker.BaseURL,
		LeagueID: cfg.Worker.LeagueID,
		SWID:     cfg.Worker.SWID,
		ESPNS2:   cfg.Worker.ESPNS2,
	})
	repo := memory.NewRepository()

	var sendSummary func(string) error
	if cfg.Telegram.Token != "" {
		notifier, err := notify.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			slog.Warn("Telegram notifier disabled", "error", err)
		} else {
			sendSummary = notifier.SendSummary
		}
	}

	dvpService := service.NewDVPService(sleeperClient, workerClient, repo, cfg, sendSummary)

	if cfg.Build.Cron != "" {
		return runScheduled(dvpService, cfg.Build.Cron)
	}

	return dvpService.Run()
}

// mergeFlags lets explicitly set CLI flags override environment values.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("worker-url") {
		cfg.Worker.BaseURL = workerURL
	}
	if flags.Changed("league-id") {
		cfg.Worker.LeagueID = leagueID
	}
	if flags.Changed("s2") {
		cfg.Worker.ESPNS2 = espnS2
	}
	if flags.Changed("swid") {
		cfg.Worker.SWID = swid
	}
	if flags.Changed("scoring") {
		cfg.Build.Scoring = scoring
	}
	if flags.Changed("season") {
		cfg.Build.Season = season
	}
	if flags.Changed("through") {
		cfg.Build.Through = through
	}
	if flags.Changed("positions") {
		cfg.Build.Positions = positions
	}
	if flags.Changed("max-players-per-pos") {
		cfg.Build.MaxPlayersPerPos = maxPlayers
	}
	if flags.Changed("cron") {
		cfg.Build.Cron = cronExpr
	}
}

// runScheduled builds once immediately, then keeps rebuilding on the cron
// schedule until interrupted. In this mode a failed build is logged rather
// than fatal. The scheduler starts only after the initial build so a cron
// tick cannot overlap it.
func runScheduled(dvpService *service.DVPService, cronExpr string) error {
	sched, err := scheduler.NewScheduler(dvpService, cronExpr)
	if err != nil {
		return err
	}

	if err := dvpService.Run(); err != nil {
		slog.Error("Initial DvP build failed", "error", err)
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}
