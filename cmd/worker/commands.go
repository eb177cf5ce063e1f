package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	redisstore "invoicefin/internal/cache/redis"
	"invoicefin/internal/config"
	"invoicefin/internal/domain"
	"invoicefin/internal/gsp/cygnet"
	"invoicefin/internal/gsp/vayana"
	"invoicefin/internal/logger"
	"invoicefin/internal/repository/postgres"
	"invoicefin/internal/service"
	s3storage "invoicefin/internal/storage/s3"
	"invoicefin/internal/webhook"
)

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Runs the invoicefin scheduled jobs",
	Long: `worker runs the scheduled jobs of invoicefin: archival of settled
invoices, the hub end of day webhook, GSP status polling and downloads,
and the MIS report. Every run holds the job's lock in Redis, so several
workers may run side by side.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the scheduler and block until SIGINT or SIGTERM",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withScheduler(func(ctx context.Context, s *service.Scheduler) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			s.Start(ctx)
			return nil
		})
	},
}

var onceCmd = &cobra.Command{
	Use:   "once <job>",
	Short: "Run one job immediately under its lock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withScheduler(func(ctx context.Context, s *service.Scheduler) error {
			ran, err := s.RunOnce(ctx, args[0])
			if err != nil {
				return err
			}
			if !ran {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is running elsewhere, skipped\n", args[0])
			}
			return nil
		})
	},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the registered jobs and their schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		for _, job := range service.DefaultJobs(service.JobDeps{Cfg: cfg.Jobs}) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", job.Name, job.Schedule)
		}
		return nil
	},
}

var misURLCmd = &cobra.Command{
	Use:   "mis-url [YYYY-MM-DD]",
	Short: "Print a download link for a day's MIS workbook (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now().In(domain.IST)
		if len(args) == 1 {
			parsed, err := time.ParseInLocation("2006-01-02", args[0], domain.IST)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}
			day = parsed
		}
		expiry, _ := cmd.Flags().GetDuration("expiry")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		s3Client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		// MISLink only reads storage.
		reports := service.NewReportService(nil, s3Client)
		url, err := reports.MISLink(cmd.Context(), day, expiry)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}

func init() {
	misURLCmd.Flags().Duration("expiry", time.Hour, "how long the link stays valid")
	rootCmd.AddCommand(runCmd, onceCmd, jobsCmd, misURLCmd)
}

// withScheduler wires the job dependencies and calls fn with a scheduler
// holding the default jobs.
func withScheduler(fn func(ctx context.Context, s *service.Scheduler) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient := redisstore.NewClient(&cfg.Redis)
	defer redisClient.Close()
	kv := redisstore.NewStore(redisClient)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	invoiceRepo := postgres.NewInvoiceRepo(db)
	vayanaClient := vayana.NewClient(&cfg.Vayana)
	sessions := service.NewGSPSessionProvider(vayanaClient, kv, cfg.GSP.TokenTTL)

	deps := service.JobDeps{
		Archival: service.NewArchivalService(postgres.NewArchiveRepo(db), cfg.Archival),
		GSP: service.NewGSPService(
			postgres.NewGSPUserRepo(db),
			postgres.NewVayanaTaskRepo(db),
			invoiceRepo,
			vayanaClient,
			cygnet.NewClient(&cfg.Cygnet),
			sessions,
			s3Client,
			cfg.GSP,
		),
		Webhooks: service.NewWebhookService(webhook.NewSender(&cfg.Webhook), postgres.NewPostProcessingRepo(db), cfg.Hub),
		Reports:  service.NewReportService(postgres.NewMISRepo(db), s3Client),
		Cfg:      cfg.Jobs,
	}

	scheduler := service.NewScheduler(service.NewLockedRunner(kv, cfg.Jobs.LockTTL), service.DefaultJobs(deps)...)
	return fn(context.Background(), scheduler)
}
