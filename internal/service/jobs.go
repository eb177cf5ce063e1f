package service

import (
	"context"

	"invoicefin/internal/config"
	"invoicefin/internal/domain"
)

// Scheduled job names. Each name is also the job's lock key.
const (
	JobMoveInvoiceData  = "move_invoice_data"
	JobHubWebhookEOD    = "hub_webhook_eod"
	JobDownloadFileVya  = "download_file_vya"
	JobVyaStatusEnquiry = "vya_status_enquiry"
	JobPrepareMISReport = "prep_mis_report"
)

// JobDeps are the services scheduled jobs call.
type JobDeps struct {
	Archival ArchivalService
	GSP      GSPService
	Webhooks WebhookService
	Reports  ReportService
	Cfg      config.JobsConfig
}

// DefaultJobs returns the scheduled jobs with their schedules.
func DefaultJobs(d JobDeps) []Job {
	return []Job{
		{
			Name:     JobMoveInvoiceData,
			Schedule: DailyAt(0, 0, domain.IST),
			Run: func(ctx context.Context) error {
				_, err := d.Archival.Run(ctx)
				return err
			},
		},
		{
			Name:     JobHubWebhookEOD,
			Schedule: DailyAt(0, 0, domain.IST),
			Run: func(ctx context.Context) error {
				_, err := d.Webhooks.PostHubEOD(ctx)
				return err
			},
		},
		{
			Name:     JobDownloadFileVya,
			Schedule: Every(d.Cfg.DownloadInterval),
			Run: func(ctx context.Context) error {
				_, err := d.GSP.DownloadResults(ctx)
				return err
			},
		},
		{
			Name:     JobVyaStatusEnquiry,
			Schedule: Every(d.Cfg.StatusEnquiryInterval),
			Run: func(ctx context.Context) error {
				_, err := d.GSP.PollStatus(ctx)
				return err
			},
		},
		{
			Name:     JobPrepareMISReport,
			Schedule: Every(d.Cfg.MISReportInterval),
			Run: func(ctx context.Context) error {
				_, err := d.Reports.PrepareMIS(ctx)
				return err
			},
		},
	}
}
