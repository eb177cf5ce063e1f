package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"invoicefin/internal/config"
	"invoicefin/internal/domain"
	"invoicefin/internal/logger"
	"invoicefin/internal/port"
)

// Per-entry size cap when reading a downloaded verification batch.
const maxArchiveEntryBytes = 8 << 20

// resultManifest is the file of a downloaded batch that lists its e-way-bills.
const resultManifest = "result.json"

// GSPVerifyInput identifies one e-way-bill to verify.
type GSPVerifyInput struct {
	SellerGST string `json:"sellerGst" binding:"omitempty,gstin"`
	BuyerGST  string `json:"buyerGst" binding:"omitempty,gstin"`
	EWBNo     string `json:"ewbNo" binding:"required,ewb"`
}

// GSPService starts GSP verifications and reconciles their outcome with the
// stored invoices.
type GSPService interface {
	GSPVerifier
	// PollStatus refreshes the status of every task not yet completed.
	PollStatus(ctx context.Context) (*domain.GSPReport, error)
	// DownloadResults downloads completed tasks, archives the raw batch and
	// marks the invoices whose e-way-bill agrees with them as GST verified.
	DownloadResults(ctx context.Context) (*domain.GSPReport, error)
}

type gspService struct {
	userRepo    port.GSPUserRepository
	taskRepo    port.VayanaTaskRepository
	invoiceRepo port.InvoiceRepository
	vayana      port.VayanaClient
	cygnet      port.CygnetClient
	sessions    GSPSessionProvider
	storage     port.ObjectStorage
	cfg         config.GSPConfig
}

// NewGSPService creates a new GSPService.
func NewGSPService(
	userRepo port.GSPUserRepository,
	taskRepo port.VayanaTaskRepository,
	invoiceRepo port.InvoiceRepository,
	vayana port.VayanaClient,
	cygnet port.CygnetClient,
	sessions GSPSessionProvider,
	storage port.ObjectStorage,
	cfg config.GSPConfig,
) GSPService {
	return &gspService{
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		invoiceRepo: invoiceRepo,
		vayana:      vayana,
		cygnet:      cygnet,
		sessions:    sessions,
		storage:     storage,
		cfg:         cfg,
	}
}

func (s *gspService) VerifyInvoice(ctx context.Context, in GSPVerifyInput) error {
	log := logger.WithComponent("gsp_service")

	user, err := s.findUser(ctx, in.SellerGST, in.BuyerGST)
	if err != nil {
		return err
	}
	if user == nil {
		log.Info().Str("ewb_no", in.EWBNo).Msg("no gsp user for seller or buyer, marking unverified")
		return s.invoiceRepo.SetGSTStatusByEWB(ctx, in.EWBNo, false)
	}

	switch user.GSP {
	case domain.GSPVayana:
		return s.startVayanaTask(ctx, user, in.EWBNo)
	case domain.GSPCygnet:
		return s.verifyWithCygnet(ctx, user, in.EWBNo)
	default:
		log.Warn().Str("gsp", string(user.GSP)).Int64("user_id", user.ID).Msg("unsupported gsp provider")
		return nil
	}
}

// findUser looks users up by seller GSTIN, then buyer GSTIN, and prefers the
// configured provider when several are registered.
func (s *gspService) findUser(ctx context.Context, sellerGST, buyerGST string) (*domain.GSPUser, error) {
	var users []domain.GSPUser
	for _, gstin := range []string{sellerGST, buyerGST} {
		if gstin == "" {
			continue
		}
		found, err := s.userRepo.ListByGSTIN(ctx, gstin)
		if err != nil {
			return nil, fmt.Errorf("listing gsp users: %w", err)
		}
		if len(found) > 0 {
			users = found
			break
		}
	}
	if len(users) == 0 {
		return nil, nil
	}
	if len(users) > 1 && s.cfg.LowerGSPPriority != "" {
		for i := range users {
			if strings.EqualFold(string(users[i].GSP), s.cfg.LowerGSPPriority) {
				return &users[i], nil
			}
		}
	}
	return &users[0], nil
}

func (s *gspService) startVayanaTask(ctx context.Context, user *domain.GSPUser, ewbNo string) error {
	session, err := s.sessions.Session(ctx, user)
	if err != nil {
		return err
	}
	taskID, err := s.vayana.VerifyEWB(ctx, session, ewbNo)
	if err != nil {
		return fmt.Errorf("starting verification of %s: %w", ewbNo, err)
	}
	status, err := s.vayana.TaskStatus(ctx, session, taskID)
	if err != nil {
		return fmt.Errorf("reading status of task %s: %w", taskID, err)
	}
	task := &domain.VayanaTask{TaskID: taskID, UserID: user.ID, TaskIDStatus: status}
	if err := s.taskRepo.CreateIfAbsent(ctx, task); err != nil {
		return fmt.Errorf("recording task %s: %w", taskID, err)
	}

	log := logger.WithComponent("gsp_service")
	log.Info().Str("task_id", taskID).Str("status", status).Str("ewb_no", ewbNo).Msg("vayana task started")
	return nil
}

func (s *gspService) verifyWithCygnet(ctx context.Context, user *domain.GSPUser, ewbNo string) error {
	token := user.ExtraData.String("cygnet_ewaybill_token")
	sek := user.ExtraData.String("cygnet_ewaybill_sek")
	if token == "" || sek == "" {
		log := logger.WithComponent("gsp_service")
		log.Warn().Int64("user_id", user.ID).Msg("cygnet user has no e-way-bill session")
		return nil
	}

	doc, err := s.cygnet.EWBDetails(ctx, port.CygnetEWBRequest{EWBNo: ewbNo, GSTIN: user.GSTIN, AuthToken: token, SEK: sek})
	if err != nil {
		return fmt.Errorf("fetching e-way-bill %s: %w", ewbNo, err)
	}
	_, err = s.reconcile(ctx, doc, ewbNo)
	return err
}

// reconcile applies the field equality check of doc against the latest
// invoice carrying ewbNo and reports whether it was marked verified.
func (s *gspService) reconcile(ctx context.Context, doc *domain.EWBDocument, ewbNo string) (bool, error) {
	inv, err := s.invoiceRepo.LatestByEWB(ctx, ewbNo)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return false, nil
		}
		return false, err
	}
	if !doc.Matches(inv) {
		return false, nil
	}
	if err := s.invoiceRepo.SetGSTStatus(ctx, inv.ID, true); err != nil {
		return false, err
	}
	return true, nil
}

func (s *gspService) PollStatus(ctx context.Context) (*domain.GSPReport, error) {
	log := logger.WithComponent("gsp_service")

	tasks, err := s.taskRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pending tasks: %w", err)
	}

	report := &domain.GSPReport{Scanned: len(tasks)}
	for i := range tasks {
		task := &tasks[i]
		if err := s.pollOne(ctx, task); err != nil {
			log.Error().Err(err).Str("task_id", task.TaskID).Msg("status enquiry failed")
			report.Failures = append(report.Failures, domain.ItemError{ID: task.ID, Err: err})
			continue
		}
		report.Updated++
	}
	log.Info().Int("scanned", report.Scanned).Int("updated", report.Updated).Int("failed", len(report.Failures)).
		Msg("status enquiry complete")
	return report, nil
}

func (s *gspService) pollOne(ctx context.Context, task *domain.VayanaTask) error {
	session, err := s.taskSession(ctx, task)
	if err != nil {
		return err
	}
	status, err := s.vayana.TaskStatus(ctx, session, task.TaskID)
	if err != nil {
		return err
	}
	return s.taskRepo.UpdateStatus(ctx, task.ID, status)
}

func (s *gspService) taskSession(ctx context.Context, task *domain.VayanaTask) (*domain.GSPSession, error) {
	user, err := s.userRepo.GetByID(ctx, task.UserID)
	if err != nil {
		return nil, err
	}
	return s.sessions.Session(ctx, user)
}

func (s *gspService) DownloadResults(ctx context.Context) (*domain.GSPReport, error) {
	log := logger.WithComponent("gsp_service")

	tasks, err := s.taskRepo.ListDownloadable(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing downloadable tasks: %w", err)
	}

	report := &domain.GSPReport{Scanned: len(tasks)}
	for i := range tasks {
		task := &tasks[i]
		verified, unmatched, err := s.downloadOne(ctx, task)
		if err != nil {
			log.Error().Err(err).Str("task_id", task.TaskID).Msg("download failed")
			report.Failures = append(report.Failures, domain.ItemError{ID: task.ID, Err: err})
			continue
		}
		report.Updated += verified
		report.Unmatched = append(report.Unmatched, unmatched...)
	}
	log.Info().Int("scanned", report.Scanned).Int("verified", report.Updated).Int("failed", len(report.Failures)).
		Int("unmatched", len(report.Unmatched)).Msg("download pass complete")
	return report, nil
}

// downloadOne reconciles one batch. It returns the number of verified
// invoices and the manifest e-way-bills that verified none.
func (s *gspService) downloadOne(ctx context.Context, task *domain.VayanaTask) (int, []string, error) {
	log := logger.WithComponent("gsp_service")

	session, err := s.taskSession(ctx, task)
	if err != nil {
		return 0, nil, err
	}
	data, err := s.vayana.Download(ctx, session, task.TaskID)
	if err != nil {
		return 0, nil, err
	}

	key := fmt.Sprintf("gsp/vayana/%s.zip", task.TaskID)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: "application/zip",
		Size:        int64(len(data)),
	}); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("archiving batch to object storage failed")
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, nil, fmt.Errorf("opening batch of task %s: %w", task.TaskID, err)
	}

	verified := 0
	var listed []string
	matched := make(map[string]bool)
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return verified, nil, err
		}

		if path.Base(f.Name) == resultManifest {
			listed = append(listed, manifestEWBs(content)...)
			continue
		}

		var doc domain.EWBDocument
		if err := json.Unmarshal(content, &doc); err != nil {
			log.Warn().Err(err).Str("file", f.Name).Msg("skipping unreadable batch entry")
			continue
		}
		ok, err := s.reconcile(ctx, &doc, string(doc.EWBNo))
		if err != nil {
			return verified, nil, err
		}
		if ok {
			verified++
			matched[string(doc.EWBNo)] = true
		}
	}

	var unmatched []string
	for _, ewb := range listed {
		if matched[ewb] {
			continue
		}
		log.Warn().Str("task_id", task.TaskID).Str("ewb_no", ewb).Msg("batch e-way-bill matched no invoice")
		unmatched = append(unmatched, ewb)
	}

	if err := s.taskRepo.MarkDownloaded(ctx, task.ID); err != nil {
		return verified, unmatched, err
	}
	return verified, unmatched, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()
	content, err := io.ReadAll(io.LimitReader(rc, maxArchiveEntryBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return content, nil
}

// manifestEWBs lists the e-way-bill numbers named in a result manifest.
func manifestEWBs(content []byte) []string {
	var manifest struct {
		Data []struct {
			AdditionalInfo struct {
				Key map[string]domain.FlexString `json:"key"`
			} `json:"additionalInfo"`
		} `json:"data"`
	}
	if err := json.Unmarshal(content, &manifest); err != nil {
		return nil
	}
	out := make([]string, 0, len(manifest.Data))
	for _, entry := range manifest.Data {
		if ewb := entry.AdditionalInfo.Key["ewb-number"]; ewb != "" {
			out = append(out, string(ewb))
		}
	}
	return out
}
