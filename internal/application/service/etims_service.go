package service

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/config"
	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
	domainRepo "github.com/dukapoint/cloudsales-api/internal/domain/repository"
	"github.com/dukapoint/cloudsales-api/internal/infrastructure/etims"
	"github.com/dukapoint/cloudsales-api/pkg/apperror"
)

// InvoiceTransmitter sends a signed invoice to the tax authority
type InvoiceTransmitter interface {
	Transmit(ctx context.Context, invoice *etims.Invoice, signer etims.PayloadSigner) (map[string]interface{}, error)
}

// SignerLoader resolves the signing credential. Production loads the PKCS#12
// file on each run so a credential dropped in place is picked up without a
// restart. An error means the credential is unavailable, not fatal.
type SignerLoader func() (etims.PayloadSigner, error)

// DefaultSignerLoader loads the credential from the configured certificate path
func DefaultSignerLoader(cfg config.EtimsConfig) SignerLoader {
	return func() (etims.PayloadSigner, error) {
		return etims.LoadSigner(cfg.CertificatePath, cfg.CertificatePassword)
	}
}

// FiscalResult is the informational outcome of one fiscal pipeline run
type FiscalResult struct {
	Status   enum.FiscalStatus      `json:"status"`
	Reason   string                 `json:"reason,omitempty"`
	QueueID  string                 `json:"queue_id,omitempty"`
	QRCode   string                 `json:"qr_code,omitempty"`
	Invoice  *etims.Invoice         `json:"invoice_data,omitempty"`
	Response map[string]interface{} `json:"response,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// SweepResult reports one pass over the offline queue
type SweepResult struct {
	Processed   int `json:"processed"`
	Transmitted int `json:"transmitted"`
	Failed      int `json:"failed"`
}

// EtimsService runs the fiscal compliance pipeline: format, sign, transmit,
// and fall back to the durable offline queue when the authority is
// unreachable. Its outcome is recorded on the sale but never vetoes it.
type EtimsService struct {
	cfg         config.EtimsConfig
	saleRepo    domainRepo.SaleRepository
	queue       *etims.Queue
	transmitter InvoiceTransmitter
	loadSigner  SignerLoader
	sweeping    atomic.Bool
}

// NewEtimsService creates the fiscal pipeline service
func NewEtimsService(
	cfg config.EtimsConfig,
	saleRepo domainRepo.SaleRepository,
	queue *etims.Queue,
	transmitter InvoiceTransmitter,
	loadSigner SignerLoader,
) *EtimsService {
	return &EtimsService{
		cfg:         cfg,
		saleRepo:    saleRepo,
		queue:       queue,
		transmitter: transmitter,
		loadSigner:  loadSigner,
	}
}

// ProcessSale runs the pipeline for one sale. It always returns a result with
// an informational status; the error return is reserved for infrastructure
// failures such as an unreadable queue file.
func (s *EtimsService) ProcessSale(ctx context.Context, saleID uuid.UUID) (*FiscalResult, error) {
	result, err := s.process(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if repoErr := s.saleRepo.UpdateEtimsStatus(ctx, saleID, result.Status); repoErr != nil {
		// The pipeline outcome stands even if the status write fails.
		log.Printf("record fiscal status %s for sale %s: %v", result.Status, saleID, repoErr)
	}
	return result, nil
}

func (s *EtimsService) process(ctx context.Context, saleID uuid.UUID) (*FiscalResult, error) {
	if !s.cfg.Enabled {
		return &FiscalResult{Status: enum.FiscalStatusSkipped, Reason: "eTIMS integration is disabled"}, nil
	}
	if s.cfg.TaxPIN == "" {
		return &FiscalResult{Status: enum.FiscalStatusError, Error: "tax PIN is not configured"}, nil
	}
	if s.cfg.DeviceID == "" {
		return &FiscalResult{Status: enum.FiscalStatusError, Error: "control unit device id is not configured"}, nil
	}

	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return &FiscalResult{Status: enum.FiscalStatusError, Error: "sale not found"}, nil
	}

	invoice, err := etims.FormatInvoice(sale, s.cfg.TaxPIN, s.cfg.DeviceID)
	if err != nil {
		return &FiscalResult{Status: enum.FiscalStatusError, Error: err.Error()}, nil
	}

	// QR generation is best-effort; it can be regenerated from the sale later.
	qr, err := etims.GenerateQRCode(s.cfg.TaxPIN, sale.Reference, invoice.InvoiceDate,
		sale.TotalAmount, sale.TaxAmount, s.cfg.DeviceID)
	if err != nil {
		log.Printf("qr code for sale %s: %v", sale.Reference, err)
	}

	signer, err := s.loadSigner()
	if err != nil {
		// No credential means no transmission attempt: queue and move on.
		queueID, qErr := s.queue.Append(invoice)
		if qErr != nil {
			return nil, qErr
		}
		log.Printf("fiscal credential unavailable, queued sale %s as %s: %v", sale.Reference, queueID, err)
		return &FiscalResult{
			Status:  enum.FiscalStatusQueued,
			Reason:  "signing credential unavailable",
			QueueID: queueID,
			QRCode:  qr,
			Invoice: invoice,
		}, nil
	}

	resp, err := s.transmitter.Transmit(ctx, invoice, signer)
	if err != nil {
		queueID, qErr := s.queue.Append(invoice)
		if qErr != nil {
			return nil, qErr
		}
		log.Printf("fiscal transmission failed, queued sale %s as %s: %v", sale.Reference, queueID, err)
		return &FiscalResult{
			Status:  enum.FiscalStatusQueuedAfterFailure,
			QueueID: queueID,
			QRCode:  qr,
			Invoice: invoice,
			Error:   err.Error(),
		}, nil
	}

	return &FiscalResult{
		Status:   enum.FiscalStatusTransmitted,
		QRCode:   qr,
		Invoice:  invoice,
		Response: resp,
	}, nil
}

// ProcessQueue sweeps the offline queue, retransmitting every entry that is
// not yet transmitted. Only one sweep runs at a time; a concurrent call is
// rejected rather than queued.
func (s *EtimsService) ProcessQueue(ctx context.Context) (*SweepResult, error) {
	if !s.sweeping.CompareAndSwap(false, true) {
		return nil, apperror.NewConflictError("Queue sweep already in progress")
	}
	defer s.sweeping.Store(false)

	if !s.cfg.Enabled {
		return nil, apperror.NewBadRequestError("eTIMS integration is disabled")
	}

	signer, err := s.loadSigner()
	if err != nil {
		return nil, apperror.NewBadRequestError("Signing credential unavailable: " + err.Error())
	}

	entries, err := s.queue.Entries()
	if err != nil {
		return nil, err
	}

	result := &SweepResult{}
	for _, entry := range entries {
		if entry.Status == enum.QueueStatusTransmitted {
			continue
		}
		result.Processed++

		resp, err := s.transmitter.Transmit(ctx, entry.InvoiceData, signer)
		now := time.Now()
		if err != nil {
			result.Failed++
			errMsg := err.Error()
			if uErr := s.queue.UpdateEntry(entry.ID, func(e *etims.QueueEntry) {
				e.Status = enum.QueueStatusFailed
				e.Error = errMsg
				e.LastAttempt = &now
			}); uErr != nil {
				return result, uErr
			}
			continue
		}

		result.Transmitted++
		if uErr := s.queue.UpdateEntry(entry.ID, func(e *etims.QueueEntry) {
			e.Status = enum.QueueStatusTransmitted
			e.Response = resp
			e.TransmissionTime = &now
			e.Error = ""
		}); uErr != nil {
			return result, uErr
		}
	}

	if result.Processed > 0 {
		log.Printf("offline queue sweep: %d processed, %d transmitted, %d failed",
			result.Processed, result.Transmitted, result.Failed)
	}
	return result, nil
}

// QueueStats reports the offline queue broken down by status
func (s *EtimsService) QueueStats() (etims.QueueStats, error) {
	return s.queue.Stats()
}
