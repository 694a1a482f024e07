package worker

// Processes receipt jobs from QueueReceipt: loads the committed sales note,
// renders the PDF receipt, and chains an email job when the customer left an
// address at checkout.

import (
	"context"
	"encoding/json"
	"fmt"

	"modapos/internal/infra"
	"modapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	NoteID        string `json:"note_id"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// ReceiptWorker renders PDF receipts for committed sales notes.
type ReceiptWorker struct {
	notes          repository.SalesNoteRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
}

func NewReceiptWorker(
	notes repository.SalesNoteRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		notes:          notes,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the sales note with its items
//  3. Render the PDF receipt
//  4. Enqueue an email job when a customer email was provided
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	noteID, err := uuid.Parse(payload.NoteID)
	if err != nil {
		log.Error().Str("note_id", payload.NoteID).Msg("receipt_worker: invalid note_id")
		return
	}

	note, err := w.notes.FindByID(ctx, noteID)
	if err != nil {
		log.Error().Err(err).Str("note_id", payload.NoteID).Msg("receipt_worker: sales note not found")
		SendToDLQ(ctx, w.rdb, QueueReceipt, "receipt", raw, "sales note not found: "+err.Error(), 1)
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(note, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("note_id", payload.NoteID).Msg("receipt_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueReceipt, "receipt", raw, "pdf generation failed: "+err.Error(), 1)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("note_id", payload.NoteID).Msg("receipt_worker: PDF generated")

	if payload.CustomerEmail == "" {
		return
	}

	emailJob := EmailJobPayload{
		ToEmail: payload.CustomerEmail,
		Subject: fmt.Sprintf("Your purchase receipt (note %s)", shortNoteRef(payload.NoteID)),
		Body: fmt.Sprintf("Attached is the receipt for your purchase.\nTotal paid: $%s",
			note.PaidTotal.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", payload.CustomerEmail).Msg("receipt_worker: failed to enqueue email")
		return
	}
	log.Info().Str("email", payload.CustomerEmail).Msg("receipt_worker: email job enqueued")
}

func shortNoteRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
