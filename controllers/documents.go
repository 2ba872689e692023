// scout/controllers/documents.go
package controllers

import (
	"context"
	"fmt"
	"strings"

	"scout/sources/psql/models"
	"scout/sources/storage"
	httputils "scout/utils/http"
	"scout/utils/jsonutils"
	"scout/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PageConverter turns a PDF URL into per-page image URLs.
type PageConverter interface {
	ToImages(ctx context.Context, pdfURL string) ([]string, error)
}

// ImageAnalyzer produces a text description for one image.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image string, prompt string) (string, error)
}

// RecordStore is the persistence surface for analyzed documents.
// Satisfied by dao.RecordDAO.
type RecordStore interface {
	UpsertRecord(ctx context.Context, record *models.Record) (*models.Record, error)
	GetRecordByID(ctx context.Context, id uuid.UUID) (*models.Record, error)
	GetRecordsByUser(ctx context.Context, userID int) ([]models.Record, error)
}

// DocumentsController orchestrates PDF analysis: convert to page images,
// run each page through the vision model, persist the combined result.
type DocumentsController struct {
	converter PageConverter
	analyzer  ImageAnalyzer
	recordDAO RecordStore
	minio     *storage.MinIOClient
}

func NewDocumentsController(converter PageConverter, analyzer ImageAnalyzer, recordDAO RecordStore, minio *storage.MinIOClient) *DocumentsController {
	return &DocumentsController{
		converter: converter,
		analyzer:  analyzer,
		recordDAO: recordDAO,
		minio:     minio,
	}
}

type AnalyzeDocumentRequest struct {
	URL        string `json:"url"`
	Source     string `json:"source"`
	ExternalID string `json:"external_id"`
	Title      string `json:"title,omitempty"`
	Prompt     string `json:"prompt,omitempty"`
	// Structured asks the model for JSON per page; the fenced block is
	// extracted from the raw output before storage.
	Structured bool `json:"structured,omitempty"`
}

func (r AnalyzeDocumentRequest) validate() error {
	if r.URL == "" {
		return fmt.Errorf("%w: url must not be empty", ErrValidation)
	}
	if r.Source == "" || r.ExternalID == "" {
		return fmt.Errorf("%w: source and external_id are required", ErrValidation)
	}
	return nil
}

type documentSummary struct {
	Source     string   `json:"source"`
	ExternalID string   `json:"external_id"`
	Title      string   `json:"title"`
	Pages      []string `json:"pages"`
}

const (
	defaultPagePrompt    = "Describe the content of this document page. Keep tables and figures as text."
	structuredPagePrompt = "Extract the content of this document page as a JSON object with keys 'heading', 'body' and 'tables'. Answer with JSON only."

	pageImageMaxBytes = 10 << 20
)

// AnalyzeDocument runs the full pipeline and returns the stored record.
func (c *DocumentsController) AnalyzeDocument(ctx context.Context, userID int, req AnalyzeDocumentRequest) (*models.Record, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	defer logging.LogDuration(ctx, "analyze_document")()

	pages, err := c.converter.ToImages(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("convert document: %w", err)
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultPagePrompt
		if req.Structured {
			prompt = structuredPagePrompt
		}
	}

	pageTexts := make([]string, 0, len(pages))
	for i, pageURL := range pages {
		text, err := c.analyzer.AnalyzeImage(ctx, pageURL, prompt)
		if err != nil {
			return nil, fmt.Errorf("analyze page %d: %w", i+1, err)
		}
		if req.Structured {
			text = jsonutils.ExtractJSON(text)
		}
		pageTexts = append(pageTexts, text)
	}

	record := &models.Record{
		UserID:     userID,
		Source:     req.Source,
		ExternalID: req.ExternalID,
		Title:      req.Title,
		Summary:    strings.TrimSpace(strings.Join(pageTexts, "\n\n")),
		Pages:      len(pages),
	}

	if c.minio != nil {
		docKey := req.Source + "-" + req.ExternalID
		summary := documentSummary{
			Source:     req.Source,
			ExternalID: req.ExternalID,
			Title:      req.Title,
			Pages:      pageTexts,
		}
		key, err := c.minio.UploadDocumentSummary(ctx, docKey, summary)
		if err != nil {
			logging.ErrorLogger.Error("document summary archive failed",
				zap.String("source", req.Source),
				zap.String("external_id", req.ExternalID),
				zap.Error(err))
		} else {
			record.ArchiveKey = key
		}
		// Page image URLs from the converter are short-lived; keep our
		// own copies next to the summary. Best effort.
		for i, pageURL := range pages {
			data, contentType, err := httputils.FetchBytes(pageURL, pageImageMaxBytes)
			if err != nil {
				logging.AppLogger.Warn("page image archive failed",
					zap.String("page", pageURL), zap.Error(err))
				continue
			}
			if _, err := c.minio.UploadPageImage(ctx, docKey, i+1, data, contentType); err != nil {
				logging.AppLogger.Warn("page image upload failed",
					zap.String("page", pageURL), zap.Error(err))
			}
		}
	}

	stored, err := c.recordDAO.UpsertRecord(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("store record: %w", err)
	}
	logging.AppLogger.Info("document analyzed",
		zap.String("record_id", stored.ID.String()),
		zap.Int("pages", stored.Pages))
	return stored, nil
}

// ListRecords returns the user's analyzed documents, newest first.
func (c *DocumentsController) ListRecords(ctx context.Context, userID int) ([]models.Record, error) {
	return c.recordDAO.GetRecordsByUser(ctx, userID)
}

// GetRecord fetches one record by id. Returns nil when absent or owned
// by someone else.
func (c *DocumentsController) GetRecord(ctx context.Context, userID int, id string) (*models.Record, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid record id", ErrValidation)
	}
	record, err := c.recordDAO.GetRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.UserID != userID {
		return nil, nil
	}
	return record, nil
}

// GetRecordSummary reads the archived per-page analysis back from
// object storage.
func (c *DocumentsController) GetRecordSummary(ctx context.Context, userID int, id string) ([]byte, error) {
	record, err := c.GetRecord(ctx, userID, id)
	if err != nil || record == nil {
		return nil, err
	}
	if c.minio == nil || record.ArchiveKey == "" {
		return nil, nil
	}
	data, err := c.minio.GetObject(ctx, record.ArchiveKey)
	if err != nil {
		return nil, fmt.Errorf("read archived summary: %w", err)
	}
	return data, nil
}
