package pdfconvert

import (
	"context"
	"fmt"

	"scout/config"
	httputils "scout/utils/http"
	"scout/utils/logging"
)

// Client drives a remote PDF-to-image conversion job. The service takes
// a PDF URL and answers with one rendered image URL per page.
type Client struct {
	endpoint string
	apiKey   string
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		endpoint: cfg.PDFConvertURL,
		apiKey:   cfg.PDFConvertKey,
	}
}

type convertRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key,omitempty"`
	Format string `json:"format"`
}

type convertResponse struct {
	Pages []string `json:"pages"`
	Error string   `json:"error,omitempty"`
}

// ToImages converts the PDF at the given URL into per-page image URLs.
func (c *Client) ToImages(ctx context.Context, pdfURL string) ([]string, error) {
	defer logging.LogDuration(ctx, "pdf_convert_to_images")()

	if c.endpoint == "" {
		return nil, fmt.Errorf("pdf conversion endpoint not configured")
	}
	var resp convertResponse
	err := httputils.PostJSON(c.endpoint, convertRequest{
		URL:    pdfURL,
		APIKey: c.apiKey,
		Format: "png",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("pdf conversion: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("pdf conversion: %s", resp.Error)
	}
	if len(resp.Pages) == 0 {
		return nil, fmt.Errorf("pdf conversion returned no pages")
	}
	return resp.Pages, nil
}
