package api

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

// ExportType selects the report file format.
type ExportType string

const (
	ExportCSV  ExportType = "csv"
	ExportXLSX ExportType = "xlsx"
)

// ExportRequest describes one report export.
type ExportRequest struct {
	Type     ExportType
	Category string
	Start    models.Date
	End      models.Date
}

// Download is a fetched binary report. Filename comes from the
// Content-Disposition header, falling back to "{category}.{type}".
type Download struct {
	Filename string
	Data     []byte
}

// ReportsService wraps the report export endpoint. Unlike the JSON
// endpoints it returns a raw blob, not an envelope.
type ReportsService struct {
	client *Client
}

// NewReportsService builds the reports endpoint wrapper.
func NewReportsService(client *Client) *ReportsService {
	return &ReportsService{client: client}
}

// Export downloads one report in the requested format.
func (s *ReportsService) Export(ctx context.Context, req ExportRequest) (Download, error) {
	query := map[string]string{
		"type":     string(req.Type),
		"category": req.Category,
	}
	if !req.Start.IsZero() {
		query["start"] = req.Start.String()
	}
	if !req.End.IsZero() {
		query["end"] = req.End.String()
	}

	resp, err := s.client.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get("/reports/export")
	if err != nil {
		return Download{}, &Error{Message: "export request failed", cause: err}
	}

	if resp.IsError() {
		apiErr := &Error{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
		var env models.Envelope
		if json.Unmarshal(resp.Body(), &env) == nil && env.Message != "" {
			apiErr.Message = env.Message
		}
		return Download{}, apiErr
	}

	filename := fmt.Sprintf("%s.%s", req.Category, req.Type)
	if cd := resp.Header().Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				filename = name
			}
		}
	}

	return Download{Filename: filename, Data: resp.Body()}, nil
}
