package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fenilmodi00/ipo-allotment-tracker/models"
	"github.com/fenilmodi00/ipo-allotment-tracker/shared"
	"github.com/sirupsen/logrus"
)

const sheetServiceName = "SheetService"

// Error codes raised by the sheet fetch path
const (
	ErrCodeSheetFetchFailed  = "SHEET_FETCH_FAILED"
	ErrCodeSheetHTTPStatus   = "SHEET_HTTP_STATUS"
	ErrCodeSheetAccessDenied = "SHEET_ACCESS_DENIED"
	ErrCodeSheetReadFailed   = "SHEET_READ_FAILED"
)

const accessDeniedMessage = "Google Sheet access denied. Ensure the sheet is public (Viewer)."

// SheetService fetches the authoritative IPO list from a published spreadsheet CSV export
type SheetService struct {
	csvURL      string
	httpClient  *http.Client
	httpMetrics *shared.HTTPMetrics
	now         func() time.Time
}

// NewSheetService creates a sheet service for the given CSV export URL
func NewSheetService(csvURL string, httpClient *http.Client) *SheetService {
	return &SheetService{
		csvURL:      csvURL,
		httpClient:  httpClient,
		httpMetrics: shared.NewHTTPMetrics(),
		now:         time.Now,
	}
}

// FetchSheetData downloads and parses the sheet. An unconfigured URL yields no records.
func (s *SheetService) FetchSheetData(ctx context.Context) ([]*models.IPORecord, error) {
	if s.csvURL == "" {
		return []*models.IPORecord{}, nil
	}

	logger := logrus.WithFields(logrus.Fields{
		"component": sheetServiceName,
		"operation": "FetchSheetData",
	})

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cacheBustedURL(), nil)
	if err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryConfiguration, ErrCodeSheetFetchFailed,
			fmt.Sprintf("Invalid sheet URL: %v", err), sheetServiceName, "FetchSheetData", false, err)
	}
	shared.SetBrowserLikeHeaders(request, "text/csv,text/plain;q=0.9,*/*;q=0.8")

	response, err := shared.ExecuteHTTPRequest(s.httpClient, request, s.httpMetrics)
	if err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryNetwork, ErrCodeSheetFetchFailed,
			"Failed to load IPO data. Check connection.", sheetServiceName, "FetchSheetData", true, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, shared.NewServiceError(shared.ErrorCategoryNetwork, ErrCodeSheetHTTPStatus,
			fmt.Sprintf("Failed to fetch sheet (Status: %d)", response.StatusCode),
			sheetServiceName, "FetchSheetData", true, nil).
			WithDetails(map[string]interface{}{"status_code": response.StatusCode})
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, shared.NewServiceError(shared.ErrorCategoryNetwork, ErrCodeSheetReadFailed,
			"Failed to read IPO data. Check connection.", sheetServiceName, "FetchSheetData", true, err)
	}

	text := string(body)
	if isHTMLDocument(text) {
		return nil, shared.NewServiceError(shared.ErrorCategoryAuthorization, ErrCodeSheetAccessDenied,
			accessDeniedMessage, sheetServiceName, "FetchSheetData", false, nil).
			WithDetails(map[string]interface{}{"page_title": htmlPageTitle(text)})
	}

	records := ParseFeed(text)
	logger.WithField("record_count", len(records)).Debug("Parsed sheet feed")
	return records, nil
}

// GetHTTPMetrics exposes transport-level metrics of the sheet fetches
func (s *SheetService) GetHTTPMetrics() *shared.HTTPMetrics {
	return s.httpMetrics
}

// cacheBustedURL appends the current timestamp so intermediaries never serve a stale export.
func (s *SheetService) cacheBustedURL() string {
	separator := "?"
	if strings.Contains(s.csvURL, "?") {
		separator = "&"
	}
	return s.csvURL + separator + "_cb=" + strconv.FormatInt(s.now().UnixMilli(), 10)
}

// isHTMLDocument detects a login or error page served instead of CSV.
func isHTMLDocument(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(lower, "<!doctype html") || strings.Contains(lower, "<html")
}

func htmlPageTitle(text string) string {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(document.Find("title").First().Text())
}
