package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/pkg/clock"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
	"github.com/noah-isme/tutorhub/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult captures where a rendered file was written.
type ExportResult struct {
	Path   string
	Format ExportFormat
	Rows   int
}

var historyHeaders = []string{"Date", "Start", "End", "Course", "Type", "Teacher", "Location", "Attendance", "Confirmation"}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// ExportService renders attendance history to CSV or PDF files.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	clock   clock.Clock
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(storage fileStorage, csv csvRenderer, pdf pdfRenderer, clk clock.Clock, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{storage: storage, csv: csv, pdf: pdf, clock: clk, logger: logger}
}

// HistoryDataset turns history entries into an export table.
func HistoryDataset(h History) export.Dataset {
	data := export.Dataset{Headers: historyHeaders}
	for _, e := range h.Entries {
		data.Add(e.Date, e.StartTime, e.EndTime, e.CourseName, e.CourseType, e.TeacherName, e.Location, string(e.Status), string(e.ConfirmationStatus))
	}
	return data
}

// ExportHistory renders h and stores it under a name derived from owner.
func (s *ExportService) ExportHistory(ctx context.Context, h History, format ExportFormat, owner string) (*ExportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := HistoryDataset(h)

	var (
		payload []byte
		err     error
	)
	switch format {
	case ExportCSV:
		payload, err = s.csv.Render(data)
	case ExportPDF:
		title := "Attendance"
		if owner != "" {
			title = fmt.Sprintf("Attendance - %s", owner)
		}
		payload, err = s.pdf.Render(data, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	path, err := s.storage.Save(s.filename(owner, format), payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	s.logger.Info("attendance exported", zap.String("path", path), zap.Int("rows", len(data.Rows)))
	return &ExportResult{Path: path, Format: format, Rows: len(data.Rows)}, nil
}

func (s *ExportService) filename(owner string, format ExportFormat) string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(owner), "-"), "-")
	if slug == "" {
		slug = "student"
	}
	return fmt.Sprintf("attendance-%s-%s.%s", slug, s.clock.Now().UTC().Format("20060102-150405"), format)
}
