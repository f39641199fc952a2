package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/thesis-api/internal/models"
	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
	"github.com/noah-isme/thesis-api/pkg/export"
	"github.com/noah-isme/thesis-api/pkg/logger"
)

// Export formats.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
)

const (
	colTopicID         = "Topic ID"
	colTopic           = "Topic"
	colIndexNumber     = "Index number"
	colFullName        = "Full name"
	colTopicApproved   = "Topic approved by committee"
	colTeacherApproved = "Supervisor approved declaration"
	colStudentApproved = "Student approved declaration"

	noTopicMarker    = "No topic"
	unassignedMarker = "Unassigned"
)

var exportContentTypes = map[string]string{
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	ExportFormatCSV:  "text/csv",
	ExportFormatPDF:  "application/pdf",
}

type studentTopicSource interface {
	ListTopicRows(ctx context.Context) ([]models.StudentTopicRow, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	DefaultFormat  string
	FilenamePrefix string
	SheetTitle     string
}

// ExportFile is a rendered export ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the students-by-topic report.
type ExportService struct {
	source  studentTopicSource
	xlsx    xlsxRenderer
	csv     csvRenderer
	pdf     pdfRenderer
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the pkg/export implementations.
func NewExportService(source studentTopicSource, cfg ExportConfig, metrics *MetricsService, logger *zap.Logger, xlsx xlsxRenderer, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = ExportFormatXLSX
	}
	if cfg.FilenamePrefix == "" {
		cfg.FilenamePrefix = "students_topics"
	}
	if cfg.SheetTitle == "" {
		cfg.SheetTitle = "Students by topic"
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		source:  source,
		xlsx:    xlsx,
		csv:     csv,
		pdf:     pdf,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// StudentsByTopic renders every student grouped by topic in the requested
// format, or the configured default when format is empty.
func (s *ExportService) StudentsByTopic(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = s.cfg.DefaultFormat
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	start := time.Now()
	payload, err := s.render(ctx, format)
	s.metrics.ObserveExport(format, time.Since(start), err)
	if err != nil {
		logger.FromContext(ctx, s.logger).Error("export failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export students")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("%s_%s.%s", s.cfg.FilenamePrefix, s.now().Format("20060102_150405"), format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func (s *ExportService) render(ctx context.Context, format string) ([]byte, error) {
	rows, err := s.source.ListTopicRows(ctx)
	if err != nil {
		return nil, err
	}
	dataset := BuildStudentsByTopicDataset(rows)
	switch format {
	case ExportFormatCSV:
		return s.csv.Render(dataset)
	case ExportFormatPDF:
		return s.pdf.Render(dataset, s.cfg.SheetTitle)
	default:
		return s.xlsx.Render(dataset, s.cfg.SheetTitle)
	}
}

// BuildStudentsByTopicDataset lays out rows already ordered by topic and
// index number, inserting an empty row whenever the topic changes.
func BuildStudentsByTopicDataset(rows []models.StudentTopicRow) export.Dataset {
	data := export.Dataset{
		Headers: []string{colTopicID, colTopic, colIndexNumber, colFullName, colTopicApproved, colTeacherApproved, colStudentApproved},
		Widths:  []float64{12, 60, 12, 30, 30, 30, 30},
		Rows:    make([]map[string]string, 0, len(rows)),
	}

	var current *int64
	for i, row := range rows {
		if i > 0 && current != nil && !sameTopic(current, row.TopicID) {
			data.Rows = append(data.Rows, map[string]string{})
		}
		current = row.TopicID

		topicID, title := noTopicMarker, unassignedMarker
		if row.TopicID != nil {
			topicID = strconv.FormatInt(*row.TopicID, 10)
			if row.TopicTitle != nil {
				title = *row.TopicTitle
			}
		}
		data.Rows = append(data.Rows, map[string]string{
			colTopicID:         topicID,
			colTopic:           title,
			colIndexNumber:     row.IndexNumber,
			colFullName:        row.FullName,
			colTopicApproved:   yesNo(row.TopicStatus != nil && *row.TopicStatus == models.TopicApproved),
			colTeacherApproved: yesNo(row.TeacherApproved != nil && *row.TeacherApproved),
			colStudentApproved: yesNo(row.StudentApproved),
		})
	}
	return data
}

func sameTopic(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
