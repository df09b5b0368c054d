package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/accounting/internal/domain/report"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/cache"
	"github.com/erp/accounting/internal/infrastructure/export"
	"github.com/erp/accounting/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SmartReportConfig bounds queries and exports
type SmartReportConfig struct {
	Limits         report.Limits
	ExportRowLimit int
	CacheTTL       time.Duration
	Locale         string
}

// SmartReportService runs registry-checked queries, exports them and manages saved reports
type SmartReportService struct {
	registry  *report.Registry
	runner    report.QueryRunner
	saved     report.SavedReportRepository
	cache     cache.ReportCache
	pdf       export.PDFRenderer
	formatter *export.Formatter
	config    SmartReportConfig
	metrics   *telemetry.Metrics
	logger    *zap.Logger
}

// NewSmartReportService creates the service. cache and pdf may be nil; without a
// renderer PDF exports are refused.
func NewSmartReportService(
	registry *report.Registry,
	runner report.QueryRunner,
	saved report.SavedReportRepository,
	reportCache cache.ReportCache,
	pdf export.PDFRenderer,
	config SmartReportConfig,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
) *SmartReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Limits.DefaultPageSize <= 0 {
		config.Limits.DefaultPageSize = report.DefaultLimits.DefaultPageSize
	}
	if config.Limits.MaxPageSize <= 0 {
		config.Limits.MaxPageSize = report.DefaultLimits.MaxPageSize
	}
	if config.ExportRowLimit <= 0 {
		config.ExportRowLimit = 10000
	}
	return &SmartReportService{
		registry:  registry,
		runner:    runner,
		saved:     saved,
		cache:     reportCache,
		pdf:       pdf,
		formatter: export.NewFormatter(config.Locale),
		config:    config,
		metrics:   metrics,
		logger:    logger,
	}
}

// Entities lists the reportable entities
func (s *SmartReportService) Entities() []EntityResponse {
	entities := s.registry.Entities()
	out := make([]EntityResponse, len(entities))
	for i, e := range entities {
		out[i] = EntityResponse{Key: e.Key, Label: e.Label, Description: e.Description, DefaultSort: e.DefaultSort}
	}
	return out
}

// Fields lists the fields of one entity
func (s *SmartReportService) Fields(key string) ([]FieldResponse, error) {
	e, err := s.registry.Entity(key)
	if err != nil {
		return nil, err
	}
	out := make([]FieldResponse, len(e.Fields))
	for i, f := range e.Fields {
		var ops []report.Operator
		if f.Filterable {
			ops = report.OperatorsFor(f.Type)
		}
		out[i] = FieldResponse{Field: f, Operators: ops}
	}
	return out, nil
}

// Query runs one page of an ad-hoc query inside the actor's scope
func (s *SmartReportService) Query(ctx context.Context, scope shared.Scope, q report.Query) (*report.Result, error) {
	start := time.Now()
	plan, err := s.registry.Compile(q, s.config.Limits)
	if err != nil {
		return nil, err
	}

	key, err := cache.Key("smart", struct {
		Query report.Query
		Page  int
		Size  int
		Scope shared.Scope
	}{q, plan.Page, plan.PageSize, scope})
	if err != nil {
		return nil, err
	}
	var cached report.Result
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := s.runner.Run(ctx, plan, scope)
	s.metrics.RecordReport(ctx, plan.Entity.Key, "json", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, result)
	return result, nil
}

// Export runs a query without paging and renders it as CSV or PDF
func (s *SmartReportService) Export(ctx context.Context, scope shared.Scope, req ExportRequest) (*ExportFile, error) {
	start := time.Now()
	format := ExportFormat(strings.ToLower(string(req.Format)))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, shared.NewValidationError("format", "format must be csv or pdf")
	}
	if format == FormatPDF && s.pdf == nil {
		return nil, shared.NewDomainError("EXPORT_UNAVAILABLE", "PDF export is not configured")
	}

	plan, err := s.registry.Compile(req.Query, s.config.Limits)
	if err != nil {
		return nil, err
	}
	// One extra row tells us whether the export was cut off.
	result, err := s.runner.RunAll(ctx, plan, scope, s.config.ExportRowLimit+1)
	if err != nil {
		s.metrics.RecordReport(ctx, plan.Entity.Key, string(format), time.Since(start), err)
		return nil, err
	}
	truncated := len(result.Rows) > s.config.ExportRowLimit
	if truncated {
		result.Rows = result.Rows[:s.config.ExportRowLimit]
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = plan.Entity.Label
	}
	doc := export.NewDocument(title, result, truncated)
	file := &ExportFile{
		Filename:  fileName(title, string(format), doc.GeneratedAt),
		Rows:      len(result.Rows),
		Truncated: truncated,
	}

	switch format {
	case FormatPDF:
		html, err := export.RenderHTML(doc, s.formatter)
		if err == nil {
			file.Data, err = s.pdf.Render(ctx, html)
		}
		if err != nil {
			s.metrics.RecordReport(ctx, plan.Entity.Key, string(format), time.Since(start), err)
			return nil, err
		}
		file.ContentType = "application/pdf"
	default:
		var buf bytes.Buffer
		w := export.NewCSVWriter(s.formatter)
		if err := w.Write(&buf, doc); err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
		file.Data = buf.Bytes()
		file.ContentType = w.ContentType()
	}

	s.metrics.RecordReport(ctx, plan.Entity.Key, string(format), time.Since(start), nil)
	s.logger.Info("report exported",
		zap.String("entity", plan.Entity.Key),
		zap.String("format", string(format)),
		zap.Int("rows", file.Rows),
		zap.Bool("truncated", truncated),
	)
	return file, nil
}

// CreateSaved stores a new saved report. Accountants' reports belong to their branch.
func (s *SmartReportService) CreateSaved(ctx context.Context, actor shared.Actor, req SavedReportRequest) (*SavedReportResponse, error) {
	branchID, err := savedBranch(actor, req.BranchID)
	if err != nil {
		return nil, err
	}
	r, err := report.NewSavedReport(s.registry, actor.UserID, branchID, req.Name, req.Description, req.Definition, req.IsShared)
	if err != nil {
		return nil, err
	}
	if err := s.saved.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToSavedReportResponse(r)
	return &resp, nil
}

// GetSaved returns a saved report the actor may see
func (s *SmartReportService) GetSaved(ctx context.Context, actor shared.Actor, id uuid.UUID) (*SavedReportResponse, error) {
	r, err := s.visibleSaved(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToSavedReportResponse(r)
	return &resp, nil
}

// ListSaved lists the actor's own reports and the shared ones in scope
func (s *SmartReportService) ListSaved(ctx context.Context, actor shared.Actor, filter SavedReportListFilter) ([]SavedReportResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	domainFilter := report.SavedReportFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "name",
			OrderDir: "asc",
			Search:   filter.Search,
		},
		UserID: actor.UserID,
		Scope:  actor.Scope(),
		Entity: filter.Entity,
	}
	list, err := s.saved.FindVisible(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saved.CountVisible(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSavedReportResponses(list), total, nil
}

// UpdateSaved replaces a saved report. Only the owner or an admin may change it.
func (s *SmartReportService) UpdateSaved(ctx context.Context, actor shared.Actor, id uuid.UUID, req SavedReportRequest) (*SavedReportResponse, error) {
	r, err := s.visibleSaved(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := r.CheckOwner(actor.UserID, actor.IsAdmin); err != nil {
		return nil, err
	}
	if err := r.Update(s.registry, req.Name, req.Description, req.Definition, req.IsShared); err != nil {
		return nil, err
	}
	if err := s.saved.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToSavedReportResponse(r)
	return &resp, nil
}

// DeleteSaved removes a saved report
func (s *SmartReportService) DeleteSaved(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	r, err := s.visibleSaved(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := r.CheckOwner(actor.UserID, actor.IsAdmin); err != nil {
		return err
	}
	return s.saved.Delete(ctx, r.ID)
}

// RunSaved executes a saved definition. The data is always limited to the
// caller's scope, whoever created the report.
func (s *SmartReportService) RunSaved(ctx context.Context, actor shared.Actor, id uuid.UUID, req RunSavedReportRequest) (*report.Result, error) {
	r, err := s.visibleSaved(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	q := r.Definition
	q.Page, q.PageSize = req.Page, req.PageSize
	return s.Query(ctx, actor.Scope(), q)
}

func (s *SmartReportService) visibleSaved(ctx context.Context, actor shared.Actor, id uuid.UUID) (*report.SavedReport, error) {
	r, err := s.saved.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.CanView(actor.UserID, actor.Scope()) {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (s *SmartReportService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (s *SmartReportService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.config.CacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func savedBranch(actor shared.Actor, requested *uuid.UUID) (*uuid.UUID, error) {
	if actor.IsAdmin {
		if requested == nil || *requested == uuid.Nil {
			return nil, nil
		}
		return requested, nil
	}
	id, err := actor.WriteBranch(requested)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func fileName(title, ext string, at time.Time) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "report"
	}
	return fmt.Sprintf("%s-%s.%s", name, at.Format("20060102-150405"), ext)
}
