package handler

import (
	"fmt"
	"net/http"

	reportapp "github.com/erp/accounting/internal/application/report"
	"github.com/erp/accounting/internal/domain/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the dashboard, the fixed reports and smart reports
type ReportHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
	smartService     *reportapp.SmartReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dashboardService *reportapp.DashboardService, smartService *reportapp.SmartReportService) *ReportHandler {
	return &ReportHandler{dashboardService: dashboardService, smartService: smartService}
}

// Dashboard godoc
//
//	@Summary		Dashboard
//	@Description	Month-to-date income and expense, open payables and receivables, low stock and unpaid payroll
//	@Tags			reports
//	@Produce		json
//	@Param			branch_id	query		string	false	"Branch (admins only)"	format(uuid)
//	@Success		200			{object}	APIResponse[report.Dashboard]
//	@Security		BearerAuth
//	@Router			/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dash, err := h.dashboardService.Dashboard(c.Request.Context(), h.scope(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dash)
}

// IncomeExpense godoc
//
//	@Summary		Income and expense trend
//	@Tags			reports
//	@Produce		json
//	@Param			from		query		string	false	"From date (YYYY-MM-DD)"
//	@Param			to			query		string	false	"To date (YYYY-MM-DD)"
//	@Param			interval	query		string	false	"Bucket size"	Enums(day, month)
//	@Success		200			{object}	APIResponse[[]report.TrendPoint]
//	@Security		BearerAuth
//	@Router			/reports/income-expense [get]
func (h *ReportHandler) IncomeExpense(c *gin.Context) {
	var req reportapp.TrendRequest
	if !h.bindQuery(c, &req) {
		return
	}
	points, err := h.dashboardService.Trend(c.Request.Context(), h.scope(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, points)
}

// Entities godoc
//
//	@Summary		Reportable entities
//	@Tags			smart-reports
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]report.EntityResponse]
//	@Security		BearerAuth
//	@Router			/reports/smart/entities [get]
func (h *ReportHandler) Entities(c *gin.Context) {
	h.Success(c, h.smartService.Entities())
}

// Fields godoc
//
//	@Summary		Entity fields
//	@Description	Fields of an entity with their type, capabilities and accepted operators
//	@Tags			smart-reports
//	@Produce		json
//	@Param			entity	path		string	true	"Entity key"
//	@Success		200		{object}	APIResponse[[]report.FieldResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reports/smart/entities/{entity}/fields [get]
func (h *ReportHandler) Fields(c *gin.Context) {
	fields, err := h.smartService.Fields(c.Param("entity"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fields)
}

// Query godoc
//
//	@Summary		Run smart report
//	@Description	Every identifier is checked against the field registry and the caller's branch scope is always applied
//	@Tags			smart-reports
//	@Accept			json
//	@Produce		json
//	@Param			branch_id	query		string			false	"Branch (admins only)"	format(uuid)
//	@Param			request		body		report.Query	true	"Query"
//	@Success		200			{object}	APIResponse[report.Result]
//	@Failure		400			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reports/smart/query [post]
func (h *ReportHandler) Query(c *gin.Context) {
	var q report.Query
	if !h.bindJSON(c, &q) {
		return
	}
	result, err := h.smartService.Query(c.Request.Context(), h.scope(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Export godoc
//
//	@Summary		Export smart report
//	@Description	Run a query without paging and download it as CSV or PDF. X-Report-Truncated is set when the row limit cut the result.
//	@Tags			smart-reports
//	@Accept			json
//	@Produce		text/csv
//	@Produce		application/pdf
//	@Param			format	query		string					false	"File format"	Enums(csv, pdf)	default(csv)
//	@Param			request	body		report.ExportRequest	true	"Query and title"
//	@Success		200		{file}		file
//	@Failure		503		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reports/smart/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req reportapp.ExportRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.Format = reportapp.ExportFormat(c.DefaultQuery("format", string(reportapp.FormatCSV)))

	file, err := h.smartService.Export(c.Request.Context(), h.scope(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Header("X-Report-Rows", fmt.Sprint(file.Rows))
	if file.Truncated {
		c.Header("X-Report-Truncated", "true")
	}
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// CreateSaved godoc
//
//	@Summary		Save report
//	@Tags			smart-reports
//	@Accept			json
//	@Produce		json
//	@Param			request	body		report.SavedReportRequest	true	"Saved report"
//	@Success		201		{object}	APIResponse[report.SavedReportResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reports/smart/saved [post]
func (h *ReportHandler) CreateSaved(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req reportapp.SavedReportRequest
	if !h.bindJSON(c, &req) {
		return
	}
	saved, err := h.smartService.CreateSaved(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, saved)
}

// GetSaved godoc
//
//	@Summary		Get saved report
//	@Tags			smart-reports
//	@Produce		json
//	@Param			id	path		string	true	"Saved report ID"	format(uuid)
//	@Success		200	{object}	APIResponse[report.SavedReportResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reports/smart/saved/{id} [get]
func (h *ReportHandler) GetSaved(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	saved, err := h.smartService.GetSaved(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, saved)
}

// ListSaved godoc
//
//	@Summary		List saved reports
//	@Description	The caller's own reports plus shared reports in their scope
//	@Tags			smart-reports
//	@Produce		json
//	@Param			entity		query		string	false	"Entity key"
//	@Param			search		query		string	false	"Name"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]report.SavedReportResponse]
//	@Security		BearerAuth
//	@Router			/reports/smart/saved [get]
func (h *ReportHandler) ListSaved(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter reportapp.SavedReportListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	items, total, err := h.smartService.ListSaved(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// UpdateSaved godoc
//
//	@Summary		Update saved report
//	@Description	Only the owner may change a saved report
//	@Tags			smart-reports
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Saved report ID"	format(uuid)
//	@Param			request	body		report.SavedReportRequest	true	"Saved report"
//	@Success		200		{object}	APIResponse[report.SavedReportResponse]
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reports/smart/saved/{id} [put]
func (h *ReportHandler) UpdateSaved(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req reportapp.SavedReportRequest
	if !h.bindJSON(c, &req) {
		return
	}
	saved, err := h.smartService.UpdateSaved(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, saved)
}

// DeleteSaved godoc
//
//	@Summary		Delete saved report
//	@Tags			smart-reports
//	@Param			id	path	string	true	"Saved report ID"	format(uuid)
//	@Success		204
//	@Failure		403	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reports/smart/saved/{id} [delete]
func (h *ReportHandler) DeleteSaved(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.smartService.DeleteSaved(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RunSaved godoc
//
//	@Summary		Run saved report
//	@Description	Runs the stored definition within the caller's own scope
//	@Tags			smart-reports
//	@Produce		json
//	@Param			id			path		string	true	"Saved report ID"	format(uuid)
//	@Param			page		query		int		false	"Page"
//	@Param			page_size	query		int		false	"Page size"
//	@Success		200			{object}	APIResponse[report.Result]
//	@Security		BearerAuth
//	@Router			/reports/smart/saved/{id}/run [post]
func (h *ReportHandler) RunSaved(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req reportapp.RunSavedReportRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.smartService.RunSaved(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
