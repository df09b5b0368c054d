package handler

import (
	payrollapp "github.com/erp/accounting/internal/application/payroll"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler serves employee records
type EmployeeHandler struct {
	BaseHandler
	employeeService *payrollapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *payrollapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create godoc
//
//	@Summary		Create employee
//	@Tags			employees
//	@Accept			json
//	@Produce		json
//	@Param			request	body		payroll.CreateEmployeeRequest	true	"Employee"
//	@Success		201		{object}	APIResponse[payroll.EmployeeResponse]
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req payrollapp.CreateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	emp, err := h.employeeService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, emp)
}

// GetByID godoc
//
//	@Summary		Get employee
//	@Tags			employees
//	@Produce		json
//	@Param			id	path		string	true	"Employee ID"	format(uuid)
//	@Success		200	{object}	APIResponse[payroll.EmployeeResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	emp, err := h.employeeService.GetByID(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, emp)
}

// List godoc
//
//	@Summary		List employees
//	@Tags			employees
//	@Produce		json
//	@Param			branch_id	query		string	false	"Branch (admins only)"	format(uuid)
//	@Param			status		query		string	false	"Status"				Enums(ACTIVE, INACTIVE, TERMINATED)
//	@Param			department	query		string	false	"Department"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]payroll.EmployeeResponse]
//	@Security		BearerAuth
//	@Router			/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	var filter payrollapp.EmployeeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	employees, total, err := h.employeeService.List(c.Request.Context(), h.scope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, employees, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary		Update employee
//	@Tags			employees
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Employee ID"	format(uuid)
//	@Param			request	body		payroll.UpdateEmployeeRequest	true	"Changes"
//	@Success		200		{object}	APIResponse[payroll.EmployeeResponse]
//	@Security		BearerAuth
//	@Router			/employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req payrollapp.UpdateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	emp, err := h.employeeService.Update(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, emp)
}

// Terminate godoc
//
//	@Summary		Terminate employee
//	@Tags			employees
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Employee ID"	format(uuid)
//	@Param			request	body		payroll.TerminateEmployeeRequest	false	"Termination"
//	@Success		200		{object}	APIResponse[payroll.EmployeeResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/employees/{id}/terminate [post]
func (h *EmployeeHandler) Terminate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req payrollapp.TerminateEmployeeRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	emp, err := h.employeeService.Terminate(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, emp)
}

// Delete godoc
//
//	@Summary		Delete employee
//	@Description	Refused while payroll records exist; terminate instead
//	@Tags			employees
//	@Param			id	path	string	true	"Employee ID"	format(uuid)
//	@Success		204
//	@Failure		409	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.employeeService.Delete(c.Request.Context(), h.scope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PayrollHandler serves payroll records
type PayrollHandler struct {
	BaseHandler
	payrollService *payrollapp.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *payrollapp.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// Generate godoc
//
//	@Summary		Generate payroll
//	@Description	Create a DRAFT record for every active employee of the branch that has none for the period
//	@Tags			payroll
//	@Accept			json
//	@Produce		json
//	@Param			request	body		payroll.GeneratePayrollRequest	true	"Period"
//	@Success		201		{object}	APIResponse[payroll.GenerateResult]
//	@Security		BearerAuth
//	@Router			/payroll/generate [post]
func (h *PayrollHandler) Generate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req payrollapp.GeneratePayrollRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.payrollService.Generate(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Create godoc
//
//	@Summary		Create payroll record
//	@Tags			payroll
//	@Accept			json
//	@Produce		json
//	@Param			request	body		payroll.CreateRecordRequest	true	"Record"
//	@Success		201		{object}	APIResponse[payroll.RecordResponse]
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll [post]
func (h *PayrollHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req payrollapp.CreateRecordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	record, err := h.payrollService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// GetByID godoc
//
//	@Summary		Get payroll record
//	@Tags			payroll
//	@Produce		json
//	@Param			id	path		string	true	"Record ID"	format(uuid)
//	@Success		200	{object}	APIResponse[payroll.RecordResponse]
//	@Security		BearerAuth
//	@Router			/payroll/{id} [get]
func (h *PayrollHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.payrollService.GetByID(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// List godoc
//
//	@Summary		List payroll records
//	@Tags			payroll
//	@Produce		json
//	@Param			period		query		string	false	"Period (YYYY-MM)"
//	@Param			status		query		string	false	"Status"	Enums(DRAFT, APPROVED, PAID)
//	@Param			employee_id	query		string	false	"Employee"	format(uuid)
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]payroll.RecordResponse]
//	@Security		BearerAuth
//	@Router			/payroll [get]
func (h *PayrollHandler) List(c *gin.Context) {
	var filter payrollapp.RecordListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	records, total, err := h.payrollService.List(c.Request.Context(), h.scope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary		Update payroll record
//	@Description	Only DRAFT records can be edited
//	@Tags			payroll
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Record ID"	format(uuid)
//	@Param			request	body		payroll.UpdateRecordRequest	true	"Changes"
//	@Success		200		{object}	APIResponse[payroll.RecordResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/{id} [put]
func (h *PayrollHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req payrollapp.UpdateRecordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	record, err := h.payrollService.Update(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Approve godoc
//
//	@Summary		Approve payroll record
//	@Tags			payroll
//	@Produce		json
//	@Param			id	path		string	true	"Record ID"	format(uuid)
//	@Success		200	{object}	APIResponse[payroll.RecordResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/{id}/approve [post]
func (h *PayrollHandler) Approve(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.payrollService.Approve(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Pay godoc
//
//	@Summary		Pay payroll record
//	@Description	APPROVED to PAID. Books a Payroll EXPENSE transaction in the same database transaction.
//	@Tags			payroll
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Record ID"	format(uuid)
//	@Param			request	body		payroll.PayRecordRequest	false	"Payment"
//	@Success		200		{object}	APIResponse[payroll.RecordResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/{id}/pay [post]
func (h *PayrollHandler) Pay(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req payrollapp.PayRecordRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	record, err := h.payrollService.Pay(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete godoc
//
//	@Summary		Delete payroll record
//	@Tags			payroll
//	@Param			id	path	string	true	"Record ID"	format(uuid)
//	@Success		204
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/{id} [delete]
func (h *PayrollHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.payrollService.Delete(c.Request.Context(), h.scope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Summary godoc
//
//	@Summary		Payroll period summary
//	@Tags			payroll
//	@Produce		json
//	@Param			period	query		string	true	"Period (YYYY-MM)"
//	@Success		200		{object}	APIResponse[payroll.PeriodSummary]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payroll/summary [get]
func (h *PayrollHandler) Summary(c *gin.Context) {
	summary, err := h.payrollService.Summary(c.Request.Context(), h.scope(c), c.Query("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
