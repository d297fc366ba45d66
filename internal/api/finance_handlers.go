package api

import (
	"github.com/gin-gonic/gin"

	"github.com/filmcounts/filmcounts-gateway/internal/forms"
	"github.com/filmcounts/filmcounts-gateway/internal/table"
)

// Column sets for the finance list screens. These mirror the dashboard's
// grids; undeclared row fields still travel in the response and remain
// searchable, they just have no header.
var (
	projectColumns = []table.Column{
		{Key: "name", Label: "Project"},
		{Key: "companyId", Label: "Company"},
		{Key: "startDate", Label: "Start"},
		{Key: "endDate", Label: "End"},
	}
	budgetColumns = []table.Column{
		{Key: "name", Label: "Budget"},
		{Key: "projectId", Label: "Project"},
		{Key: "amount", Label: "Amount"},
		{Key: "status", Label: "Status"},
	}
	requisitionColumns = []table.Column{
		{Key: "purpose", Label: "Purpose"},
		{Key: "budgetId", Label: "Budget"},
		{Key: "amount", Label: "Amount"},
		{Key: "status", Label: "Status"},
	}
	reconciliationColumns = []table.Column{
		{Key: "requisitionId", Label: "Requisition"},
		{Key: "amountSpent", Label: "Spent"},
		{Key: "status", Label: "Status"},
	}
)

// ---------------------------------------------------------------------------
// Projects
// ---------------------------------------------------------------------------

func (h *Handlers) ListProjects(c *gin.Context) {
	reg := registry(c)
	res := reg.Budget.ListProjects(c.Request.Context(), nil)
	h.renderTable(c, res, projectColumns, reg.Budget.Projects())
}

func (h *Handlers) CreateProject(c *gin.Context) {
	var form forms.Project
	if !bindForm(c, &form) {
		return
	}
	respond(c, registry(c).Budget.CreateProject(c.Request.Context(), form))
}

func (h *Handlers) UpdateProject(c *gin.Context) {
	var form forms.Project
	if !bindForm(c, &form) {
		return
	}
	form.ID = c.Param("id")
	respond(c, registry(c).Budget.UpdateProject(c.Request.Context(), form))
}

func (h *Handlers) DeleteProject(c *gin.Context) {
	respond(c, registry(c).Budget.DeleteProject(c.Request.Context(), c.Param("id")))
}

// ---------------------------------------------------------------------------
// Budgets
// ---------------------------------------------------------------------------

func (h *Handlers) ListBudgets(c *gin.Context) {
	reg := registry(c)
	res := reg.Budget.ListBudgets(c.Request.Context(), nil)
	h.renderTable(c, res, budgetColumns, reg.Budget.Budgets())
}

func (h *Handlers) CreateBudget(c *gin.Context) {
	var form forms.Budget
	if !bindForm(c, &form) {
		return
	}
	respond(c, registry(c).Budget.CreateBudget(c.Request.Context(), form))
}

func (h *Handlers) UpdateBudget(c *gin.Context) {
	var form forms.Budget
	if !bindForm(c, &form) {
		return
	}
	form.ID = c.Param("id")
	respond(c, registry(c).Budget.UpdateBudget(c.Request.Context(), form))
}

func (h *Handlers) DeleteBudget(c *gin.Context) {
	respond(c, registry(c).Budget.DeleteBudget(c.Request.Context(), c.Param("id")))
}

// ---------------------------------------------------------------------------
// Requisitions
// ---------------------------------------------------------------------------

func (h *Handlers) ListRequisitions(c *gin.Context) {
	reg := registry(c)
	res := reg.Budget.ListRequisitions(c.Request.Context(), nil)
	h.renderTable(c, res, requisitionColumns, reg.Budget.Requisitions())
}

func (h *Handlers) CreateRequisition(c *gin.Context) {
	var form forms.Requisition
	if !bindForm(c, &form) {
		return
	}
	respond(c, registry(c).Budget.CreateRequisition(c.Request.Context(), form))
}

func (h *Handlers) UpdateRequisition(c *gin.Context) {
	var form forms.Requisition
	if !bindForm(c, &form) {
		return
	}
	form.ID = c.Param("id")
	respond(c, registry(c).Budget.UpdateRequisition(c.Request.Context(), form))
}

func (h *Handlers) ApproveRequisition(c *gin.Context) {
	respond(c, registry(c).Budget.ApproveRequisition(c.Request.Context(), c.Param("id")))
}

func (h *Handlers) DeleteRequisition(c *gin.Context) {
	respond(c, registry(c).Budget.DeleteRequisition(c.Request.Context(), c.Param("id")))
}

// ---------------------------------------------------------------------------
// Reconciliations
// ---------------------------------------------------------------------------

func (h *Handlers) ListReconciliations(c *gin.Context) {
	reg := registry(c)
	res := reg.Budget.ListReconciliations(c.Request.Context(), nil)
	h.renderTable(c, res, reconciliationColumns, reg.Budget.Reconciliations())
}

func (h *Handlers) CreateReconciliation(c *gin.Context) {
	var form forms.Reconciliation
	if !bindForm(c, &form) {
		return
	}
	respond(c, registry(c).Budget.CreateReconciliation(c.Request.Context(), form))
}

func (h *Handlers) UpdateReconciliation(c *gin.Context) {
	var form forms.Reconciliation
	if !bindForm(c, &form) {
		return
	}
	form.ID = c.Param("id")
	respond(c, registry(c).Budget.UpdateReconciliation(c.Request.Context(), form))
}

func (h *Handlers) DeleteReconciliation(c *gin.Context) {
	respond(c, registry(c).Budget.DeleteReconciliation(c.Request.Context(), c.Param("id")))
}
