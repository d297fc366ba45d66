package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filmcounts/filmcounts-gateway/internal/forms"
	"github.com/filmcounts/filmcounts-gateway/internal/table"
)

var (
	companyColumns = []table.Column{
		{Key: "name", Label: "Company"},
		{Key: "registrationNumber", Label: "Registration"},
		{Key: "address", Label: "Address"},
	}
	supplierColumns = []table.Column{
		{Key: "name", Label: "Supplier"},
		{Key: "service", Label: "Service"},
		{Key: "email", Label: "Email"},
		{Key: "phone", Label: "Phone"},
	}
	departmentColumns = []table.Column{
		{Key: "name", Label: "Department"},
		{Key: "head", Label: "Head"},
	}
	organizationColumns = []table.Column{
		{Key: "name", Label: "Organization"},
	}
)

// ---------------------------------------------------------------------------
// Companies
// ---------------------------------------------------------------------------

func (h *Handlers) ListCompanies(c *gin.Context) {
	reg := registry(c)
	res := reg.Company.List(c.Request.Context(), nil)
	h.renderTable(c, res, companyColumns, reg.Company.Rows())
}

func (h *Handlers) CreateCompany(c *gin.Context) {
	var form forms.Company
	if !bindForm(c, &form) {
		return
	}
	respond(c, registry(c).Company.Create(c.Request.Context(), form))
}

func (h *Handlers) UpdateCompany(c *gin.Context) {
	var form forms.Company
	if !bindForm(c, &form) {
		return
	}
	form.ID = c.Param("id")
	respond(c, registry(c).Company.Update(c.Request.Context(), form))
}

func (h *Handlers) DeleteCompany(c *gin.Context) {
	respond(c, registry(c).Company.Delete(c.Request.Context(), c.Param("id")))
}

// ---------------------------------------------------------------------------
// Suppliers
// ---------------------------------------------------------------------------

func (h *Handlers) ListSuppliers(c *gin.Context) {
	reg := registry(c)
	res := reg.Supplier.List(c.Request.Context(), nil)
	h.renderTable(c, res, supplierColumns, reg.Supplier.Rows())
}

func (h *Handlers) CreateSupplier(c *gin.Context) {
	var form forms.Supplier
	if !bindForm(c, &form) {
		return
	}
	respond(c, registry(c).Supplier.Create(c.Request.Context(), form))
}

func (h *Handlers) UpdateSupplier(c *gin.Context) {
	var form forms.Supplier
	if !bindForm(c, &form) {
		return
	}
	form.ID = c.Param("id")
	respond(c, registry(c).Supplier.Update(c.Request.Context(), form))
}

func (h *Handlers) DeleteSupplier(c *gin.Context) {
	respond(c, registry(c).Supplier.Delete(c.Request.Context(), c.Param("id")))
}

// ---------------------------------------------------------------------------
// Departments
// ---------------------------------------------------------------------------

func (h *Handlers) ListDepartments(c *gin.Context) {
	reg := registry(c)
	res := reg.Department.List(c.Request.Context(), nil)
	h.renderTable(c, res, departmentColumns, reg.Department.Rows())
}

func (h *Handlers) CreateDepartment(c *gin.Context) {
	var form forms.Department
	if !bindForm(c, &form) {
		return
	}
	respond(c, registry(c).Department.Create(c.Request.Context(), form))
}

func (h *Handlers) UpdateDepartment(c *gin.Context) {
	var form forms.Department
	if !bindForm(c, &form) {
		return
	}
	form.ID = c.Param("id")
	respond(c, registry(c).Department.Update(c.Request.Context(), form))
}

func (h *Handlers) DeleteDepartment(c *gin.Context) {
	respond(c, registry(c).Department.Delete(c.Request.Context(), c.Param("id")))
}

// ---------------------------------------------------------------------------
// Organizations
// ---------------------------------------------------------------------------

func (h *Handlers) ListOrganizations(c *gin.Context) {
	reg := registry(c)
	res := reg.Organization.List(c.Request.Context(), nil)
	h.renderTable(c, res, organizationColumns, reg.Organization.Rows())
}

func (h *Handlers) CreateOrganization(c *gin.Context) {
	var form forms.Organization
	if !bindForm(c, &form) {
		return
	}
	respond(c, registry(c).Organization.Create(c.Request.Context(), form))
}

func (h *Handlers) UpdateOrganization(c *gin.Context) {
	var form forms.Organization
	if !bindForm(c, &form) {
		return
	}
	form.ID = c.Param("id")
	respond(c, registry(c).Organization.Update(c.Request.Context(), form))
}

func (h *Handlers) DeleteOrganization(c *gin.Context) {
	respond(c, registry(c).Organization.Delete(c.Request.Context(), c.Param("id")))
}

// OrganizationMembers lists the members of one organization. No table engine
// here: membership lists are small and the shell renders them as-is.
func (h *Handlers) OrganizationMembers(c *gin.Context) {
	res := registry(c).Organization.Members(c.Request.Context(), c.Param("id"))
	if !res.Success {
		respond(c, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
