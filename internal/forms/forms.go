// Package forms defines the request payloads of every create/edit screen and
// validates them before anything reaches the platform. Validation here is the
// same shallow required/format checking the dashboard did client-side; the
// platform remains the authority on business rules.
package forms

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Error keys must match the JSON field names the client sent, not the
	// Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Errors maps a field name to its first validation failure message.
type Errors map[string]string

// Validate checks a form and returns field-keyed messages, nil when valid.
func Validate(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"_form": err.Error()}
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

// message renders one validation failure in the dashboard's toast voice.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Register struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ResetPassword struct {
	Email string `json:"email" validate:"required,email"`
}

// ---------------------------------------------------------------------------
// Finance
// ---------------------------------------------------------------------------

type Project struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name" validate:"required"`
	CompanyID   string `json:"companyId" validate:"required"`
	StartDate   string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Description string `json:"description,omitempty"`
}

type Budget struct {
	ID        string  `json:"id,omitempty"`
	ProjectID string  `json:"projectId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency,omitempty"`
}

type Requisition struct {
	ID       string  `json:"id,omitempty"`
	BudgetID string  `json:"budgetId" validate:"required"`
	Purpose  string  `json:"purpose" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
}

type Reconciliation struct {
	ID            string  `json:"id,omitempty"`
	RequisitionID string  `json:"requisitionId" validate:"required"`
	AmountSpent   float64 `json:"amountSpent" validate:"gte=0"`
	Notes         string  `json:"notes,omitempty"`
}

// ---------------------------------------------------------------------------
// Entities
// ---------------------------------------------------------------------------

type Company struct {
	ID                 string `json:"id,omitempty"`
	Name               string `json:"name" validate:"required"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Address            string `json:"address,omitempty"`
}

type Supplier struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Service string `json:"service,omitempty"`
}

type Department struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name" validate:"required"`
	Head string `json:"head,omitempty"`
}

type Organization struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name" validate:"required"`
}

type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=MEMBER ADMIN ADMINISTRATOR"`
}

type Setting struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}
