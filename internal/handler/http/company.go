package http

import (
	"net/http"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/sirh-backend-go/internal/handler/http/response"
)

type CompanyHandler interface {
	GetMy(w http.ResponseWriter, r *http.Request)
	UpdateLeaveDays(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{companyService: companyService}
}

// GetMy returns the caller's company.
func (c *CompanyHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	result, err := c.companyService.GetByID(r.Context(), actor.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateLeaveDays sets the company-wide monthly accrual rate.
func (c *CompanyHandlerImpl) UpdateLeaveDays(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req company.UpdateLeaveDaysRequest
	if !decodeJSON(w, r, &req, "UpdateLeaveDays") {
		return
	}

	result, err := c.companyService.UpdateLeaveDays(r.Context(), actor.CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave days per month updated successfully", result)
}
