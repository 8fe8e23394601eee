package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-backend/internal/domains/loan"
	"library-backend/internal/domains/user"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type LoanHandler struct {
	service loan.Service
}

func NewLoanHandler(svc loan.Service) *LoanHandler {
	return &LoanHandler{service: svc}
}

// Borrow - POST /v1/books/:id/borrow
func (h *LoanHandler) Borrow(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	created, err := h.service.Borrow(c.Request.Context(), actorID(c), bookID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created.ToResponse())
}

// Return - POST /v1/loans/:id/return
func (h *LoanHandler) Return(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid loan id")
		return
	}

	closed, err := h.service.Return(c.Request.Context(), actorID(c), actorRole(c), loanID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, closed.ToResponse())
}

// ListOwnLoans - GET /v1/users/me/loans?sort_by=loan_date
func (h *LoanHandler) ListOwnLoans(c *gin.Context) {
	var filter loan.LoanFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	loans, err := h.service.ListByUser(c.Request.Context(), actorID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, toResponses(loans))
}

// ListHistory - GET /v1/history?sort_by=return_date
func (h *LoanHandler) ListHistory(c *gin.Context) {
	var filter loan.LoanFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	loans, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, toResponses(loans))
}

// CreateEntry - POST /v1/history
func (h *LoanHandler) CreateEntry(c *gin.Context) {
	var req loan.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created.ToResponse())
}

// UpdateEntry - PUT /v1/history/:id
func (h *LoanHandler) UpdateEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid loan id")
		return
	}

	var req loan.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated.ToResponse())
}

// DeleteEntry - DELETE /v1/history/:id
func (h *LoanHandler) DeleteEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid loan id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorID(c), id); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "loan entry deleted"})
}

func actorID(c *gin.Context) uuid.UUID {
	v, _ := c.Get(middleware.CtxUserID)
	id, _ := v.(uuid.UUID)
	return id
}

func actorRole(c *gin.Context) user.Role {
	v, _ := c.Get(middleware.CtxRole)
	role, _ := v.(string)
	return user.Role(role)
}

func toResponses(loans []loan.Loan) []loan.LoanResponse {
	resp := make([]loan.LoanResponse, len(loans))
	for i := range loans {
		resp[i] = *loans[i].ToResponse()
	}
	return resp
}

func writeError(c *gin.Context, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", verrs)
		return
	}

	response.ErrorResponse(c, loan.ToHTTPStatus(err), loan.ToErrorCode(err), err.Error())
}
