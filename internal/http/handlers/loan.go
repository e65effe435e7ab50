package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	loandomain "github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/store"
)

type LoanService interface {
	Snapshot(ctx context.Context) loandomain.Snapshot
	View(ctx context.Context, c loandomain.Criteria) loandomain.View
	Register(ctx context.Context, p loandomain.Payload, decide loandomain.LinkDecider) (loandomain.Snapshot, loandomain.Entity, error)
	MarkReturned(ctx context.Context, id string, at time.Time) (loandomain.Snapshot, error)
	ClearHistory(ctx context.Context) (loandomain.Snapshot, error)
	SetTheme(ctx context.Context, value string) (loandomain.Theme, error)
	Theme(ctx context.Context) loandomain.Theme
	ProductCode(itemType string) string
	LookupPhone(ctx context.Context, phone, lastNotice string) loandomain.PhoneMatch
	LookupAddress(ctx context.Context, cep string) (loandomain.Address, bool)
	SendReminder(ctx context.Context, id string) (loandomain.ReminderResult, error)
}

type LoanHandler struct {
	loanService LoanService
}

func NewLoanHandler(loanService LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

func snapshotJSON(s loandomain.Snapshot) gin.H {
	return gin.H{"loans": s.Loans, "theme": s.Theme, "revision": s.Revision}
}

func criteriaFromQuery(c *gin.Context) loandomain.Criteria {
	return loandomain.Criteria{
		Status:        loandomain.ParseStatus(c.DefaultQuery("status", "all")),
		Type:          strings.TrimSpace(c.Query("type")),
		BorrowerQuery: strings.TrimSpace(c.Query("borrower")),
	}
}

func writeError(c *gin.Context, err error) {
	var dup *loandomain.DuplicateError
	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate_loan", "existing": dup.Existing})
	case errors.Is(err, loandomain.ErrMissingItem),
		errors.Is(err, loandomain.ErrMissingBorrower),
		errors.Is(err, loandomain.ErrMissingPhone),
		errors.Is(err, loandomain.ErrAlreadyReturned):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, loandomain.ErrLoanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "loan_not_found"})
	case errors.Is(err, store.ErrWrite):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_write_failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func (h *LoanHandler) GetStore(c *gin.Context) {
	snap := h.loanService.Snapshot(c.Request.Context())
	etag := `"` + snap.Revision + `"`
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", etag)
	c.JSON(http.StatusOK, snapshotJSON(snap))
}

func (h *LoanHandler) ListLoans(c *gin.Context) {
	c.JSON(http.StatusOK, h.loanService.View(c.Request.Context(), criteriaFromQuery(c)))
}

func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req struct {
		loandomain.Payload
		LinkDuplicate *bool `json:"link_duplicate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	var decide loandomain.LinkDecider
	if req.LinkDuplicate != nil {
		decide = loandomain.NeverLink
		if *req.LinkDuplicate {
			decide = loandomain.AlwaysLink
		}
	}

	snap, created, err := h.loanService.Register(c.Request.Context(), req.Payload, decide)
	if errors.Is(err, loandomain.ErrRegistrationAborted) {
		c.JSON(http.StatusOK, gin.H{"created": false})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": true, "loan": created, "store": snapshotJSON(snap)})
}

func (h *LoanHandler) MarkReturned(c *gin.Context) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	if loanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_loan_id"})
		return
	}

	var req struct {
		ReturnedAt string `json:"returned_at"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	d, err := loandomain.ParseDate(req.ReturnedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_returned_at"})
		return
	}
	at := d.Time

	snap, err := h.loanService.MarkReturned(c.Request.Context(), loanID, at)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotJSON(snap))
}

func (h *LoanHandler) ClearHistory(c *gin.Context) {
	snap, err := h.loanService.ClearHistory(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotJSON(snap))
}

func (h *LoanHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.loanService.Theme(c.Request.Context())})
}

func (h *LoanHandler) SetTheme(c *gin.Context) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	theme, err := h.loanService.SetTheme(c.Request.Context(), req.Theme)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (h *LoanHandler) ProductCode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"product_code": h.loanService.ProductCode(c.Query("type"))})
}

func (h *LoanHandler) LookupBorrower(c *gin.Context) {
	match := h.loanService.LookupPhone(c.Request.Context(), c.Query("phone"), c.Query("last_notice"))
	c.JSON(http.StatusOK, match)
}

func (h *LoanHandler) LookupAddress(c *gin.Context) {
	cep := loandomain.MaskCEP(c.Param("cep"))
	if !loandomain.ValidCEP(cep) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_cep"})
		return
	}
	addr, ok := h.loanService.LookupAddress(c.Request.Context(), cep)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "address_not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cep": cep, "street": addr.Street, "neighborhood": addr.Neighborhood})
}

func (h *LoanHandler) SendReminder(c *gin.Context) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	if loanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_loan_id"})
		return
	}
	result, err := h.loanService.SendReminder(c.Request.Context(), loanID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// bindOptionalJSON decodes the request body into dst when one was sent.
// Chunked bodies carry no length, so only a missing or empty body is skipped.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
