package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	loandomain "github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/domain/loan"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/export"
)

type ViewSource interface {
	View(ctx context.Context, c loandomain.Criteria) loandomain.View
}

type PDFRenderer interface {
	Render(w io.Writer, view loandomain.View, generatedAt time.Time) error
	Save(view loandomain.View, path string, generatedAt time.Time) export.Result
}

type ExportHandler struct {
	views       ViewSource
	renderer    PDFRenderer
	defaultPath string
	now         func() time.Time
}

func NewExportHandler(views ViewSource, renderer PDFRenderer, defaultPath string) *ExportHandler {
	return &ExportHandler{views: views, renderer: renderer, defaultPath: defaultPath, now: time.Now}
}

// DownloadPDF streams the PDF of the view selected by the query string.
func (h *ExportHandler) DownloadPDF(c *gin.Context) {
	view := h.views.View(c.Request.Context(), criteriaFromQuery(c))
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view, h.now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export_failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="emprestimos.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// SavePDF writes the PDF next to the user's documents and reports the
// outcome as {success, message}.
func (h *ExportHandler) SavePDF(c *gin.Context) {
	var req struct {
		Status   string `json:"status"`
		Type     string `json:"type"`
		Borrower string `json:"borrower"`
		Path     string `json:"path"`
	}
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		path = h.defaultPath
	}
	view := h.views.View(c.Request.Context(), loandomain.Criteria{
		Status:        loandomain.ParseStatus(req.Status),
		Type:          strings.TrimSpace(req.Type),
		BorrowerQuery: strings.TrimSpace(req.Borrower),
	})
	c.JSON(http.StatusOK, h.renderer.Save(view, path, h.now()))
}
