package analysis

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"nlp-backend/internal/extract"
	"nlp-backend/internal/shared/server/middleware"
	"nlp-backend/internal/shared/server/respond"
	"nlp-backend/internal/shared/telemetry"
	"nlp-backend/internal/shared/util"
)

const defaultMaxUploadBytes = 5 << 20

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/summarize", h.summarize)
	r.POST("/sentiment", h.sentiment)
	r.POST("/keywords", h.keywords)
	r.POST("/analyze_all", h.analyzeAll)
	r.GET("/history", h.history)
}

// IsAnalysisRoute reports whether the matched route runs an analyzer.
func IsAnalysisRoute(c *gin.Context) bool {
	if c.Request.Method != http.MethodPost {
		return false
	}
	switch c.FullPath() {
	case "/summarize", "/sentiment", "/keywords", "/analyze_all":
		return true
	default:
		return false
	}
}

func (h *Handler) summarize(c *gin.Context) {
	req, ok := h.bind(c, TypeSummary)
	if !ok {
		return
	}
	summary, err := h.Svc.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"summary": summary})
}

func (h *Handler) sentiment(c *gin.Context) {
	req, ok := h.bind(c, TypeSentiment)
	if !ok {
		return
	}
	sentiment, err := h.Svc.Sentiment(c.Request.Context(), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"sentiment": sentiment})
}

func (h *Handler) keywords(c *gin.Context) {
	req, ok := h.bind(c, TypeKeywords)
	if !ok {
		return
	}
	keywords, err := h.Svc.Keywords(c.Request.Context(), req.Text, h.Svc.KeywordCountFor(req.Count))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"keywords": keywords})
}

func (h *Handler) analyzeAll(c *gin.Context) {
	req, ok := h.bind(c, TypeAll)
	if !ok {
		return
	}
	combined, err := h.Svc.AnalyzeAll(c.Request.Context(), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, combined)
}

func (h *Handler) history(c *gin.Context) {
	respond.OK(c, h.Svc.History())
}

// bind reads the request text from a JSON body or a multipart form. The body is
// decoded as JSON whatever the content type, except for multipart uploads.
func (h *Handler) bind(c *gin.Context, kind RecordType) (analyzeRequest, bool) {
	c.Set("recordType", string(kind))

	var (
		req analyzeRequest
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req, err = h.bindMultipart(c)
	} else {
		req, err = bindJSON(c)
	}
	if err != nil {
		h.fail(c, err)
		return analyzeRequest{}, false
	}
	c.Set("inputChars", len(req.Text))
	return req, true
}

func bindJSON(c *gin.Context) (analyzeRequest, error) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return analyzeRequest{}, ErrNoText
		}
		return analyzeRequest{}, errors.Join(errInvalidJSON, err)
	}
	return req, nil
}

func (h *Handler) bindMultipart(c *gin.Context) (analyzeRequest, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		return analyzeRequest{}, err
	}

	var req analyzeRequest
	if raw := strings.TrimSpace(c.PostForm("count")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			req.Count = &n
		}
	}

	file, header, err := c.Request.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		req.Text = c.PostForm("text")
		return req, nil
	case err != nil:
		return analyzeRequest{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return analyzeRequest{}, err
	}
	fileName, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		fileName = ""
	}
	mimeType := header.Header.Get("Content-Type")
	text, err := extract.TextFromBytes(c.Request.Context(), data, mimeType, fileName)
	if err != nil {
		return analyzeRequest{}, err
	}
	telemetry.Info("upload.extracted", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"file_name":  fileName,
		"mime_type":  mimeType,
		"bytes":      len(data),
		"chars":      len(text),
	})
	req.Text = text
	return req, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, ErrNoText):
		respond.Error(c, http.StatusBadRequest, "validation_error", msgNoText)
	case errors.Is(err, errInvalidJSON):
		respond.ErrorWithCause(c, http.StatusBadRequest, "invalid_json", msgInvalidJSON, err)
	case errors.As(err, &tooLarge):
		respond.ErrorWithCause(c, http.StatusRequestEntityTooLarge, "upload_too_large", msgUploadTooLarge, err)
	case errors.Is(err, extract.ErrUnsupported):
		respond.ErrorWithCause(c, http.StatusBadRequest, "unsupported_file", msgUnsupported, err)
	default:
		respond.ErrorWithCause(c, http.StatusInternalServerError, "analysis_failed", msgAnalysisFailed, err)
	}
}
