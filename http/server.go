// Package http provides the REST API for the engine: extraction,
// injection and validation over JSON envelopes, plus multipart file
// endpoints that hand the artifacts back as downloads.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/structguard/structguard"
	"golang.org/x/time/rate"
)

// DefaultMaxContentBytes caps a single document payload.
const DefaultMaxContentBytes = 10 << 20 // 10 MB

// Config holds server tuning knobs. The zero value uses defaults.
type Config struct {
	// MaxContentBytes limits the size of any single document. Zero
	// means DefaultMaxContentBytes.
	MaxContentBytes int
	// RateLimit is the sustained request rate. Zero disables limiting.
	RateLimit rate.Limit
	// RateBurst is the token-bucket burst size; defaults to 10 when a
	// rate is set.
	RateBurst int
}

// Server holds the state for the REST API server.
type Server struct {
	adapters        *structguard.AdapterRegistry
	policies        *structguard.PolicyRegistry
	logger          *slog.Logger
	router          *gin.Engine
	limiter         *rate.Limiter
	maxContentBytes int
}

// NewServer creates a new Server instance. Callers that want quiet
// output should set gin.ReleaseMode before constructing the server.
func NewServer(adapters *structguard.AdapterRegistry, policies *structguard.PolicyRegistry, logger *slog.Logger, cfg Config) *Server {
	maxBytes := cfg.MaxContentBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxContentBytes
	}

	s := &Server{
		adapters:        adapters,
		policies:        policies,
		logger:          logger,
		router:          gin.New(),
		maxContentBytes: maxBytes,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 10
		}
		s.limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	s.router.Use(gin.Recovery(), s.requestLogger(), s.limitBody())
	if s.limiter != nil {
		s.router.Use(s.rateLimit())
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// ServeHTTP lets the server act as a plain http.Handler, which is how
// tests drive it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleInfo)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/v1/profiles", s.handleProfiles)
	s.router.POST("/v1/extract", s.handleExtract)
	s.router.POST("/v1/inject", s.handleInject)
	s.router.POST("/v1/validate", s.handleValidate)
	s.router.POST("/v1/extract/file", s.handleExtractFile)
	s.router.POST("/v1/inject/file", s.handleInjectFile)
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "structguard",
		"version": structguard.Version,
		"formats": s.adapters.Formats(),
		"endpoints": []string{
			"GET /health",
			"GET /v1/profiles",
			"POST /v1/extract",
			"POST /v1/inject",
			"POST /v1/validate",
			"POST /v1/extract/file",
			"POST /v1/inject/file",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profiles": s.policies.List()})
}

type extractRequest struct {
	Content string `json:"content" binding:"required"`
	Format  string `json:"format" binding:"required"`
	Profile string `json:"profile"`
}

func (s *Server) handleExtract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, structguard.Errorf(structguard.EINVALID, "invalid request body: %v", err))
		return
	}

	res, err := s.extract(c.Request.Context(), req.Content, req.Format, req.Profile)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// injectRequest is the shared envelope for inject and validate.
type injectRequest struct {
	FlatMap  *structguard.FlatMap        `json:"flat_map" binding:"required"`
	Metadata *structguard.MetadataBundle `json:"metadata" binding:"required"`
	Format   string                      `json:"format"`
	Skeleton string                      `json:"skeleton"`
	Profile  string                      `json:"profile"`
}

func (s *Server) handleInject(c *gin.Context) {
	var req injectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, structguard.Errorf(structguard.EINVALID, "invalid request body: %v", err))
		return
	}

	out, err := s.inject(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": out})
}

func (s *Server) handleValidate(c *gin.Context) {
	var req injectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, structguard.Errorf(structguard.EINVALID, "invalid request body: %v", err))
		return
	}

	report, err := s.validate(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleExtractFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		handleError(c, structguard.Errorf(structguard.EINVALID, "file upload required: %v", err))
		return
	}

	content, err := s.readUpload(header)
	if err != nil {
		handleError(c, err)
		return
	}

	format := c.PostForm("format")
	if format == "" {
		inferred, err := structguard.FormatForPath(header.Filename)
		if err != nil {
			handleError(c, err)
			return
		}
		format = string(inferred)
	}

	res, err := s.extract(c.Request.Context(), content, format, c.PostForm("profile"))
	if err != nil {
		handleError(c, err)
		return
	}

	payload, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		handleError(c, structguard.Errorf(structguard.EINTERNAL, "encode extraction: %v", err))
		return
	}

	name := "extraction_" + filepath.Base(header.Filename) + ".json"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", payload)
}

func (s *Server) handleInjectFile(c *gin.Context) {
	header, err := c.FormFile("extraction")
	if err != nil {
		handleError(c, structguard.Errorf(structguard.EINVALID, "extraction upload required: %v", err))
		return
	}

	data, err := s.readUpload(header)
	if err != nil {
		handleError(c, err)
		return
	}

	var envelope structguard.ExtractionResult
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		handleError(c, structguard.Errorf(structguard.EINVALID, "parse extraction envelope: %v", err))
		return
	}
	if envelope.FlatMap == nil || envelope.Metadata == nil {
		handleError(c, structguard.Errorf(structguard.EINVALID, "extraction envelope must contain flat_map and metadata"))
		return
	}

	req := injectRequest{
		FlatMap:  envelope.FlatMap,
		Metadata: envelope.Metadata,
		Profile:  c.PostForm("profile"),
	}
	out, err := s.inject(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	name := attachmentName(header.Filename, envelope.Metadata.Format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType(envelope.Metadata.Format), []byte(out))
}

func (s *Server) extract(ctx context.Context, content, format, profile string) (*structguard.ExtractionResult, error) {
	if len(content) > s.maxContentBytes {
		return nil, structguard.Errorf(structguard.EINVALID, "content exceeds the %d byte limit", s.maxContentBytes)
	}

	f, err := structguard.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	adapter, err := s.adapters.Get(f)
	if err != nil {
		return nil, err
	}

	var policy structguard.SelectionPolicy
	if profile != "" {
		policy, err = s.policies.Get(profile)
		if err != nil {
			return nil, err
		}
	}
	return adapter.Extract(ctx, content, policy)
}

func (s *Server) inject(ctx context.Context, req *injectRequest) (string, error) {
	if req.Format != "" {
		f, err := structguard.ParseFormat(req.Format)
		if err != nil {
			return "", err
		}
		if f != req.Metadata.Format {
			return "", structguard.Errorf(structguard.EINVALID,
				"format %q does not match bundle format %q", f, req.Metadata.Format)
		}
	}

	adapter, err := s.adapters.Get(req.Metadata.Format)
	if err != nil {
		return "", err
	}

	opts := structguard.InjectOptions{Skeleton: req.Skeleton}
	if req.Profile != "" {
		opts.Policy, err = s.policies.Get(req.Profile)
		if err != nil {
			return "", err
		}
	}
	return adapter.Inject(ctx, req.FlatMap, req.Metadata, opts)
}

func (s *Server) validate(ctx context.Context, req *injectRequest) (*structguard.ValidationReport, error) {
	if err := req.Metadata.Validate(); err != nil {
		return nil, err
	}
	adapter, err := s.adapters.Get(req.Metadata.Format)
	if err != nil {
		return nil, err
	}

	name := req.Profile
	if name == "" {
		name = req.Metadata.Profile
	}
	var policy structguard.SelectionPolicy
	if name != "" {
		policy, err = s.policies.Get(name)
		if err != nil {
			return nil, err
		}
	}

	skeleton := req.Skeleton
	if skeleton == "" {
		skeleton = req.Metadata.Skeleton()
	}
	fresh, err := adapter.Extract(ctx, skeleton, policy)
	if err != nil {
		return nil, err
	}
	return structguard.BuildValidationReport(fresh, req.FlatMap), nil
}

// readUpload reads a multipart file, enforcing the content size limit.
func (s *Server) readUpload(header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", structguard.Errorf(structguard.EINVALID, "open upload: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(s.maxContentBytes)+1))
	if err != nil {
		return "", structguard.Errorf(structguard.EINVALID, "read upload: %v", err)
	}
	if len(data) > s.maxContentBytes {
		return "", structguard.Errorf(structguard.EINVALID, "content exceeds the %d byte limit", s.maxContentBytes)
	}
	return string(data), nil
}

// attachmentName derives the download name for an injected document
// from the uploaded envelope name: extraction_posts.xml.json becomes
// modified_posts.xml.
func attachmentName(upload string, format structguard.Format) string {
	base := filepath.Base(upload)
	base = strings.TrimSuffix(base, ".json")
	base = strings.TrimPrefix(base, "extraction_")
	if base == "" || base == "." {
		return "modified_document." + string(format)
	}
	return "modified_" + base
}

func contentType(format structguard.Format) string {
	if format == structguard.FormatJSON {
		return "application/json"
	}
	return "application/xml"
}

// requestLogger logs every request with status and duration.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
		)
	}
}

// limitBody caps the request body so oversized payloads fail during
// binding instead of buffering without bound.
func (s *Server) limitBody() gin.HandlerFunc {
	// envelopes carry the document plus metadata, so allow double
	limit := int64(s.maxContentBytes) * 2
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// statusCode maps domain error codes to HTTP status.
func statusCode(code string) int {
	switch code {
	case structguard.EINVALID, structguard.EPARSE, structguard.EUNSUPPORTED:
		return http.StatusBadRequest
	case structguard.ERECONSTRUCT, structguard.EPOLICY:
		return http.StatusUnprocessableEntity
	case structguard.ENOTFOUND:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func handleError(c *gin.Context, err error) {
	code := structguard.ErrorCode(err)
	body := gin.H{"code": code, "error": structguard.ErrorMessage(err)}
	var appErr *structguard.Error
	if errors.As(err, &appErr) {
		if appErr.NodeID != "" {
			body["id"] = appErr.NodeID
		}
		if appErr.Path != "" {
			body["path"] = appErr.Path
		}
		if appErr.Line != 0 {
			body["line"] = appErr.Line
		}
	}
	c.JSON(statusCode(code), body)
}
