package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/inkblot/pkg/buildinfo"
	"github.com/matzehuels/inkblot/pkg/config"
	"github.com/matzehuels/inkblot/pkg/errors"
	"github.com/matzehuels/inkblot/pkg/export"
	"github.com/matzehuels/inkblot/pkg/inkblot"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	defaultMaxBatch = 100
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the preview server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxBatch int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve inkblots over HTTP for local preview",
		Long: `Serve starts a local HTTP server.

Routes:
  GET /inkblot.png   a fresh inkblot (parameters in X-Inkblot-* headers, ?seed= to reproduce)
  GET /batch/{n}     n inkblots as a ZIP archive with the CSV log inside
  GET /healthz       liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := export.ValidateBatchSize(maxBatch); err != nil {
				return err
			}
			srv := &previewServer{cfg: cfg, maxBatch: maxBatch, logger: c.Logger}
			return srv.listen(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().IntVar(&maxBatch, "max-batch", defaultMaxBatch, "largest batch a request may ask for")
	return cmd
}

// previewServer renders inkblots per request. Each request owns its composer
// and canvas, so handlers share only the read-only config.
type previewServer struct {
	cfg      config.Config
	maxBatch int
	logger   *log.Logger
}

func (s *previewServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))

	r.Get("/healthz", s.handleHealth)
	r.Get("/inkblot.png", s.handleImage)
	r.Get("/batch/{n}", s.handleBatch)
	return r
}

func (s *previewServer) listen(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "listen on %s", addr)
	}
	httpSrv := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	printSuccess("Serving inkblots on http://%s", ln.Addr())
	printNextStep("Open", "http://"+ln.Addr().String()+"/inkblot.png")
	printInfo("Press Ctrl+C to stop")

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeIO, err, "serve")
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

// requestLogger puts the server logger into the request context and logs
// each request at debug level.
func (s *previewServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), s.logger)))
		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"id", middleware.GetReqID(r.Context()),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *previewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *previewServer) handleImage(w http.ResponseWriter, r *http.Request) {
	comp, err := s.composer(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	canvas := comp.NewCanvas()
	p := comp.Generate(r.Context(), canvas)

	var buf bytes.Buffer
	if err := export.EncodePNG(&buf, canvas.Image()); err != nil {
		writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Cache-Control", "no-store")
	h.Set("X-Inkblot-Seed", strconv.FormatUint(comp.Seed(), 10))
	h.Set("X-Inkblot-Padding", strconv.Itoa(p.Padding))
	h.Set("X-Inkblot-Shapes", strconv.Itoa(p.Shapes))
	h.Set("X-Inkblot-Blur", strconv.Itoa(p.Blur))
	_, _ = w.Write(buf.Bytes())
}

func (s *previewServer) handleBatch(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "batch size must be a number"))
		return
	}
	if err := export.ValidateBatchSize(n); err != nil {
		writeError(w, r, err)
		return
	}
	if n > s.maxBatch {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "batch size %d exceeds server limit %d", n, s.maxBatch))
		return
	}

	comp, err := s.composer(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	opts := export.BatchOptions{Yield: -1, EmbedLog: true}
	if _, err := export.RunBatch(r.Context(), comp, comp.NewCanvas(), &buf, n, opts); err != nil {
		writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/zip")
	h.Set("Content-Disposition", `attachment; filename="`+export.ArchiveName(n)+`"`)
	h.Set("X-Inkblot-Seed", strconv.FormatUint(comp.Seed(), 10))
	_, _ = w.Write(buf.Bytes())
}

// composer builds a request-scoped composer, honoring an optional ?seed=.
func (s *previewServer) composer(r *http.Request) (*inkblot.Composer, error) {
	var opts []inkblot.Option
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid seed %q", raw)
		}
		opts = append(opts, inkblot.WithSeed(seed))
	}
	return inkblot.NewComposer(s.cfg, opts...)
}

// httpStatus maps an error code to an HTTP status.
func httpStatus(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidRange, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := httpStatus(code)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Warn("Request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{
		"code":  string(code),
		"error": errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
