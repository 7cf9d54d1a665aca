// Package server exposes the pricer over HTTP.
//
// Routes:
//
//	GET  /health  liveness probe
//	POST /price   price one contract from a JSON body
//	GET  /price   price one contract from query parameters
//	POST /run     price every configured contract
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/contactkeval/bs-pricer/internal/data"
	"github.com/contactkeval/bs-pricer/internal/logger"
	"github.com/contactkeval/bs-pricer/internal/pricing"
	"github.com/contactkeval/bs-pricer/internal/quote"
)

type Server struct {
	batch  quote.Config
	prov   data.Provider
	router *mux.Router
}

// New builds a server that prices against prov. batch supplies the as-of
// date, default rate and the contracts used by POST /run.
func New(batch quote.Config, prov data.Provider) *Server {
	s := &Server{batch: batch, prov: prov, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(logRequests)
	s.router.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/price", s.handlePricePost).Methods(http.MethodPost)
	s.router.HandleFunc("/price", s.handlePriceGet).Methods(http.MethodGet)
	s.router.HandleFunc("/run", s.handleRun).Methods(http.MethodPost)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting REST server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Infof("shutting down REST server")
		return srv.Shutdown(shutdownCtx)
	}
}

// engine returns a fresh engine per request; Engine fills defaults into its
// config so it must not be shared between goroutines.
func (s *Server) engine() *quote.Engine {
	cfg := s.batch
	return quote.NewEngine(&cfg, s.prov)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handlePricePost(w http.ResponseWriter, r *http.Request) {
	var spec quote.ContractSpec
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return
	}
	s.price(w, r, spec)
}

func (s *Server) handlePriceGet(w http.ResponseWriter, r *http.Request) {
	spec, err := specFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.price(w, r, spec)
}

func (s *Server) price(w http.ResponseWriter, r *http.Request, spec quote.ContractSpec) {
	q, err := s.engine().PriceOne(r.Context(), spec)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	logger.Infof("received /run request")
	res, err := s.engine().Run(r.Context())
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, quote.ErrNoContracts) {
			status = statusFor(err)
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// specFromQuery reads type, underlying, strike, expiry, time_to_maturity,
// spot, volatility and rate from the query string.
func specFromQuery(r *http.Request) (quote.ContractSpec, error) {
	q := r.URL.Query()
	spec := quote.ContractSpec{
		Underlying: q.Get("underlying"),
		Type:       q.Get("type"),
		Expiry:     q.Get("expiry"),
	}

	strike, err := cast.ToFloat64E(q.Get("strike"))
	if err != nil || q.Get("strike") == "" {
		return spec, errors.Errorf("strike must be a number, got %q", q.Get("strike"))
	}
	spec.Strike = strike

	optional := []struct {
		name string
		dst  **float64
	}{
		{"time_to_maturity", &spec.TimeToMaturity},
		{"spot", &spec.Spot},
		{"volatility", &spec.Volatility},
		{"rate", &spec.Rate},
	}
	for _, o := range optional {
		raw := q.Get(o.name)
		if raw == "" {
			continue
		}
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return spec, errors.Errorf("%s must be a number, got %q", o.name, raw)
		}
		*o.dst = &v
	}
	return spec, nil
}

func statusFor(err error) int {
	var parseErr *time.ParseError
	switch {
	case errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, pricing.ErrUnknownOptionType),
		errors.Is(err, quote.ErrNoMaturity),
		errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.Is(err, data.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.WithFields(map[string]any{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}
