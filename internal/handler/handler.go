package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"phonenet/internal/domain"
	"phonenet/internal/network"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NetworkHandler handles phone network API requests
type NetworkHandler struct {
	net     *network.Network
	logger  *slog.Logger
	dataDir string
}

// NewNetworkHandler creates a new network handler. Snapshot files named by
// save and load requests are resolved inside dataDir.
func NewNetworkHandler(n *network.Network, logger *slog.Logger, dataDir string) *NetworkHandler {
	if dataDir == "" {
		dataDir = "."
	}
	return &NetworkHandler{net: n, logger: logger, dataDir: dataDir}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewRouter builds the full HTTP router. events may be nil to disable the
// SSE endpoint.
func NewRouter(h *NetworkHandler, events http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, h.logger, map[string]string{"status": "ok"}, http.StatusOK)
	})

	// SSE streams are long lived and stay outside the request timeout.
	if events != nil {
		r.Handle("/events", events)
	}

	r.Group(func(api chi.Router) {
		api.Use(chimiddleware.Timeout(30 * time.Second))
		h.RegisterRoutes(api)
	})
	return r
}

// RegisterRoutes sets up the /api routes
func (h *NetworkHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/network", h.GetNetwork)
	r.Post("/api/network/save", h.SaveNetwork)
	r.Post("/api/network/load", h.LoadNetwork)

	r.Post("/api/switchboards", h.AddSwitchboard)
	r.Post("/api/switchboards/{area}/phones", h.AddPhone)
	r.Post("/api/trunks", h.ConnectSwitchboards)
	r.Get("/api/route", h.FindRoute)

	r.Get("/api/calls", h.ListCalls)
	r.Post("/api/calls", h.StartCall)
	r.Delete("/api/calls/{phone}", h.EndCall)
}

// GetNetwork returns the status of every switchboard
func (h *NetworkHandler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, h.net.Status(), http.StatusOK)
}

// SwitchboardRequest is the body of POST /api/switchboards
type SwitchboardRequest struct {
	AreaCode int `json:"area_code"`
}

// AddSwitchboard creates a switchboard, or returns the existing one
func (h *NetworkHandler) AddSwitchboard(w http.ResponseWriter, r *http.Request) {
	var req SwitchboardRequest
	if !h.decode(w, r, &req) {
		return
	}

	sb, created := h.net.AddSwitchboard(req.AreaCode)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, h.logger, sb.Status(), status)
}

// TrunkRequest is the body of POST /api/trunks
type TrunkRequest struct {
	Area1 int `json:"area_1"`
	Area2 int `json:"area_2"`
}

// ConnectSwitchboards adds a trunk between two switchboards
func (h *NetworkHandler) ConnectSwitchboards(w http.ResponseWriter, r *http.Request) {
	var req TrunkRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.net.ConnectSwitchboards(req.Area1, req.Area2); err != nil {
		h.fail(w, "Failed to connect switchboards", err)
		return
	}
	writeJSON(w, h.logger, req, http.StatusCreated)
}

// PhoneRequest is the body of POST /api/switchboards/{area}/phones
type PhoneRequest struct {
	Number int `json:"number"`
}

// AddPhone adds a phone to a switchboard
func (h *NetworkHandler) AddPhone(w http.ResponseWriter, r *http.Request) {
	area, err := strconv.Atoi(chi.URLParam(r, "area"))
	if err != nil {
		h.writeError(w, "Invalid area code", chi.URLParam(r, "area"), http.StatusBadRequest)
		return
	}

	var req PhoneRequest
	if !h.decode(w, r, &req) {
		return
	}

	phone, err := h.net.AddPhone(area, req.Number)
	if err != nil {
		h.fail(w, "Failed to add phone", err)
		return
	}
	writeJSON(w, h.logger, phone.ID(), http.StatusCreated)
}

// RouteResponse is the body returned by GET /api/route
type RouteResponse struct {
	Path []int `json:"path"`
	Hops int   `json:"hops"`
}

// FindRoute searches for a trunk route between two switchboards
func (h *NetworkHandler) FindRoute(w http.ResponseWriter, r *http.Request) {
	from, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil {
		h.writeError(w, "Invalid query", "from must be an area code", http.StatusBadRequest)
		return
	}
	to, err := strconv.Atoi(r.URL.Query().Get("to"))
	if err != nil {
		h.writeError(w, "Invalid query", "to must be an area code", http.StatusBadRequest)
		return
	}

	path, err := h.net.FindConnection(r.Context(), from, to)
	if err != nil {
		h.fail(w, "No route", err)
		return
	}
	writeJSON(w, h.logger, RouteResponse{Path: path, Hops: len(path) - 1}, http.StatusOK)
}

// ListCalls returns active calls, or ended calls with ?history=true
func (h *NetworkHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	if history, _ := strconv.ParseBool(r.URL.Query().Get("history")); history {
		writeJSON(w, h.logger, h.net.History(), http.StatusOK)
		return
	}
	writeJSON(w, h.logger, h.net.Calls(), http.StatusOK)
}

// CallRequest is the body of POST /api/calls; phones are "area-number"
type CallRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// StartCall connects two phones
func (h *NetworkHandler) StartCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if !h.decode(w, r, &req) {
		return
	}

	from, err := domain.ParsePhoneID(req.From)
	if err != nil {
		h.fail(w, "Invalid caller", err)
		return
	}
	to, err := domain.ParsePhoneID(req.To)
	if err != nil {
		h.fail(w, "Invalid callee", err)
		return
	}

	call, err := h.net.ConnectCall(r.Context(), from.AreaCode, from.Number, to.AreaCode, to.Number)
	if err != nil {
		h.fail(w, "Failed to start call", err)
		return
	}
	writeJSON(w, h.logger, call, http.StatusCreated)
}

// EndCall hangs up the call the phone in the path is in
func (h *NetworkHandler) EndCall(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePhoneID(chi.URLParam(r, "phone"))
	if err != nil {
		h.fail(w, "Invalid phone", err)
		return
	}

	call, err := h.net.EndCall(id.AreaCode, id.Number)
	if err != nil {
		h.fail(w, "Failed to end call", err)
		return
	}
	writeJSON(w, h.logger, call, http.StatusOK)
}

// FileRequest is the body of the save and load endpoints
type FileRequest struct {
	Filename string `json:"filename"`
}

// SaveNetwork writes a snapshot to the named file
func (h *NetworkHandler) SaveNetwork(w http.ResponseWriter, r *http.Request) {
	var req FileRequest
	if !h.decodeFile(w, r, &req) {
		return
	}
	path, err := h.resolveFile(req.Filename)
	if err != nil {
		h.fail(w, "Invalid filename", err)
		return
	}
	if err := h.net.Save(r.Context(), path); err != nil {
		h.fail(w, "Failed to save network", err)
		return
	}
	writeJSON(w, h.logger, req, http.StatusOK)
}

// LoadNetwork merges a snapshot from the named file
func (h *NetworkHandler) LoadNetwork(w http.ResponseWriter, r *http.Request) {
	var req FileRequest
	if !h.decodeFile(w, r, &req) {
		return
	}
	path, err := h.resolveFile(req.Filename)
	if err != nil {
		h.fail(w, "Invalid filename", err)
		return
	}
	if err := h.net.Load(r.Context(), path); err != nil {
		h.fail(w, "Failed to load network", err)
		return
	}
	writeJSON(w, h.logger, h.net.Status(), http.StatusOK)
}

func (h *NetworkHandler) decodeFile(w http.ResponseWriter, r *http.Request, req *FileRequest) bool {
	if !h.decode(w, r, req) {
		return false
	}
	if req.Filename == "" {
		h.writeError(w, "Invalid request", "filename is required", http.StatusBadRequest)
		return false
	}
	return true
}

// resolveFile maps a request filename into the data directory. Absolute
// paths and names that climb out of it are rejected.
func (h *NetworkHandler) resolveFile(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: filename %q must be relative to the data directory", domain.ErrInvalidOperation, name)
	}
	return filepath.Join(h.dataDir, name), nil
}

func (h *NetworkHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid JSON", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// fail writes err with the status its domain kind maps to
func (h *NetworkHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, "error", err)
	}
	h.writeError(w, msg, err.Error(), status)
}

// StatusFor maps a domain error onto an HTTP status code
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidOperation), errors.Is(err, domain.ErrFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnreachable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode JSON", "error", err)
	}
}

func (h *NetworkHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, h.logger, ErrorResponse{Error: error, Details: details}, statusCode)
}
