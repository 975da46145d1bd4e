package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/auth"
	authmodels "github.com/messias1976/Tesouraria-da-Igreja/internal/auth/models"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/platform/metrics"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/treasury"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/treasury/service"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/watch"
	"github.com/messias1976/Tesouraria-da-Igreja/pkg/apperrors"
)

// CredentialSignIn is the slice of the auth provider the login endpoint
// needs. Only in-process providers expose it; with an external provider the
// endpoint is simply not routed.
type CredentialSignIn interface {
	SignIn(ctx context.Context, email, password, userAgent string) (authmodels.Session, error)
}

// Handler delegates to the treasury service. It holds no state beyond the
// path tracker.
type Handler struct {
	svc     *service.Service
	signIn  CredentialSignIn
	tracker *PathTracker
	metrics *metrics.Metrics // nil in tests
}

// NewHandler wires the handler. signIn may be nil when an external provider
// owns the sign-in surface; m may be nil.
func NewHandler(svc *service.Service, signIn CredentialSignIn, tracker *PathTracker, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, signIn: signIn, tracker: tracker, metrics: m}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Status      string `json:"status"`
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Device      string `json:"device,omitempty"`
	RedirectTo  string `json:"redirect_to,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if h.signIn == nil {
		writeError(w, apperrors.New(apperrors.CodeUnavailable, "sign-in is handled by the external provider"))
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidInput, "invalid request body"))
		return
	}

	// The client signs in from the sign-in page; the transition then parks
	// the landing redirect for this response.
	h.tracker.SetCurrentPath(auth.SignInPath)

	session, err := h.signIn.SignIn(r.Context(), req.Email, req.Password, r.UserAgent())
	if err != nil {
		writeError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.SignIns.Inc()
	}

	resp := sessionResponse{
		Status:      authmodels.StatusPresent.String(),
		UserID:      session.UserID,
		Email:       session.Email,
		DisplayName: session.DisplayName,
		Device:      session.Device,
	}
	if to, ok := h.tracker.ConsumeRedirect(); ok {
		resp.RedirectTo = to
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context()); err != nil {
		writeError(w, apperrors.Wrap(err, apperrors.CodeUnavailable, "sign out"))
		return
	}
	resp := sessionResponse{Status: authmodels.StatusAbsent.String()}
	if to, ok := h.tracker.ConsumeRedirect(); ok {
		resp.RedirectTo = to
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	if path := r.URL.Query().Get("path"); path != "" {
		h.tracker.SetCurrentPath(path)
	}

	snap := h.svc.Session()
	resp := sessionResponse{Status: snap.Status.String()}
	if snap.Session.Present() {
		resp.UserID = snap.Session.UserID
		resp.Email = snap.Session.Email
		resp.DisplayName = snap.Session.DisplayName
		resp.Device = snap.Session.Device
	}
	if to, ok := h.tracker.ConsumeRedirect(); ok {
		resp.RedirectTo = to
	} else if snap.Status.Resolved() {
		// Policy is pure; recompute for the path the client just reported.
		if nav := auth.DecideNavigation(snap.Session.Present(), h.tracker.CurrentPath()); nav.Redirect {
			resp.RedirectTo = nav.To
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type collectionResponse[T any] struct {
	State string `json:"state"`
	Stale bool   `json:"stale,omitempty"`
	Error string `json:"error,omitempty"`
	Items []T    `json:"items"`
}

func collectionBody[T, R any](snap watch.Snapshot[T], render func(T) R) collectionResponse[R] {
	body := collectionResponse[R]{
		State: snap.State.String(),
		Stale: snap.Stale,
		Items: make([]R, 0, len(snap.Items)),
	}
	if snap.Err != nil {
		body.Error = snap.Err.Error()
	}
	for _, item := range snap.Items {
		body.Items = append(body.Items, render(item))
	}
	return body
}

type entryResponse struct {
	ID                 string `json:"id"`
	Direction          string `json:"direction"`
	Category           string `json:"category"`
	Amount             string `json:"amount"`
	AmountDisplay      string `json:"amount_display"`
	OccurredOn         string `json:"occurred_on"`
	Note               string `json:"note,omitempty"`
	CounterpartyName   string `json:"counterparty_name,omitempty"`
	RecorderName       string `json:"recorder_name"`
	DeputyRecorderName string `json:"deputy_recorder_name,omitempty"`
}

func renderEntry(e treasury.Entry) entryResponse {
	return entryResponse{
		ID:                 e.ID,
		Direction:          string(e.Direction),
		Category:           string(e.Category),
		Amount:             e.Amount.StringFixed(2),
		AmountDisplay:      treasury.FormatBRL(e.Amount),
		OccurredOn:         e.OccurredOn.Format(treasury.WireDateFormat),
		Note:               e.Note,
		CounterpartyName:   e.CounterpartyName,
		RecorderName:       e.RecorderName,
		DeputyRecorderName: e.DeputyRecorderName,
	}
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, collectionBody(h.svc.Entries(), renderEntry))
}

type addEntryRequest struct {
	Direction          string `json:"direction"`
	Category           string `json:"category"`
	Amount             string `json:"amount"`
	OccurredOn         string `json:"occurred_on"`
	Note               string `json:"note"`
	CounterpartyName   string `json:"counterparty_name"`
	RecorderName       string `json:"recorder_name"`
	DeputyRecorderName string `json:"deputy_recorder_name"`
}

func (h *Handler) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidInput, "invalid request body"))
		return
	}
	entry, err := h.svc.AddEntry(r.Context(), service.AddEntryInput{
		Direction:          req.Direction,
		Category:           req.Category,
		Amount:             req.Amount,
		OccurredOn:         req.OccurredOn,
		Note:               req.Note,
		CounterpartyName:   req.CounterpartyName,
		RecorderName:       req.RecorderName,
		DeputyRecorderName: req.DeputyRecorderName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, renderEntry(entry))
}

func (h *Handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRefreshEntries(w http.ResponseWriter, r *http.Request) {
	h.svc.RefreshEntries()
	w.WriteHeader(http.StatusAccepted)
}

type treasurerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

func (h *Handler) handleListTreasurers(w http.ResponseWriter, r *http.Request) {
	selected := h.svc.SelectedTreasurer()
	writeJSON(w, http.StatusOK, collectionBody(h.svc.Treasurers(), func(t treasury.Treasurer) treasurerResponse {
		return treasurerResponse{ID: t.ID, Name: t.Name, Selected: t.Name == selected}
	}))
}

type selectTreasurerRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleSelectOrCreateTreasurer(w http.ResponseWriter, r *http.Request) {
	var req selectTreasurerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidInput, "invalid request body"))
		return
	}
	t, err := h.svc.SelectOrCreateTreasurer(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, treasurerResponse{ID: t.ID, Name: t.Name, Selected: true})
}

type summaryResponse struct {
	TotalInflow  string `json:"total_inflow"`
	TotalOutflow string `json:"total_outflow"`
	Balance      string `json:"balance"`
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	s := h.svc.Summary()
	writeJSON(w, http.StatusOK, summaryResponse{
		TotalInflow:  treasury.FormatBRL(s.TotalInflow),
		TotalOutflow: treasury.FormatBRL(s.TotalOutflow),
		Balance:      treasury.FormatBRL(s.Balance),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
