// Package httpapi exposes the game service as a versioned JSON HTTP API.
//
// All game routes require a bearer player-context token issued by POST
// /v1/contexts. Game state always returns as the full session document so
// clients never reconcile partial updates.
package httpapi

import (
	"net/http"

	"github.com/louisbranch/kingdoms-of-fate/internal/auth"
	apperrors "github.com/louisbranch/kingdoms-of-fate/internal/errors"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/service"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/narrative"
	"github.com/louisbranch/kingdoms-of-fate/internal/platform/httpx"
	"github.com/louisbranch/kingdoms-of-fate/internal/platform/id"
)

// Handler routes game API requests.
type Handler struct {
	service *service.Service
	issuer  *auth.Issuer
	idGen   func() (string, error)
}

// Option customizes a Handler.
type Option func(*Handler)

// WithIDGenerator overrides player context ID generation.
func WithIDGenerator(idGen func() (string, error)) Option {
	return func(h *Handler) { h.idGen = idGen }
}

// New creates a Handler over the game service.
func New(svc *service.Service, issuer *auth.Issuer, opts ...Option) *Handler {
	h := &Handler{
		service: svc,
		issuer:  issuer,
		idGen:   id.NewID,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes builds the API route table.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("POST /v1/contexts", h.createContext)
	mux.HandleFunc("GET /v1/races", h.listRaces)

	mux.Handle("POST /v1/games", h.authed(h.createGame))
	mux.Handle("GET /v1/games/active", h.authed(h.activeGame))
	mux.Handle("DELETE /v1/games/active", h.authed(h.abandonGame))
	mux.Handle("GET /v1/games/{id}", h.authed(h.getGame))
	mux.Handle("POST /v1/games/{id}/equip", h.authed(h.equipItem))
	mux.Handle("POST /v1/games/{id}/use", h.authed(h.useItem))
	mux.Handle("POST /v1/games/{id}/combat/start", h.authed(h.startCombat))
	mux.Handle("POST /v1/games/{id}/combat/round", h.authed(h.combatRound))
	mux.Handle("POST /v1/games/{id}/choices", h.authed(h.makeChoice))
	mux.Handle("POST /v1/games/{id}/roll", h.authed(h.rollDice))
	mux.Handle("POST /v1/games/{id}/check", h.authed(h.checkChoice))
	mux.Handle("POST /v1/games/{id}/city/upgrade", h.authed(h.upgradeSettlement))
	mux.Handle("POST /v1/games/{id}/city/construct", h.authed(h.constructBuilding))
	mux.Handle("POST /v1/games/{id}/merchant/open", h.authed(h.openMerchant))
	mux.Handle("POST /v1/games/{id}/merchant/purchase", h.authed(h.purchaseItem))
	mux.Handle("POST /v1/games/{id}/event", h.authed(h.randomEvent))
	mux.Handle("POST /v1/games/{id}/scene/request", h.authed(h.requestScene))
	mux.Handle("POST /v1/games/{id}/scene/complete", h.authed(h.completeScene))
	mux.Handle("GET /v1/games/{id}/telemetry", h.authed(h.sessionTelemetry))
	mux.Handle("GET /v1/save", h.authed(h.exportSave))
	mux.Handle("POST /v1/load", h.authed(h.importSave))

	return httpx.Chain(mux, httpx.RequestID(), httpx.RecoverPanic())
}

func (h *Handler) authed(fn http.HandlerFunc) http.Handler {
	return h.issuer.Middleware(fn)
}

// player extracts the authenticated player context. The auth middleware
// guarantees it is present on every authed route.
func player(r *http.Request) string {
	playerContextID, _ := auth.PlayerContextID(r.Context())
	return playerContextID
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type contextResponse struct {
	PlayerContextID string `json:"playerContextId"`
	Token           string `json:"token"`
}

// createContext mints an anonymous player context and its bearer token. No
// registration step exists; possession of the token is the identity.
func (h *Handler) createContext(w http.ResponseWriter, _ *http.Request) {
	playerContextID, err := h.idGen()
	if err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInternal, "generate player context id", err))
		return
	}
	token, err := h.issuer.Issue(playerContextID)
	if err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInternal, "issue context token", err))
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, contextResponse{
		PlayerContextID: playerContextID,
		Token:           token,
	})
}

func (h *Handler) listRaces(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"races": h.service.ListRaces()})
}

type createGameRequest struct {
	RaceName string `json:"raceName"`
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session, err := h.service.StartGame(r.Context(), player(r), req.RaceName)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, sessionResponse(session))
}

func (h *Handler) activeGame(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetActiveSession(r.Context(), player(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), player(r), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *Handler) abandonGame(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AbandonGame(r.Context(), player(r)); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type itemIndexRequest struct {
	ItemIndex int `json:"itemIndex"`
}

func (h *Handler) equipItem(w http.ResponseWriter, r *http.Request) {
	var req itemIndexRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session, equipped, err := h.service.EquipItem(r.Context(), player(r), r.PathValue("id"), req.ItemIndex)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"session":  sessionResponse(session),
		"equipped": equipped,
	})
}

func (h *Handler) useItem(w http.ResponseWriter, r *http.Request) {
	var req itemIndexRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session, message, err := h.service.UseItem(r.Context(), player(r), r.PathValue("id"), req.ItemIndex)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"session": sessionResponse(session),
		"message": message,
	})
}

type startCombatRequest struct {
	Enemies []domain.Enemy `json:"enemies"`
}

func (h *Handler) startCombat(w http.ResponseWriter, r *http.Request) {
	var req startCombatRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session, err := h.service.StartCombat(r.Context(), player(r), r.PathValue("id"), req.Enemies)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse(session))
}

type combatRoundRequest struct {
	Action      domain.CombatAction `json:"action"`
	TargetIndex int                 `json:"targetIndex"`
}

func (h *Handler) combatRound(w http.ResponseWriter, r *http.Request) {
	var req combatRoundRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session, result, err := h.service.ResolveCombatRound(r.Context(), player(r), r.PathValue("id"), req.Action, req.TargetIndex)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"session": sessionResponse(session),
		"result":  result,
	})
}

type makeChoiceRequest struct {
	ChoiceIndex int                  `json:"choiceIndex"`
	DiceResult  *service.DiceOutcome `json:"diceResult"`
}

func (h *Handler) makeChoice(w http.ResponseWriter, r *http.Request) {
	var req makeChoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session, result, err := h.service.MakeChoice(r.Context(), player(r), r.PathValue("id"), req.ChoiceIndex, req.DiceResult)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"session": sessionResponse(session),
		"result":  result,
	})
}

type rollDiceRequest struct {
	DiceType     string `json:"diceType"`
	Modifier     int    `json:"modifier"`
	TargetNumber int    `json:"targetNumber"`
}

func (h *Handler) rollDice(w http.ResponseWriter, r *http.Request) {
	var req rollDiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	roll, err := h.service.RollDice(r.Context(), player(r), r.PathValue("id"), req.DiceType, req.Modifier, req.TargetNumber)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, roll)
}

type checkChoiceRequest struct {
	ChoiceText string `json:"choiceText"`
}

func (h *Handler) checkChoice(w http.ResponseWriter, r *http.Request) {
	var req checkChoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	check, modifier, err := h.service.CheckForChoice(r.Context(), player(r), r.PathValue("id"), req.ChoiceText)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"check":    check,
		"modifier": modifier,
	})
}

func (h *Handler) upgradeSettlement(w http.ResponseWriter, r *http.Request) {
	session, newTier, err := h.service.UpgradeSettlement(r.Context(), player(r), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"session": sessionResponse(session),
		"newTier": newTier,
	})
}

type constructBuildingRequest struct {
	BuildingType string `json:"buildingType"`
}

func (h *Handler) constructBuilding(w http.ResponseWriter, r *http.Request) {
	var req constructBuildingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session, err := h.service.ConstructBuilding(r.Context(), player(r), r.PathValue("id"), req.BuildingType)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *Handler) openMerchant(w http.ResponseWriter, r *http.Request) {
	session, stock, err := h.service.OpenMerchant(r.Context(), player(r), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"session": sessionResponse(session),
		"stock":   stock,
	})
}

func (h *Handler) purchaseItem(w http.ResponseWriter, r *http.Request) {
	var req itemIndexRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session, item, err := h.service.PurchaseItem(r.Context(), player(r), r.PathValue("id"), req.ItemIndex)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"session": sessionResponse(session),
		"item":    item,
	})
}

func (h *Handler) randomEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.RandomEvent(r.Context(), player(r), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, event)
}

type requestSceneRequest struct {
	PlayerChoice  string `json:"playerChoice"`
	ChoiceSuccess *bool  `json:"choiceSuccess"`
}

func (h *Handler) requestScene(w http.ResponseWriter, r *http.Request) {
	var req requestSceneRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session, request, err := h.service.RequestScene(r.Context(), player(r), r.PathValue("id"), req.PlayerChoice, req.ChoiceSuccess)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"session": sessionResponse(session),
		"request": request,
	})
}

type completeSceneRequest struct {
	RequestID string          `json:"requestId"`
	Scene     string          `json:"scene"`
	Choices   []domain.Choice `json:"choices"`
}

func (h *Handler) completeScene(w http.ResponseWriter, r *http.Request) {
	var req completeSceneRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	scene := narrative.Scene{Text: req.Scene, Choices: req.Choices}
	session, err := h.service.CompleteScene(r.Context(), player(r), r.PathValue("id"), req.RequestID, scene)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *Handler) sessionTelemetry(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.SessionTelemetry(r.Context(), player(r), r.PathValue("id"), 0)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) exportSave(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.ExportSave(r.Context(), player(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) importSave(w http.ResponseWriter, r *http.Request) {
	var doc service.SaveDocument
	if err := httpx.DecodeJSON(r, &doc); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session, err := h.service.ImportSave(r.Context(), player(r), doc)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, sessionResponse(session))
}

// sessionView is the wire form of a session document.
type sessionView struct {
	ID        string           `json:"id"`
	Active    bool             `json:"active"`
	GameState domain.GameState `json:"gameState"`
	CreatedAt int64            `json:"createdAt"`
	UpdatedAt int64            `json:"updatedAt"`
}

func sessionResponse(session storage.Session) sessionView {
	return sessionView{
		ID:        session.ID,
		Active:    session.Active,
		GameState: session.GameState,
		CreatedAt: session.CreatedAt.UnixMilli(),
		UpdatedAt: session.UpdatedAt.UnixMilli(),
	}
}
