package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/kingdoms-of-fate/internal/auth"
	"github.com/louisbranch/kingdoms-of-fate/internal/catalog"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/service"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

type memorySessionStore struct {
	sessions map[string]storage.Session
	active   map[string]string
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{
		sessions: map[string]storage.Session{},
		active:   map[string]string{},
	}
}

func (m *memorySessionStore) PutSession(_ context.Context, session storage.Session) error {
	m.sessions[session.ID] = session
	if session.Active {
		m.active[session.PlayerContextID] = session.ID
	} else if m.active[session.PlayerContextID] == session.ID {
		delete(m.active, session.PlayerContextID)
	}
	return nil
}

func (m *memorySessionStore) GetSession(_ context.Context, id string) (storage.Session, error) {
	session, ok := m.sessions[id]
	if !ok {
		return storage.Session{}, storage.ErrNotFound
	}
	return session, nil
}

func (m *memorySessionStore) GetActiveSession(_ context.Context, playerContextID string) (storage.Session, error) {
	id, ok := m.active[playerContextID]
	if !ok {
		return storage.Session{}, storage.ErrNotFound
	}
	return m.sessions[id], nil
}

func (m *memorySessionStore) DeactivateSessions(_ context.Context, playerContextID string) error {
	if id, ok := m.active[playerContextID]; ok {
		session := m.sessions[id]
		session.Active = false
		m.sessions[id] = session
		delete(m.active, playerContextID)
	}
	return nil
}

type apiHarness struct {
	handler http.Handler
	issuer  *auth.Issuer
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	content, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	counter := 0
	idGen := func() (string, error) {
		counter++
		return fmt.Sprintf("id-%d", counter), nil
	}

	svc, err := service.New(newMemorySessionStore(), telemetry.NewEmitter(nil), content,
		service.WithClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }),
		service.WithIDGenerator(idGen),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	issuer, err := auth.NewIssuer([]byte("test-signing-key"), "kingdoms-of-fate")
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	handler := New(svc, issuer, WithIDGenerator(idGen))
	return &apiHarness{handler: handler.Routes(), issuer: issuer}
}

// do sends a JSON request and decodes the response body into out when out is
// non-nil.
func (h *apiHarness) do(t *testing.T, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response (%d): %v\n%s", method, path, rec.Code, err, rec.Body.String())
		}
	}
	return rec
}

func (h *apiHarness) newContext(t *testing.T) (string, string) {
	t.Helper()
	var resp struct {
		PlayerContextID string `json:"playerContextId"`
		Token           string `json:"token"`
	}
	rec := h.do(t, http.MethodPost, "/v1/contexts", "", nil, &resp)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create context status = %d", rec.Code)
	}
	if resp.PlayerContextID == "" || resp.Token == "" {
		t.Fatalf("context response = %+v", resp)
	}
	return resp.PlayerContextID, resp.Token
}

type sessionBody struct {
	ID        string           `json:"id"`
	Active    bool             `json:"active"`
	GameState domain.GameState `json:"gameState"`
}

func (h *apiHarness) newGame(t *testing.T, token, raceName string) sessionBody {
	t.Helper()
	var session sessionBody
	rec := h.do(t, http.MethodPost, "/v1/games", token, map[string]string{"raceName": raceName}, &session)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create game status = %d: %s", rec.Code, rec.Body.String())
	}
	return session
}

func TestHealthz(t *testing.T) {
	h := newAPIHarness(t)
	rec := h.do(t, http.MethodGet, "/healthz", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGameRoutesRequireToken(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/v1/games", "", map[string]string{"raceName": "Human"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = h.do(t, http.MethodGet, "/v1/games/active", "not-a-token", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for garbage token", rec.Code)
	}
}

func TestRacesListedWithoutAuth(t *testing.T) {
	h := newAPIHarness(t)

	var resp struct {
		Races []domain.RaceSpec `json:"races"`
	}
	rec := h.do(t, http.MethodGet, "/v1/races", "", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(resp.Races) != 8 {
		t.Fatalf("races = %d, want 8", len(resp.Races))
	}
}

func TestGameLifecycle(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)

	session := h.newGame(t, token, "Elf")
	if !session.Active || session.GameState.Race.Name != "Elf" {
		t.Fatalf("session = %+v", session)
	}

	var active sessionBody
	rec := h.do(t, http.MethodGet, "/v1/games/active", token, nil, &active)
	if rec.Code != http.StatusOK || active.ID != session.ID {
		t.Fatalf("active = %+v (status %d)", active, rec.Code)
	}

	var fetched sessionBody
	rec = h.do(t, http.MethodGet, "/v1/games/"+session.ID, token, nil, &fetched)
	if rec.Code != http.StatusOK || fetched.ID != session.ID {
		t.Fatalf("fetched = %+v (status %d)", fetched, rec.Code)
	}

	rec = h.do(t, http.MethodDelete, "/v1/games/active", token, nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("abandon status = %d", rec.Code)
	}

	rec = h.do(t, http.MethodGet, "/v1/games/active", token, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 after abandon", rec.Code)
	}
}

func TestCreateGameUnknownRace(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)

	rec := h.do(t, http.MethodPost, "/v1/games", token, map[string]string{"raceName": "Gnome"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestForeignSessionReadsAsMissing(t *testing.T) {
	h := newAPIHarness(t)
	_, ownerToken := h.newContext(t)
	session := h.newGame(t, ownerToken, "Human")

	_, otherToken := h.newContext(t)
	rec := h.do(t, http.MethodGet, "/v1/games/"+session.ID, otherToken, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for foreign session", rec.Code)
	}
}

func TestEquipItemRoute(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	session := h.newGame(t, token, "Human")

	var resp struct {
		Session  sessionBody `json:"session"`
		Equipped bool        `json:"equipped"`
	}
	rec := h.do(t, http.MethodPost, "/v1/games/"+session.ID+"/equip", token, map[string]int{"itemIndex": 0}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !resp.Equipped || !resp.Session.GameState.Inventory[0].Equipped {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestCombatRoutes(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	session := h.newGame(t, token, "Orc")
	base := "/v1/games/" + session.ID

	// A weak, durable enemy keeps the fight going regardless of the rolls.
	roster := []domain.Enemy{{Name: "Giant Rat", Health: 200, MaxHealth: 200, Strength: 1}}
	var started sessionBody
	rec := h.do(t, http.MethodPost, base+"/combat/start", token, map[string]any{"enemies": roster}, &started)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}
	if !started.GameState.InCombat || started.GameState.CombatState.Enemies[0].Name != "Giant Rat" {
		t.Fatalf("combat state = %+v", started.GameState.CombatState)
	}

	var round struct {
		Session sessionBody        `json:"session"`
		Result  domain.RoundResult `json:"result"`
	}
	rec = h.do(t, http.MethodPost, base+"/combat/round", token,
		map[string]any{"action": "attack", "targetIndex": 0}, &round)
	if rec.Code != http.StatusOK {
		t.Fatalf("round status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(round.Result.Log) == 0 {
		t.Fatal("round log should not be empty")
	}

	rec = h.do(t, http.MethodPost, base+"/combat/start", token, nil, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 while already in combat", rec.Code)
	}
}

func TestRollDiceRoute(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	session := h.newGame(t, token, "Human")

	var roll domain.DiceRoll
	rec := h.do(t, http.MethodPost, "/v1/games/"+session.ID+"/roll", token,
		map[string]any{"diceType": "d20", "modifier": 2, "targetNumber": 10}, &roll)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if roll.Roll < 1 || roll.Roll > 20 || roll.Total != roll.Roll+2 || roll.Success == nil {
		t.Fatalf("roll = %+v", roll)
	}

	rec = h.do(t, http.MethodPost, "/v1/games/"+session.ID+"/roll", token,
		map[string]any{"diceType": "d0"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for invalid dice type", rec.Code)
	}
}

func TestCheckChoiceRoute(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	session := h.newGame(t, token, "Orc")

	var resp struct {
		Check    domain.DiceCheck `json:"check"`
		Modifier int              `json:"modifier"`
	}
	rec := h.do(t, http.MethodPost, "/v1/games/"+session.ID+"/check", token,
		map[string]string{"choiceText": "Fight the bandits"}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Check.Stat != domain.StatStrength || resp.Check.TargetNumber != 12 {
		t.Fatalf("check = %+v", resp.Check)
	}
}

func TestCityRoutes(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	session := h.newGame(t, token, "Human")
	base := "/v1/games/" + session.ID

	rec := h.do(t, http.MethodPost, base+"/city/upgrade", token, nil, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 when gold is short", rec.Code)
	}

	rec = h.do(t, http.MethodPost, base+"/city/construct", token,
		map[string]string{"buildingType": "Castle"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown building", rec.Code)
	}
}

func TestMerchantRoutes(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	session := h.newGame(t, token, "Human")
	base := "/v1/games/" + session.ID

	var opened struct {
		Stock []domain.MerchantItem `json:"stock"`
	}
	rec := h.do(t, http.MethodPost, base+"/merchant/open", token, nil, &opened)
	if rec.Code != http.StatusOK || len(opened.Stock) != 5 {
		t.Fatalf("open status = %d, stock = %d", rec.Code, len(opened.Stock))
	}

	var purchased struct {
		Session sessionBody         `json:"session"`
		Item    domain.MerchantItem `json:"item"`
	}
	rec = h.do(t, http.MethodPost, base+"/merchant/purchase", token, map[string]int{"itemIndex": 4}, &purchased)
	if rec.Code != http.StatusOK {
		t.Fatalf("purchase status = %d: %s", rec.Code, rec.Body.String())
	}
	if purchased.Item.Name != "Health Potion" || purchased.Session.GameState.Currency != 30 {
		t.Fatalf("purchase = %+v", purchased)
	}
}

func TestSceneRoutes(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	session := h.newGame(t, token, "Human")
	base := "/v1/games/" + session.ID

	var requested struct {
		Request struct {
			RequestID string `json:"requestId"`
			Prompt    string `json:"prompt"`
		} `json:"request"`
	}
	rec := h.do(t, http.MethodPost, base+"/scene/request", token, nil, &requested)
	if rec.Code != http.StatusOK || requested.Request.RequestID == "" {
		t.Fatalf("request status = %d: %s", rec.Code, rec.Body.String())
	}

	var completed sessionBody
	rec = h.do(t, http.MethodPost, base+"/scene/complete", token, map[string]any{
		"requestId": requested.Request.RequestID,
		"scene":     "The gates open onto a muddy square.",
		"choices": []map[string]string{
			{"text": "Visit the market"},
			{"text": "Head to the tavern"},
		},
	}, &completed)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d: %s", rec.Code, rec.Body.String())
	}
	if completed.GameState.Story.CurrentScene != "The gates open onto a muddy square." {
		t.Fatalf("scene = %q", completed.GameState.Story.CurrentScene)
	}
	if len(completed.GameState.Story.Choices) != 2 {
		t.Fatalf("choices = %d", len(completed.GameState.Story.Choices))
	}

	rec = h.do(t, http.MethodPost, base+"/scene/complete", token,
		map[string]string{"requestId": "stale", "scene": "x"}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 with no pending request", rec.Code)
	}
}

func TestChoiceRoute(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	session := h.newGame(t, token, "Human")
	base := "/v1/games/" + session.ID

	// Seed choices through the scene protocol.
	var requested struct {
		Request struct {
			RequestID string `json:"requestId"`
		} `json:"request"`
	}
	h.do(t, http.MethodPost, base+"/scene/request", token, nil, &requested)
	rec := h.do(t, http.MethodPost, base+"/scene/complete", token, map[string]any{
		"requestId": requested.Request.RequestID,
		"scene":     "Raiders block the road.",
		"choices":   []map[string]string{{"text": "Fight the raiders"}},
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed scene status = %d", rec.Code)
	}

	var resp struct {
		Session sessionBody `json:"session"`
		Result  struct {
			ChoiceText     string          `json:"choiceText"`
			Effects        []domain.Effect `json:"effects"`
			SceneRequestID string          `json:"sceneRequestId"`
		} `json:"result"`
	}
	rec = h.do(t, http.MethodPost, base+"/choices", token, map[string]any{
		"choiceIndex": 0,
		"diceResult":  map[string]any{"roll": 14, "total": 16, "success": true},
	}, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("choice status = %d: %s", rec.Code, rec.Body.String())
	}
	if resp.Result.ChoiceText != "Fight the raiders" || len(resp.Result.Effects) != 3 {
		t.Fatalf("result = %+v", resp.Result)
	}
	if resp.Session.GameState.Currency != 65 {
		t.Fatalf("currency = %d, want 65", resp.Session.GameState.Currency)
	}
	if resp.Result.SceneRequestID == "" {
		t.Fatal("choice should open a scene request")
	}
}

func TestRandomEventRoute(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	session := h.newGame(t, token, "Human")

	var event catalog.Event
	rec := h.do(t, http.MethodPost, "/v1/games/"+session.ID+"/event", token, nil, &event)
	if rec.Code != http.StatusOK || event.Description == "" {
		t.Fatalf("status = %d, event = %+v", rec.Code, event)
	}
}

func TestSaveRoutes(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	h.newGame(t, token, "Dwarf")

	var doc service.SaveDocument
	rec := h.do(t, http.MethodGet, "/v1/save", token, nil, &doc)
	if rec.Code != http.StatusOK || doc.Version != service.SaveVersion {
		t.Fatalf("export status = %d, doc = %+v", rec.Code, doc)
	}

	_, otherToken := h.newContext(t)
	var imported sessionBody
	rec = h.do(t, http.MethodPost, "/v1/load", otherToken, doc, &imported)
	if rec.Code != http.StatusCreated {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	if imported.GameState.Race.Name != "Dwarf" || !imported.Active {
		t.Fatalf("imported = %+v", imported)
	}

	doc.Version = "0.9"
	rec = h.do(t, http.MethodPost, "/v1/load", otherToken, doc, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unsupported version", rec.Code)
	}
}

func TestTelemetryRouteWithoutReader(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)
	session := h.newGame(t, token, "Human")

	rec := h.do(t, http.MethodGet, "/v1/games/"+session.ID+"/telemetry", token, nil, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 when telemetry is not configured", rec.Code)
	}
}

func TestMalformedBodyRejected(t *testing.T) {
	h := newAPIHarness(t)
	_, token := h.newContext(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/games", bytes.NewReader([]byte("{nope")))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
