package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"longevityhub/internal/config"
	"longevityhub/internal/model"
	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{Secret: "test-secret", CookieName: "lh_session", TokenDays: 7},
		CORS: config.CORSConfig{Origins: []string{"http://localhost:5173"}},
	}

	authSvc := service.NewAuthService(db)
	mealSvc := service.NewMealService(db)
	workoutSvc := service.NewWorkoutService(db)
	sleepSvc := service.NewSleepService(db)
	wearableSvc := service.NewWearableService(db)
	goalSvc := service.NewGoalService(db)
	catalogSvc := service.NewCatalogService(db)
	adminSvc := service.NewAdminService(db)
	analyticsSvc := service.NewAnalyticsService(
		service.NewMetricsStore(db), service.NewScoreSource(db), goalSvc)
	exportSvc := service.NewExportService(mealSvc, workoutSvc, sleepSvc, wearableSvc)
	chatSvc := service.NewChatService(service.NewLLMClient("", "", ""), analyticsSvc)

	r := SetupRouter(cfg, Handlers{
		Auth:      NewAuthHandler(authSvc, cfg.Auth),
		Meals:     NewMealHandler(mealSvc),
		Workouts:  NewWorkoutHandler(workoutSvc),
		Sleep:     NewSleepHandler(sleepSvc),
		Wearables: NewWearableHandler(wearableSvc),
		Goals:     NewGoalHandler(goalSvc),
		Foods:     NewFoodHandler(catalogSvc),
		Analytics: NewAnalyticsHandler(analyticsSvc, exportSvc),
		Chat:      NewChatHandler(chatSvc),
		Admin:     NewAdminHandler(adminSvc, catalogSvc),
	})
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func register(t *testing.T, r *gin.Engine, email string) *http.Cookie {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": email, "password": "hunter2hunter2", "name": "Test User", "timezone": "UTC",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "lh_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("register did not set session cookie")
	return nil
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestUnauthenticatedRequestGetsErrorEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/meals", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	body := decodeBody(t, w)
	if body["ok"] != false || body["error"] != "unauthorized" {
		t.Fatalf("body = %v, want ok:false error:unauthorized", body)
	}
}

func TestRegisterSetsCookieAndMeReturnsUser(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := register(t, r, "alice@example.com")

	if !cookie.HttpOnly {
		t.Fatal("session cookie must be http-only")
	}

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	user, _ := body["user"].(map[string]any)
	if user == nil || user["email"] != "alice@example.com" {
		t.Fatalf("me body = %v, want registered user", body)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash leaked in response")
	}
}

func TestDuplicateRegistrationIsConflict(t *testing.T) {
	r, _ := newTestRouter(t)
	register(t, r, "bob@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "bob@example.com", "password": "hunter2hunter2", "name": "Bob",
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	body := decodeBody(t, w)
	if body["ok"] != false {
		t.Fatalf("body = %v, want ok:false", body)
	}
}

func TestLoginSuccessAlwaysCarriesSessionCookie(t *testing.T) {
	r, _ := newTestRouter(t)
	register(t, r, "peggy@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "peggy@example.com", "password": "hunter2hunter2",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "lh_session" && c.Value != "" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("200 login response without a session cookie")
	}
	body := decodeBody(t, w)
	if body["ok"] != true {
		t.Fatalf("body = %v, want ok:true", body)
	}
}

func TestLoginWithBadPasswordIsUnauthorized(t *testing.T) {
	r, _ := newTestRouter(t)
	register(t, r, "carol@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "carol@example.com", "password": "wrong-password",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAdminRoutesForbiddenForMembers(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := register(t, r, "dave@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/admin/users", nil, cookie)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	body := decodeBody(t, w)
	if body["ok"] != false || body["error"] != "forbidden" {
		t.Fatalf("body = %v, want ok:false error:forbidden", body)
	}
}

func TestAdminRoleCanListUsers(t *testing.T) {
	r, db := newTestRouter(t)
	register(t, r, "eve@example.com")
	db.Model(&model.User{}).Where("email = ?", "eve@example.com").Update("role", model.RoleAdmin)

	// re-login so the session token carries the new role
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "eve@example.com", "password": "hunter2hunter2",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d", w.Code)
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "lh_session" {
			cookie = c
		}
	}

	w = doJSON(t, r, http.MethodGet, "/api/admin/users", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestMealLifecycleOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := register(t, r, "frank@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/meals", gin.H{
		"meal_type": "lunch",
		"ate_at":    "2026-03-15",
		"items": []gin.H{
			{"name": "chicken breast", "quantity": 150, "calories": 240, "protein_g": 45},
		},
	}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/meals?range=all", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	body := decodeBody(t, w)
	rows, _ := body["rows"].([]any)
	if len(rows) != 1 {
		t.Fatalf("listed %d meals, want 1", len(rows))
	}
}

func TestMealCreateWithoutItemsIsBadRequest(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := register(t, r, "grace@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/meals", gin.H{
		"meal_type": "snack", "ate_at": "2026-03-15", "items": []gin.H{},
	}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["ok"] != false {
		t.Fatalf("body = %v, want ok:false", body)
	}
}

func TestUnknownMethodGetsEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := register(t, r, "heidi@example.com")

	w := doJSON(t, r, http.MethodPatch, "/api/meals", nil, cookie)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
	body := decodeBody(t, w)
	if body["ok"] != false || body["error"] != "method_not_allowed" {
		t.Fatalf("body = %v, want method_not_allowed envelope", body)
	}
}

func TestGoalEndpointsRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := register(t, r, "ivan@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/goals", gin.H{
		"goal_type": "steps", "target_value": 10000,
	}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("set goal status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/goals", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("list goals status = %d", w.Code)
	}
	body := decodeBody(t, w)
	rows, _ := body["rows"].([]any)
	if len(rows) != 1 {
		t.Fatalf("listed %d goals, want 1", len(rows))
	}
}
