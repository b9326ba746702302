package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/handlers"
	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/service"
	"okr-tracker-api/internal/store"
	"okr-tracker-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	st := store.NewGormStore(db)

	ctx := context.Background()
	managerHash, err := auth.HashPassword("manager123")
	require.NoError(t, err)
	employeeHash, err := auth.HashPassword("emp123")
	require.NoError(t, err)
	require.NoError(t, st.InsertEmployee(ctx, &models.Employee{ID: 1, Name: "Marta", Email: "manager@gmail.com", PasswordHash: managerHash, Role: models.RoleManager, Area: "Sales"}))
	require.NoError(t, st.InsertEmployee(ctx, &models.Employee{ID: 12, Name: "Pablo", Email: "empleado@gmail.com", PasswordHash: employeeHash, Role: models.RoleEmployee, Area: "Sales"}))

	tokens, err := auth.NewTokens(auth.TokenConfig{Secret: []byte("test-secret"), Issuer: "okr-tracker-api", Audience: "okr-tracker-clients", TTL: time.Hour})
	require.NoError(t, err)
	sessions := auth.NewSessions(tokens)

	svc := service.New(st, service.Options{SnapshotTTL: time.Minute, Sessions: sessions})
	return SetupRoutes(Deps{
		Handler:            handlers.New(svc, nil, nil),
		Sessions:           sessions,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		Ready:              map[string]handlers.Pinger{"database": st},
	})
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	r := setupTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReady(t *testing.T) {
	r := setupTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupTestRouter(t)
	doJSON(t, r, http.MethodGet, "/health", "", nil)
	w := doJSON(t, r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "okr_tracker_http_requests_total")
}

func TestCORS(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": "manager@gmail.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"email": "manager@gmail.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	r := setupTestRouter(t)

	for _, path := range []string{"/api/objectives", "/api/progress", "/api/me", "/ws"} {
		w := doJSON(t, r, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestManagerRoutes_ForbiddenForEmployees(t *testing.T) {
	r := setupTestRouter(t)
	token := login(t, r, "empleado@gmail.com", "emp123")

	for _, path := range []string{"/api/team", "/api/employees", "/api/areas"} {
		w := doJSON(t, r, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusForbidden, w.Code, path)
	}
	w := doJSON(t, r, http.MethodPost, "/api/import", token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	r := setupTestRouter(t)
	token := login(t, r, "empleado@gmail.com", "emp123")

	w := doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "empleado@gmail.com")
	require.NotContains(t, w.Body.String(), "password")

	w = doJSON(t, r, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEndToEnd_ObjectiveProgress(t *testing.T) {
	r := setupTestRouter(t)
	managerToken := login(t, r, "manager@gmail.com", "manager123")
	employeeToken := login(t, r, "empleado@gmail.com", "emp123")

	w := doJSON(t, r, http.MethodPost, "/api/objectives", managerToken, gin.H{
		"name": "Grow Revenue", "type": "Organization", "year": 2025,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var corp models.Objective
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &corp))
	require.Equal(t, int64(1), corp.ID)

	w = doJSON(t, r, http.MethodGet, "/api/objectives/corporate", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Grow Revenue")

	// string ids are accepted
	w = doJSON(t, r, http.MethodPost, "/api/objectives", employeeToken, gin.H{
		"name": "Close 10 deals", "description": "Q3 pipeline", "type": "Employee",
		"employeeId": "12", "parentId": "1.0", "year": 2025,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var personal models.Objective
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &personal))
	require.Equal(t, int64(2), personal.ID)
	require.Equal(t, models.ObjectiveNew, personal.Status)

	path := "/api/objectives/2/tasks"
	for _, status := range []string{"Pending", "Doing", "Done"} {
		w = doJSON(t, r, http.MethodPost, path, employeeToken, gin.H{"name": "task " + status, "status": status})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/progress?year=2025", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		Completion float64 `json:"completion"`
		Percent    int     `json:"percent"`
		Objectives []struct {
			ParentName string `json:"parentName"`
		} `json:"objectives"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	require.InDelta(t, 0.5, dash.Completion, 1e-9)
	require.Equal(t, 50, dash.Percent)
	require.Len(t, dash.Objectives, 1)
	require.Equal(t, "Grow Revenue", dash.Objectives[0].ParentName)

	w = doJSON(t, r, http.MethodGet, "/api/team?year=2025", managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Pablo")

	w = doJSON(t, r, http.MethodPatch, "/api/objectives/2/status", employeeToken, gin.H{"status": "Complete"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestObjectiveErrors(t *testing.T) {
	r := setupTestRouter(t)
	employeeToken := login(t, r, "empleado@gmail.com", "emp123")

	// no corporate objective to link to yet
	w := doJSON(t, r, http.MethodPost, "/api/objectives", employeeToken, gin.H{
		"name": "Close 10 deals", "description": "Q3", "type": "Employee", "year": 2025,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), `"field":"parentId"`)

	w = doJSON(t, r, http.MethodPost, "/api/objectives", employeeToken, gin.H{
		"name": "Grow Revenue", "type": "Organization", "year": 2025,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/objectives/99/status", employeeToken, gin.H{"status": "Complete"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/objectives/99", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/objectives/abc", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/progress?year=abc", employeeToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
