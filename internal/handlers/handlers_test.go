package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"okr-tracker-api/internal/assistant"
	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/middleware"
	"okr-tracker-api/internal/models"
	"okr-tracker-api/internal/realtime"
	"okr-tracker-api/internal/service"
	"okr-tracker-api/internal/store"
	"okr-tracker-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	answer string
	last   assistant.CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req assistant.CompletionRequest) (string, error) {
	s.last = req
	return s.answer, nil
}

type testEnv struct {
	store     *store.GormStore
	svc       *service.Service
	hub       *realtime.Hub
	handler   *Handler
	router    *gin.Engine
	completer *stubCompleter

	managerToken  string
	employeeToken string
	otherToken    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	st := store.NewGormStore(db)
	ctx := context.Background()

	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	require.NoError(t, st.InsertArea(ctx, &models.Area{Name: "Sales"}))
	employees := []models.Employee{
		{ID: 1, Name: "Marta", Email: "manager@gmail.com", PasswordHash: hash, Role: models.RoleManager, Area: "Sales"},
		{ID: 12, Name: "Pablo", Email: "empleado@gmail.com", PasswordHash: hash, Role: models.RoleEmployee, Area: "Sales"},
		{ID: 13, Name: "Lucia", Email: "lucia@gmail.com", PasswordHash: hash, Role: models.RoleEmployee, Area: "Sales"},
	}
	for i := range employees {
		require.NoError(t, st.InsertEmployee(ctx, &employees[i]))
	}

	tokens, err := auth.NewTokens(auth.TokenConfig{Secret: []byte("test-secret"), Issuer: "okr", Audience: "clients", TTL: time.Hour})
	require.NoError(t, err)
	sessions := auth.NewSessions(tokens)

	hub := realtime.NewHub(nil)
	completer := &stubCompleter{answer: "Focus on the deals closing this month."}
	svc := service.New(st, service.Options{
		SnapshotTTL: time.Minute,
		Sessions:    sessions,
		Publisher:   realtime.NewLocalPublisher(hub),
		Assistant:   assistant.New(completer, nil),
	})
	h := New(svc, hub, nil)

	r := gin.New()
	api := r.Group("/api", middleware.JWTAuth(sessions))
	api.GET("/me", h.Me)
	api.POST("/objectives", h.CreateObjective)
	api.GET("/objectives", h.ListObjectives)
	api.GET("/objectives/:id/tasks", h.ListTasks)
	api.POST("/objectives/:id/tasks", h.CreateTask)
	api.PATCH("/tasks/:id/status", h.UpdateTaskStatus)
	api.DELETE("/tasks/:id", h.DeleteTask)
	api.GET("/years", h.Years)
	api.GET("/team", h.Team)
	api.GET("/team/:id", h.TeamMember)
	api.GET("/employees", h.ListEmployees)
	api.POST("/employees", h.CreateEmployee)
	api.GET("/areas", h.ListAreas)
	api.POST("/areas", h.CreateArea)
	api.POST("/import", h.Import)
	api.POST("/assistant", h.Ask)
	api.GET("/assistant/messages", h.AssistantMessages)
	r.GET("/ws", middleware.JWTAuth(sessions), h.WebSocket)

	token := func(e models.Employee) string {
		s, _, err := tokens.Generate(&e)
		require.NoError(t, err)
		return s
	}
	return &testEnv{
		store:         st,
		svc:           svc,
		hub:           hub,
		handler:       h,
		router:        r,
		completer:     completer,
		managerToken:  token(employees[0]),
		employeeToken: token(employees[1]),
		otherToken:    token(employees[2]),
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// corporateWithPersonal creates a corporate objective and a personal one
// owned by employee 12, returning the personal objective id.
func (e *testEnv) corporateWithPersonal(t *testing.T) int64 {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/objectives", e.managerToken, gin.H{"name": "Grow Revenue", "type": "Organization", "year": 2025})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var corp models.Objective
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &corp))

	w = e.do(t, http.MethodPost, "/api/objectives", e.employeeToken, gin.H{
		"name": "Close deals", "description": "Q3", "parentId": corp.ID, "year": 2025,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var personal models.Objective
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &personal))
	return personal.ID
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/me", env.employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me models.Employee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, int64(12), me.ID)
	require.Empty(t, me.PasswordHash)
}

func TestCreateObjective_InvalidBody(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/objectives", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+env.managerToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListObjectives_EmployeeSeesOnlyOwn(t *testing.T) {
	env := newTestEnv(t)
	env.corporateWithPersonal(t)

	w := env.do(t, http.MethodGet, "/api/objectives?year=2025&type=Employee", env.otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Count)

	w = env.do(t, http.MethodGet, "/api/objectives?year=2025&type=Employee", env.managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
}

func TestYears(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/years", env.employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Years []int `json:"years"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.Years, time.Now().Year())
}

func TestTeamMember(t *testing.T) {
	env := newTestEnv(t)
	env.corporateWithPersonal(t)

	w := env.do(t, http.MethodGet, "/api/team/12?year=2025", env.managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "Close deals")

	w = env.do(t, http.MethodGet, "/api/team/99?year=2025", env.managerToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/team?year=2025&area=sales", env.managerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var team struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &team))
	require.Equal(t, 3, team.Count)
}
