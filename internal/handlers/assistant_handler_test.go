package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"okr-tracker-api/internal/assistant"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestAsk(t *testing.T) {
	env := newTestEnv(t)
	env.corporateWithPersonal(t)

	w := env.do(t, http.MethodPost, "/api/assistant", env.employeeToken, gin.H{"prompt": "What should I do next?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Answer string `json:"answer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Focus on the deals closing this month.", resp.Answer)
	require.Contains(t, env.completer.last.System, "Close deals")
	require.Equal(t, "What should I do next?", env.completer.last.Prompt)

	w = env.do(t, http.MethodGet, "/api/assistant/messages", env.employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Messages []assistant.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Messages, 3)
	require.Equal(t, "Hi Pablo, how can I help you today?", history.Messages[0].Content)
	require.Equal(t, assistant.RoleUser, history.Messages[1].Role)
	require.Equal(t, assistant.RoleAssistant, history.Messages[2].Role)
}

func TestAsk_EmptyPromptGetsHint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/assistant", env.employeeToken, gin.H{"prompt": "   "})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), assistant.PromptHint)
	require.Empty(t, env.completer.last.Prompt)
}
