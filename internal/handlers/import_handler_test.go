package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"okr-tracker-api/internal/importer"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func areasWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("areas")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("areas", "A1", &[]any{"id", "name"}))
	require.NoError(t, f.SetSheetRow("areas", "A2", &[]any{7, "Ops"}))
	require.NoError(t, f.SetSheetRow("areas", "A3", &[]any{8, "Marketing"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImport_Multipart(t *testing.T) {
	env := newTestEnv(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "okrs.xlsx")
	require.NoError(t, err)
	_, err = part.Write(areasWorkbook(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.managerToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report importer.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Equal(t, 2, report.Imported["areas"])

	areas, err := env.svc.Areas(t.Context())
	require.NoError(t, err)
	require.Len(t, areas, 3)
}

func TestImport_RawBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(areasWorkbook(t)))
	req.Header.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	req.Header.Set("Authorization", "Bearer "+env.managerToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestImport_Rejected(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewBufferString("not a workbook"))
	req.Header.Set("Authorization", "Bearer "+env.managerToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(areasWorkbook(t)))
	req.Header.Set("Authorization", "Bearer "+env.employeeToken)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
