package menu

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/menulens/core/internal/modules/extraction"
	"github.com/menulens/core/internal/pkg/jwt"
	"github.com/menulens/core/internal/pkg/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api")
	NewHandler(svc, nil).RegisterRoutes(api)
	return engine
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.Sign(userID, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func multipartPhoto(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "menu.jpg")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	store := &stubStorage{credits: 50, menuID: "menu-1"}
	extractor := &stubExtractor{items: []extraction.ItemExtraction{{Name: "Pizza"}}}
	enricher := &stubEnricher{byName: map[string][]string{
		"Pizza": {"https://img.test/pizza-1.jpg"},
	}}
	router := newTestRouter(t, NewService(store, extractor, enricher, nil, nil, nil))

	body, contentType := multipartPhoto(t, "file", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/menu/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "user-1"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ProcessedMenuResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "menu-1", resp.MenuID)
	assert.Equal(t, 40, resp.CreditsRemaining)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Pizza", resp.Items[0].ItemName)
	assert.Equal(t, []string{"https://img.test/pizza-1.jpg"}, resp.Items[0].Images)
}

func TestUploadEndpointRequiresAuth(t *testing.T) {
	router := newTestRouter(t, NewService(&stubStorage{}, &stubExtractor{}, &stubEnricher{}, nil, nil, nil))

	body, contentType := multipartPhoto(t, "file", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/menu/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadEndpointInsufficientCredits(t *testing.T) {
	store := &stubStorage{credits: CostPerMenu - 1}
	router := newTestRouter(t, NewService(store, &stubExtractor{}, &stubEnricher{}, nil, nil, nil))

	body, contentType := multipartPhoto(t, "file", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/menu/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "user-1"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	var errBody struct {
		OK      int    `json:"ok"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, 0, errBody.OK)
	assert.Equal(t, http.StatusPaymentRequired, errBody.Code)
}

func TestUploadEndpointRejectsMissingFile(t *testing.T) {
	router := newTestRouter(t, NewService(&stubStorage{credits: 50}, &stubExtractor{}, &stubEnricher{}, nil, nil, nil))

	body, contentType := multipartPhoto(t, "photo", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/menu/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "user-1"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUploadsEndpoint(t *testing.T) {
	store := &stubStorage{credits: 50, menuID: "menu-1"}
	extractor := &stubExtractor{items: []extraction.ItemExtraction{{Name: "Pizza"}}}
	enricher := &stubEnricher{}
	tracker := newTestTracker(t)
	router := newTestRouter(t, NewService(store, extractor, enricher, tracker, nil, nil))

	body, contentType := multipartPhoto(t, "file", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/menu/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "user-1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	uploadID := rec.Header().Get("X-Upload-Id")
	require.NotEmpty(t, uploadID)

	req = httptest.NewRequest(http.MethodGet, "/api/menu/uploads", nil)
	req.Header.Set("Authorization", bearerToken(t, "user-1"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data []progress.Upload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, uploadID, resp.Data[0].ID)
	assert.Equal(t, progress.StageDone, resp.Data[0].Stage)

	req = httptest.NewRequest(http.MethodGet, "/api/menu/uploads", nil)
	req.Header.Set("Authorization", bearerToken(t, "user-2"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestGetMenuEndpointNotFound(t *testing.T) {
	router := newTestRouter(t, NewService(&stubStorage{}, &stubExtractor{}, &stubEnricher{}, nil, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/menu/other-users-menu", nil)
	req.Header.Set("Authorization", bearerToken(t, "user-1"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
