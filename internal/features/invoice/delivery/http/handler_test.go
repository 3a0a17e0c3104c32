package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papers-store-backend/internal/common/middleware"
	"papers-store-backend/internal/features/invoice/service"
	"papers-store-backend/internal/utils/telegram"
)

const botToken = "111:INVOICE-token"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Errors())
	api := r.Group("/api")
	api.Use(middleware.TelegramInitData(telegram.NewVerifier(botToken, 0)))
	NewInvoiceHandler(service.NewInvoiceService("papers_bot")).RegisterRoutes(api)
	return r
}

func signedHeader(t *testing.T, userID int64) string {
	t.Helper()
	pairs := map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":` + jsonInt(userID) + `,"first_name":"Ann"}`,
	}
	payload := map[string]string{"auth_date": pairs["auth_date"], "user": pairs["user"], "hash": telegram.Sign(pairs, botToken)}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(b)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func post(r http.Handler, header, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/create-invoice", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set(middleware.InitDataHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateInvoice(t *testing.T) {
	w := post(setupRouter(), signedHeader(t, 123456789), `{"amount":50}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"invoiceUrl":"https://t.me/papers_bot?start=pay_50_123456789"}`, w.Body.String())
}

func TestCreateInvoiceAcceptsAnyNumber(t *testing.T) {
	r := setupRouter()
	header := signedHeader(t, 7)

	tests := []struct{ body, url string }{
		{`{"amount":12.5}`, "https://t.me/papers_bot?start=pay_12.5_7"},
		{`{"amount":-3}`, "https://t.me/papers_bot?start=pay_-3_7"},
		{`{"amount":1e3}`, "https://t.me/papers_bot?start=pay_1e3_7"},
		{`{}`, "https://t.me/papers_bot?start=pay_0_7"},
	}
	for _, tt := range tests {
		w := post(r, header, tt.body)
		assert.Equal(t, http.StatusOK, w.Code, tt.body)
		assert.JSONEq(t, `{"invoiceUrl":"`+tt.url+`"}`, w.Body.String(), tt.body)
	}
}

func TestCreateInvoiceRequiresAuth(t *testing.T) {
	w := post(setupRouter(), "", `{"amount":50}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestCreateInvoiceInvalidBody(t *testing.T) {
	r := setupRouter()
	header := signedHeader(t, 5)

	for _, body := range []string{`{"amount":`, `{"amount":"many"}`, `{"amount":true}`, `[]`} {
		w := post(r, header, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Invalid request body"}`, w.Body.String())
	}
}
