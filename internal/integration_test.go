package internal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"envase-return-backend/config"
	"envase-return-backend/internal/api"
	"envase-return-backend/internal/devolucion"
	"envase-return-backend/internal/model"
	"envase-return-backend/internal/notify"
	"envase-return-backend/internal/receipt"
	"envase-return-backend/internal/session"
	"envase-return-backend/internal/sheets"
	"envase-return-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRenderer struct{}

func (fakeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	return []byte("%PDF-1.4 integration"), nil
}

func (fakeRenderer) Close() error { return nil }

type pushSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (s *pushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return s.SendFunc(payload, sub, options)
}

func gvizBody(rows string) string {
	return `/*O_o*/` + "\n" +
		`google.visualization.Query.setResponse({"table":{"rows":[` + rows + `]}});`
}

// TestReturnLifecycle walks the whole flow: a socio logs in, registers
// a push subscription, builds a selection, submits it, and receives the
// receipt both over push and as a direct download. The remote endpoint
// and the spreadsheet are both simulated.
func TestReturnLifecycle(t *testing.T) {
	// 1. Spreadsheet fixture: one socio, two envases, service open.
	sheetServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("sheet") {
		case "Socios":
			w.Write([]byte(gvizBody(`{"c":[{"v":"A12"},{"v":"Juan Pérez"},{"v":""},{"v":""},{"v":"NORTE"},{"v":""}]}`)))
		case "Inventario":
			w.Write([]byte(gvizBody(
				`{"c":[{"v":"ENV-A"},{"v":"Garrafa 25L"},{"v":"Garrafas"},{"v":""},{"v":"NORTE"},{"v":""}]},` +
					`{"c":[{"v":"ENV-B"},{"v":"Caja plegable"},{"v":"Cajas"},{"v":""},{"v":"GENERAL"},{"v":""}]}`)))
		case "Config":
			w.Write([]byte(gvizBody(`{"c":[{"v":"ESTADO"},{"v":"ABIERTO"}]}`)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer sheetServer.Close()

	// 2. Apps Script fixture capturing the registered rows.
	var registered struct {
		Action string              `json:"action"`
		Data   []devolucion.Record `json:"data"`
	}
	scriptServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&registered))
		w.WriteHeader(http.StatusOK)
	}))
	defer scriptServer.Close()

	cfg := &config.Config{
		Server: config.ServerConfig{
			PublicBaseURL:   "https://envases.example.com",
			RateLimitPerSec: 1000,
			RateLimitBurst:  1000,
			CacheTTLSeconds: 1,
		},
		Sheets: config.SheetsConfig{
			BaseURL:         sheetServer.URL,
			SpreadsheetID:   "sheet-id",
			SocioSheets:     []string{"Socios"},
			SocioRange:      "A3:F",
			InventorySheets: []string{"Inventario"},
			InventoryRange:  "A3:F",
			StatusSheets:    []string{"Config"},
			StatusRange:     "A1:B2",
		},
		Writer:  config.WriterConfig{ScriptURL: scriptServer.URL},
		Session: config.SessionConfig{AdminCode: "ADMIN99", TTL: time.Hour},
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "lifecycle.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.DevolucionBatch{},
		&model.DevolucionRow{},
		&model.Receipt{},
		&model.PushSubscription{},
	))
	appStore := store.NewGormStore(db)

	catalogSvc := sheets.NewServiceWithClient(cfg, sheets.NewClient(&cfg.Sheets))
	require.NoError(t, catalogSvc.RefreshOnce(context.Background()))

	// 3. Worker pool with a captured push sender.
	var pushWG sync.WaitGroup
	var pushedPayload []byte
	pool := notify.NewWorkerPool(1, appStore, &webpush.Options{}, cfg.Server.PublicBaseURL)
	pool.SetSender(&pushSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			pushedPayload = payload
			pushWG.Done()
			return &http.Response{StatusCode: http.StatusCreated, Body: io.NopCloser(bytes.NewBufferString(""))}, nil
		},
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	sessions := session.NewManager(cfg.Session.TTL, cfg.Session.AdminCode)
	handler := api.NewHandler(cfg, catalogSvc, sessions, appStore,
		devolucion.NewWriter(&cfg.Writer),
		receipt.NewGenerator(fakeRenderer{}), pool, &webpush.Options{VAPIDPublicKey: "pk"})
	router := api.NewRouter(handler)

	call := func(method, path, token string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("X-Session-Token", token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// --- Login ---
	w := call(http.MethodPost, "/api/login", "", gin.H{"codigo": "a12"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var loginResp struct {
		Token string `json:"token"`
		View  string `json:"view"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	assert.Equal(t, "INVENTORY", loginResp.View)
	token := loginResp.Token

	// --- Register a push subscription ---
	w = call(http.MethodPut, "/api/subscriptions", token, gin.H{
		"endpoint": "https://push.example.com/device-1",
		"p256dh":   "key",
		"auth":     "auth",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// --- Build the selection ---
	w = call(http.MethodPut, "/api/basket/ENV-A", token, gin.H{"value": "2"})
	require.Equal(t, http.StatusOK, w.Code)
	w = call(http.MethodPost, "/api/basket/ENV-B/increment", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// --- Submit ---
	sig := base64.StdEncoding.EncodeToString([]byte("signature png"))
	pushWG.Add(1)
	w = call(http.MethodPost, "/api/returns", token, gin.H{
		"transportista":      "Transportes López",
		"firmaSocio":         sig,
		"firmaTransportista": sig,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var submitResp struct {
		Outcome string `json:"outcome"`
		BatchID string `json:"batchId"`
		Total   int    `json:"total"`
		Receipt struct {
			ID       string `json:"id"`
			FileName string `json:"fileName"`
			URL      string `json:"url"`
		} `json:"receipt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitResp))
	assert.Equal(t, "submitted-unconfirmed", submitResp.Outcome)
	assert.Equal(t, 3, submitResp.Total)

	// The remote endpoint saw one row per unit.
	assert.Equal(t, "register", registered.Action)
	require.Len(t, registered.Data, 3)
	assert.Equal(t, "ENV-A", registered.Data[0].EnvaseCodigo)
	assert.Equal(t, "ENV-B", registered.Data[2].EnvaseCodigo)

	// --- Push delivery carries the receipt link ---
	pushWG.Wait()
	var payload struct {
		Title    string `json:"title"`
		URL      string `json:"url"`
		FileName string `json:"fileName"`
	}
	require.NoError(t, json.Unmarshal(pushedPayload, &payload))
	assert.Equal(t, "Devolución registrada", payload.Title)
	assert.Contains(t, payload.URL, "/api/receipts/"+submitResp.Receipt.ID)
	assert.Contains(t, payload.FileName, "socio A12 Juan Pérez.pdf")

	// --- Direct download works without a session ---
	w = call(http.MethodGet, submitResp.Receipt.URL, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 integration", w.Body.String())

	// --- Session state after submission ---
	w = call(http.MethodGet, "/api/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sessResp struct {
		Total  int  `json:"total"`
		Review bool `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sessResp))
	assert.Equal(t, 0, sessResp.Total)
	assert.False(t, sessResp.Review)
}
