package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"envase-return-backend/config"
	"envase-return-backend/internal/devolucion"
	"envase-return-backend/internal/model"
	"envase-return-backend/internal/receipt"
	"envase-return-backend/internal/session"
	"envase-return-backend/internal/sheets"
	"envase-return-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubWriter is a RemoteWriter capturing what would have been posted.
type stubWriter struct {
	outcome devolucion.Outcome
	err     error
	records []devolucion.Record
}

func (s *stubWriter) Register(ctx context.Context, records []devolucion.Record) (devolucion.Outcome, error) {
	s.records = records
	if s.outcome == "" {
		return devolucion.OutcomeSubmittedUnconfirmed, nil
	}
	return s.outcome, s.err
}

// fakeRenderer stands in for headless Chrome.
type fakeRenderer struct{}

func (fakeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	return []byte("%PDF-1.4 test"), nil
}

func (fakeRenderer) Close() error { return nil }

// gvizBody wraps rows the way the gviz endpoint does.
func gvizBody(rows string) string {
	return `/*O_o*/` + "\n" +
		`google.visualization.Query.setResponse({"table":{"rows":[` + rows + `]}});`
}

// catalogFixture serves a small spreadsheet: two socios, three envases
// across two warehouses, and a status row read from estado so tests
// can flip the service open or closed mid-flight.
func catalogFixture(estado *atomic.Value) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("sheet") {
		case "Socios":
			w.Write([]byte(gvizBody(
				`{"c":[{"v":"A12"},{"v":"Juan Pérez"},{"v":"600123456"},{"v":"C/ Mayor 1"},{"v":"NORTE"},{"v":"Madrid"}]},` +
					`{"c":[{"v":"B07"},{"v":"María García"},{"v":""},{"v":""},{"v":"SUR"},{"v":""}]}`)))
		case "Inventario":
			w.Write([]byte(gvizBody(
				`{"c":[{"v":"ENV-A"},{"v":"Garrafa 25L"},{"v":"Garrafas"},{"v":"25L"},{"v":"NORTE"},{"v":""}]},` +
					`{"c":[{"v":"ENV-B"},{"v":"Caja plegable"},{"v":"Cajas"},{"v":""},{"v":"GENERAL"},{"v":""}]},` +
					`{"c":[{"v":"ENV-C"},{"v":"Bidón 50L"},{"v":"Garrafas"},{"v":""},{"v":"SUR"},{"v":""}]}`)))
		case "Config":
			w.Write([]byte(gvizBody(`{"c":[{"v":"ESTADO"},{"v":"` + estado.Load().(string) + `"}]}`)))
		default:
			http.NotFound(w, r)
		}
	}
}

type testEnv struct {
	router   *gin.Engine
	handler  *Handler
	writer   *stubWriter
	catalog  *sheets.Service
	sessions *session.Manager
	store    store.Store
	estado   *atomic.Value
}

func newTestEnv(t *testing.T, estado string) *testEnv {
	t.Helper()

	state := &atomic.Value{}
	state.Store(estado)
	server := httptest.NewServer(catalogFixture(state))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{
			RateLimitPerSec: 1000,
			RateLimitBurst:  1000,
			CacheTTLSeconds: 1,
		},
		Sheets: config.SheetsConfig{
			BaseURL:         server.URL,
			SpreadsheetID:   "sheet-id",
			SocioSheets:     []string{"Socios"},
			SocioRange:      "A3:F",
			InventorySheets: []string{"Inventario"},
			InventoryRange:  "A3:F",
			StatusSheets:    []string{"Config"},
			StatusRange:     "A1:B2",
		},
		Session: config.SessionConfig{AdminCode: "ADMIN99", TTL: time.Hour},
	}

	svc := sheets.NewServiceWithClient(cfg, sheets.NewClient(&cfg.Sheets))
	require.NoError(t, svc.RefreshOnce(context.Background()))

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.DevolucionBatch{},
		&model.DevolucionRow{},
		&model.Receipt{},
		&model.PushSubscription{},
	))

	writer := &stubWriter{}
	sessions := session.NewManager(cfg.Session.TTL, cfg.Session.AdminCode)
	appStore := store.NewGormStore(db)

	h := NewHandler(cfg, svc, sessions, appStore, writer,
		receipt.NewGenerator(fakeRenderer{}), nil,
		&webpush.Options{VAPIDPublicKey: "test-public-key"})

	return &testEnv{
		router:   NewRouter(h),
		handler:  h,
		writer:   writer,
		catalog:  svc,
		sessions: sessions,
		store:    appStore,
		estado:   state,
	}
}

// do performs a request against the test router.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// login obtains a session token for a code.
func (e *testEnv) login(t *testing.T, code string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/login", "", gin.H{"codigo": code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := decode(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func testSignature() string {
	return base64.StdEncoding.EncodeToString([]byte("fake png signature"))
}
