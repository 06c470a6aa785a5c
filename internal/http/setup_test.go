package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

const admin = "admin-1"

func newTestApp(t *testing.T, lim handlers.Limits) (*fiber.App, *repos.Store) {
	t.Helper()
	db, err := repos.OpenDB(repos.DriverSQLite, repos.SQLiteDSN(filepath.Join(t.TempDir(), "api.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Migrate(db))
	require.NoError(t, repos.SeedUnitValues(context.Background(), db, "seed"))

	store := repos.NewStore(db)
	return handlers.NewApp(handlers.NewDeps(store), lim), store
}

func roomyLimits() handlers.Limits {
	return handlers.Limits{Max: 10000, Window: time.Minute, OrderMax: 10000, OrderWindow: time.Minute}
}

// call sends a JSON request; an empty actor leaves the header off.
func call(t *testing.T, app *fiber.App, method, path, actor string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(handlers.ActorHeader, actor)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func unitByName(t *testing.T, app *fiber.App, name string) domain.UnitValue {
	t.Helper()
	code, body := call(t, app, "GET", "/api/v1/units", "", nil)
	require.Equal(t, 200, code)
	for _, u := range decode[[]domain.UnitValue](t, body) {
		if u.Name == name {
			return u
		}
	}
	t.Fatalf("unit %s not seeded", name)
	return domain.UnitValue{}
}

// seedVariant creates category, product and one variant through the API.
func seedVariant(t *testing.T, app *fiber.App, sku string, price string, stock int) domain.ProductVariant {
	t.Helper()
	code, body := call(t, app, "POST", "/api/v1/categories", admin, map[string]any{"name": "Cat " + sku})
	require.Equal(t, 201, code, string(body))
	cat := decode[domain.Category](t, body)

	code, body = call(t, app, "POST", "/api/v1/products", admin, map[string]any{"categoryId": cat.ID, "name": "Prod " + sku})
	require.Equal(t, 201, code, string(body))
	p := decode[domain.Product](t, body)

	kg := unitByName(t, app, "kg")
	code, body = call(t, app, "POST", "/api/v1/products/"+p.ID+"/variants", admin, map[string]any{
		"unitValueId": kg.ID, "price": price, "stock": stock, "sku": sku,
	})
	require.Equal(t, 201, code, string(body))
	return decode[domain.ProductVariant](t, body)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Kind   string         `json:"kind"`
	Status int            `json:"status"`
	ReqID  string         `json:"req_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// captureLogs routes the app logger into memory while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	applog.Init("dev", buf)
	t.Cleanup(func() { applog.Init("prod", io.Discard) })

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
