package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "tracking/internal/adapters/in/http"
	"tracking/internal/adapters/out/events"
	"tracking/internal/adapters/out/memory"
	prom "tracking/internal/adapters/out/prometheus"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/pkg/ratelimiter"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.May, 14, 8, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return testNow }

type storeUoWFactory struct {
	store *memory.Store
}

func (f storeUoWFactory) Create() commands.PackageUoW {
	return f.store.Create()
}

func newServer(t *testing.T) *httpadapter.Server {
	t.Helper()

	store, err := memory.NewStore(events.NewDispatcher(nil, nil))
	require.NoError(t, err)

	factory := storeUoWFactory{store: store}
	reader := store.Reader()

	return httpadapter.NewServer(
		commands.NewCreatePackageCommandHandler(factory, fixedClock{}),
		commands.NewUpdatePackageStatusCommandHandler(factory, memory.NewLocker(time.Second), fixedClock{}),
		queries.NewGetPackageQueryHandler(reader),
		queries.NewGetPackageByTrackingNumberQueryHandler(reader),
		queries.NewListPackagesQueryHandler(reader),
		queries.NewGetValidTransitionsQueryHandler(reader),
	)
}

func newEcho(t *testing.T, opts httpadapter.Options) *echo.Echo {
	t.Helper()

	e, err := httpadapter.NewEcho(newServer(t), opts)
	require.NoError(t, err)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
	"senderName": "Alice",
	"senderAddress": "1 Main St",
	"senderPhone": "555-0100",
	"recipientName": "Bob",
	"recipientAddress": "2 Oak Ave",
	"recipientPhone": "555-0199"
}`

func createPackage(t *testing.T, e *echo.Echo) httpadapter.Package {
	t.Helper()

	rec := do(e, http.MethodPost, "/api/v1/packages", createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var pkg httpadapter.Package
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pkg))
	return pkg
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpadapter.Error {
	t.Helper()

	var body httpadapter.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestCreatePackage(t *testing.T) {
	e := newEcho(t, httpadapter.Options{})

	rec := do(e, http.MethodPost, "/api/v1/packages", createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var pkg httpadapter.Package
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pkg))

	assert.Equal(t, "/api/v1/packages/"+pkg.Id, rec.Header().Get(echo.HeaderLocation))
	assert.Regexp(t, `^PKG20240514\d{4}$`, pkg.TrackingNumber)
	assert.Equal(t, "Alice", pkg.SenderName)
	assert.Equal(t, "2 Oak Ave", pkg.RecipientAddress)
	assert.Equal(t, "Created", pkg.CurrentStatus)
	assert.True(t, testNow.Equal(pkg.CreatedAt))
	assert.True(t, testNow.Equal(pkg.LastUpdated))

	require.Len(t, pkg.StatusHistory, 1)
	assert.Equal(t, "Created", pkg.StatusHistory[0].Status)
	require.NotNil(t, pkg.StatusHistory[0].Notes)
	assert.Equal(t, "Package created", *pkg.StatusHistory[0].Notes)
}

func TestCreatePackage_Invalid(t *testing.T) {
	e := newEcho(t, httpadapter.Options{})

	t.Run("blank sender name", func(t *testing.T) {
		body := strings.Replace(createBody, `"Alice"`, `"   "`, 1)

		rec := do(e, http.MethodPost, "/api/v1/packages", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		errBody := decodeError(t, rec)
		assert.Equal(t, http.StatusBadRequest, errBody.Code)
		assert.Contains(t, errBody.Message, "sender")
	})

	t.Run("missing field", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/v1/packages", `{"senderName": "Alice"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/v1/packages", `{"senderName":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetPackage(t *testing.T) {
	e := newEcho(t, httpadapter.Options{})
	created := createPackage(t, e)

	t.Run("by id", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/packages/"+created.Id, "")

		require.Equal(t, http.StatusOK, rec.Code)
		var pkg httpadapter.Package
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pkg))
		assert.Equal(t, created.TrackingNumber, pkg.TrackingNumber)
	})

	t.Run("by tracking number", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/packages/tracking/"+created.TrackingNumber, "")

		require.Equal(t, http.StatusOK, rec.Code)
		var pkg httpadapter.Package
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pkg))
		assert.Equal(t, created.Id, pkg.Id)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/packages/5b7c8f8e-2f4a-4c63-9d0e-1a2b3c4d5e6f", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/packages/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown tracking number", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/packages/tracking/PKG202001010000", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed tracking number", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/v1/packages/tracking/nope", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdatePackageStatus(t *testing.T) {
	e := newEcho(t, httpadapter.Options{})
	created := createPackage(t, e)
	statusURL := "/api/v1/packages/" + created.Id + "/status"

	rec := do(e, http.MethodPut, statusURL, `{"newStatus": "sent", "notes": "picked up"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pkg httpadapter.Package
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pkg))
	assert.Equal(t, "Sent", pkg.CurrentStatus)
	require.Len(t, pkg.StatusHistory, 2)
	assert.Equal(t, "Sent", pkg.StatusHistory[1].Status)
	require.NotNil(t, pkg.StatusHistory[1].Notes)
	assert.Equal(t, "picked up", *pkg.StatusHistory[1].Notes)

	t.Run("transition not allowed", func(t *testing.T) {
		rec := do(e, http.MethodPut, statusURL, `{"newStatus": "Created"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "Sent")

		got := do(e, http.MethodGet, "/api/v1/packages/"+created.Id, "")
		require.NoError(t, json.Unmarshal(got.Body.Bytes(), &pkg))
		assert.Equal(t, "Sent", pkg.CurrentStatus)
		assert.Len(t, pkg.StatusHistory, 2)
	})

	t.Run("unknown status name", func(t *testing.T) {
		rec := do(e, http.MethodPut, statusURL, `{"newStatus": "Lost"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing new status", func(t *testing.T) {
		rec := do(e, http.MethodPut, statusURL, `{"notes": "x"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown package", func(t *testing.T) {
		rec := do(e, http.MethodPut,
			"/api/v1/packages/5b7c8f8e-2f4a-4c63-9d0e-1a2b3c4d5e6f/status", `{"newStatus": "Sent"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetValidTransitions(t *testing.T) {
	e := newEcho(t, httpadapter.Options{})
	created := createPackage(t, e)
	url := "/api/v1/packages/" + created.Id + "/valid-transitions"

	rec := do(e, http.MethodGet, url, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Sent", "Canceled"]`, rec.Body.String())

	require.Equal(t, http.StatusOK,
		do(e, http.MethodPut, "/api/v1/packages/"+created.Id+"/status", `{"newStatus": "Canceled"}`).Code)

	rec = do(e, http.MethodGet, url, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/packages/5b7c8f8e-2f4a-4c63-9d0e-1a2b3c4d5e6f/valid-transitions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPackages(t *testing.T) {
	e := newEcho(t, httpadapter.Options{})
	first := createPackage(t, e)
	second := createPackage(t, e)

	require.Equal(t, http.StatusOK,
		do(e, http.MethodPut, "/api/v1/packages/"+second.Id+"/status", `{"newStatus": "Sent"}`).Code)

	list := func(t *testing.T, target string) []httpadapter.Package {
		t.Helper()
		rec := do(e, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out []httpadapter.Package
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	all := list(t, "/api/v1/packages")
	require.Len(t, all, 2)
	assert.Equal(t, first.Id, all[0].Id)
	assert.Equal(t, second.Id, all[1].Id)

	sent := list(t, "/api/v1/packages?status=Sent")
	require.Len(t, sent, 1)
	assert.Equal(t, second.Id, sent[0].Id)

	byNumber := list(t, "/api/v1/packages?trackingNumber="+strings.ToLower(first.TrackingNumber))
	require.Len(t, byNumber, 1)
	assert.Equal(t, first.Id, byNumber[0].Id)

	assert.Empty(t, list(t, "/api/v1/packages?status=Accepted"))

	rec := do(e, http.MethodGet, "/api/v1/packages?status=Lost", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmptyListIsArray(t *testing.T) {
	e := newEcho(t, httpadapter.Options{})

	rec := do(e, http.MethodGet, "/api/v1/packages", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	t.Run("all probes pass", func(t *testing.T) {
		e := newEcho(t, httpadapter.Options{Probes: map[string]httpadapter.Probe{
			"store": func(context.Context) error { return nil },
		}})

		rec := do(e, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status": "ok", "checks": {"store": "ok"}}`, rec.Body.String())
	})

	t.Run("failing probe", func(t *testing.T) {
		e := newEcho(t, httpadapter.Options{Probes: map[string]httpadapter.Probe{
			"store": func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
		}})

		rec := do(e, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t,
			`{"status": "unavailable", "checks": {"store": "ok", "redis": "connection refused"}}`,
			rec.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEcho(t, httpadapter.Options{Metrics: prom.NewMetrics()})
	createPackage(t, e)

	rec := do(e, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`tracking_http_requests_total{code="201",method="POST",route="/api/v1/packages"} 1`)
}

func TestRateLimit(t *testing.T) {
	e := newEcho(t, httpadapter.Options{Limiter: ratelimiter.New(1, 1, time.Minute)})

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/v1/packages", "").Code)

	rec := do(e, http.MethodGet, "/api/v1/packages", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, http.StatusTooManyRequests, decodeError(t, rec).Code)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/health", "").Code)
}

func TestRequestIDHeader(t *testing.T) {
	e := newEcho(t, httpadapter.Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))

	rec = do(e, http.MethodGet, "/api/v1/packages", "")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestSwaggerDocument(t *testing.T) {
	e := newEcho(t, httpadapter.Options{})

	rec := do(e, http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Package Tracking API")
}

func TestUnknownRoute(t *testing.T) {
	e := newEcho(t, httpadapter.Options{})

	rec := do(e, http.MethodGet, "/api/v1/parcels", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
}
