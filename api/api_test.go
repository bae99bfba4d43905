package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palette-peek/api/account"
	"github.com/palette-peek/api/datastore"
	"github.com/palette-peek/api/models"
)

var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*Application, http.Handler) {
	t.Helper()
	store := datastore.NewMemoryStore()
	users, err := datastore.NewUserDatabase(store)
	require.NoError(t, err)
	palettes, err := datastore.NewPaletteDatabase(store)
	require.NoError(t, err)
	daily, err := datastore.NewDailyPaletteDatabase(store)
	require.NoError(t, err)

	app := &Application{
		Config: Config{
			HTTPPort:          ":0",
			StorageBackend:    StorageMemory,
			JwtSecret:         "test-secret",
			JwtAccessDuration: 900,
			AllowedOrigins:    []string{"https://palettes.example.com"},
			DailyPaletteSize:  5,
			MaxRandomColors:   50,
			DevMode:           true,
		},
		UserRepo:         users,
		PaletteRepo:      palettes,
		DailyPaletteRepo: daily,
		Accounts:         account.NewProvider(users, nil),
		Rand:             rand.New(rand.NewSource(11)),
		Now:              func() time.Time { return testNow },
	}
	return app, app.Handler()
}

func do(t *testing.T, handler http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func signup(t *testing.T, handler http.Handler, email string) *http.Cookie {
	t.Helper()
	rec := do(t, handler, http.MethodPost, "/v1/auth/signup", `{"email":"`+email+`","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == models.JWT.ACCESS_COOKIE_NAME {
			return c
		}
	}
	t.Fatal("signup did not set an access cookie")
	return nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) HandlerError {
	t.Helper()
	var handlerErr HandlerError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &handlerErr))
	return handlerErr
}

func TestHome(t *testing.T) {
	_, handler := newTestApp(t)
	rec := do(t, handler, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Palette Peek API", rec.Body.String())

	rec = do(t, handler, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignupLoginAndMe(t *testing.T) {
	_, handler := newTestApp(t)
	cookie := signup(t, handler, "ada@example.com")

	rec := do(t, handler, http.MethodGet, "/v1/users/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "ada@example.com", me.Email)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	rec = do(t, handler, http.MethodPost, "/v1/auth/signup", `{"email":"ADA@example.com","password":"x"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, handler, http.MethodPost, "/v1/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid Credentials", decodeError(t, rec).ErrorName)

	rec = do(t, handler, http.MethodPost, "/v1/auth/login", `{"email":"ada@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Result().Cookies())

	rec = do(t, handler, http.MethodGet, "/v1/auth/login", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, handler, http.MethodPost, "/v1/auth/signup", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, handler, http.MethodPost, "/v1/auth/signup", `{bad json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	_, handler := newTestApp(t)
	rec := do(t, handler, http.MethodPost, "/v1/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestRandomColors(t *testing.T) {
	_, handler := newTestApp(t)

	rec := do(t, handler, http.MethodGet, "/v1/colors/random", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var colors []models.Color
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &colors))
	assert.Len(t, colors, 5)

	rec = do(t, handler, http.MethodGet, "/v1/colors/random?count=12", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &colors))
	assert.Len(t, colors, 12)

	for _, bad := range []string{"0", "51", "many", "100000000000000"} {
		rec = do(t, handler, http.MethodGet, "/v1/colors/random?count="+bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestRandomColorsCappedByPaletteMaxSize(t *testing.T) {
	app, handler := newTestApp(t)
	app.Config.MaxRandomColors = 1000

	rec := do(t, handler, http.MethodGet, "/v1/colors/random?count=50", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, handler, http.MethodGet, "/v1/colors/random?count=51", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "between 1 and 50")
}

func TestEtagMatches(t *testing.T) {
	const etag = `"00ff00ff00ff00ff"`
	tests := []struct {
		header string
		want   bool
	}{
		{header: etag, want: true},
		{header: `W/` + etag, want: true},
		{header: `"aaaa", ` + etag, want: true},
		{header: `"aaaa",W/` + etag + `, "bbbb"`, want: true},
		{header: `*`, want: true},
		{header: `"aaaa", "bbbb"`, want: false},
		{header: ``, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, etagMatches(tt.header, etag), "If-None-Match: %s", tt.header)
	}
}

func TestConvertColor(t *testing.T) {
	_, handler := newTestApp(t)

	rec := do(t, handler, http.MethodGet, "/v1/colors/convert?hex=f80", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var color models.Color
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &color))
	assert.Equal(t, "#FF8800", color.Hex)
	assert.Equal(t, 255, color.RGB.R)
	assert.Equal(t, 136, color.RGB.G)

	rec = do(t, handler, http.MethodGet, "/v1/colors/convert?r=0&g=128&b=128", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &color))
	assert.Equal(t, "#008080", color.Hex)
	assert.Equal(t, 180, color.HSL.H)

	rec = do(t, handler, http.MethodGet, "/v1/colors/convert?hex=xyz123", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid Format", decodeError(t, rec).ErrorName)

	rec = do(t, handler, http.MethodGet, "/v1/colors/convert?r=0&g=300&b=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Out Of Range", decodeError(t, rec).ErrorName)

	rec = do(t, handler, http.MethodGet, "/v1/colors/convert", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPalettesRequireAuthentication(t *testing.T) {
	app, handler := newTestApp(t)

	rec := do(t, handler, http.MethodPost, "/v1/palettes", `{"colors":["#F00"]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthenticated", decodeError(t, rec).ErrorName)

	rec = do(t, handler, http.MethodGet, "/v1/palettes", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bogus := &http.Cookie{Name: models.JWT.ACCESS_COOKIE_NAME, Value: "not-a-token"}
	rec = do(t, handler, http.MethodGet, "/v1/palettes", "", bogus)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	all, err := app.UserRepo.GetAllUsers()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSaveListDeletePalette(t *testing.T) {
	_, handler := newTestApp(t)
	ada := signup(t, handler, "ada@example.com")
	bob := signup(t, handler, "bob@example.com")

	rec := do(t, handler, http.MethodPost, "/v1/palettes", `{"name":"Primary","colors":["#F00","00ff00","#0000FF"]}`, ada)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved models.Palette
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "Primary", saved.Name)
	require.Len(t, saved.Colors, 3)
	assert.Equal(t, "#00FF00", saved.Colors[1].Hex)
	assert.True(t, testNow.Equal(saved.CreatedAt))

	rec = do(t, handler, http.MethodGet, "/v1/palettes", "", ada)
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	assert.NotEmpty(t, etag)
	var list []models.Palette
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)

	req := httptest.NewRequest(http.MethodGet, "/v1/palettes", nil)
	req.AddCookie(ada)
	req.Header.Set("If-None-Match", etag)
	notModified := httptest.NewRecorder()
	handler.ServeHTTP(notModified, req)
	assert.Equal(t, http.StatusNotModified, notModified.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/palettes", nil)
	req.AddCookie(ada)
	req.Header.Set("If-None-Match", `"stale", W/`+etag)
	notModified = httptest.NewRecorder()
	handler.ServeHTTP(notModified, req)
	assert.Equal(t, http.StatusNotModified, notModified.Code)

	// Other identities never see ada's palettes.
	rec = do(t, handler, http.MethodGet, "/v1/palettes", "", bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, handler, http.MethodDelete, "/v1/palettes/"+saved.ID, "", bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, handler, http.MethodDelete, "/v1/palettes/"+saved.ID, "", ada)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, handler, http.MethodGet, "/v1/palettes", "", ada)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, handler, http.MethodGet, "/v1/palettes/"+saved.ID, "", ada)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSavePaletteValidation(t *testing.T) {
	_, handler := newTestApp(t)
	ada := signup(t, handler, "ada@example.com")

	rec := do(t, handler, http.MethodPost, "/v1/palettes", `{"colors":[]}`, ada)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Empty Palette", decodeError(t, rec).ErrorName)

	rec = do(t, handler, http.MethodPost, "/v1/palettes", `{"colors":["#F00","#12"]}`, ada)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid Format", decodeError(t, rec).ErrorName)

	rec = do(t, handler, http.MethodGet, "/v1/palettes", "", ada)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDailyPalette(t *testing.T) {
	app, handler := newTestApp(t)

	rec := do(t, handler, http.MethodGet, "/v1/palettes/daily", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	red, _ := models.NewColor("#F00")
	_, err := app.DailyPaletteRepo.Create(models.DailyPalette{
		Date:    datastore.DateKey(testNow),
		Palette: models.NewPalette("Palette of the day", []models.Color{red}, testNow),
	})
	require.NoError(t, err)

	rec = do(t, handler, http.MethodGet, "/v1/palettes/daily", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var daily models.DailyPalette
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &daily))
	assert.Equal(t, "2026-10-19", daily.Date)
	assert.Len(t, daily.Palette.Colors, 1)
}

func TestOriginCheck(t *testing.T) {
	_, handler := newTestApp(t)

	for origin, want := range map[string]int{
		"https://palettes.example.com": http.StatusOK,
		"http://localhost:5173":        http.StatusOK,
		"https://evil.example.com":     http.StatusForbidden,
		"http://evil.example.com":      http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, origin)
	}

	req := httptest.NewRequest(http.MethodOptions, "/v1/palettes", nil)
	req.Header.Set("Origin", "https://palettes.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://palettes.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	_, handler := newTestApp(t)
	do(t, handler, http.MethodGet, "/v1/colors/random", "")

	rec := do(t, handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "palette_api_requests_total")
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{
		HTTPPort:          ":8080",
		StorageBackend:    StorageFile,
		DataFile:          "data.json",
		JwtSecret:         DefaultJwtSecret,
		JwtAccessDuration: 900,
		DailyPaletteSize:  5,
		MaxRandomColors:   50,
		DevMode:           true,
	}
	assert.NoError(t, cfg.Validate())

	cfg.DevMode = false
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET must be changed")

	cfg = Config{StorageBackend: "redis"}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"HTTP_PORT", "STORAGE_BACKEND", "JWT_SECRET", "DAILY_PALETTE_SIZE"} {
		assert.Contains(t, err.Error(), want)
	}
}
