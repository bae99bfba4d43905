package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/palette-peek/api/colorconv"
	"github.com/palette-peek/api/datastore"
	"github.com/palette-peek/api/models"
	"github.com/palette-peek/api/palette"
)

// requestIdentity binds a Workspace to the user of a single request.
type requestIdentity string

func (id requestIdentity) Identity() (string, bool) { return string(id), id != "" }

func (requestIdentity) Subscribe(func(string)) {}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// GET /
func (app *Application) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Palette Peek API")
}

// setAccessCookie issues the session cookie for user
func (app *Application) setAccessCookie(w http.ResponseWriter, user models.User) error {
	ttl := time.Second * time.Duration(app.Config.JwtAccessDuration)
	token, expiry, err := models.NewAccessToken(user, app.Config.JwtSecret, ttl, time.Now())
	if err != nil {
		return err
	}

	sameSite := http.SameSiteStrictMode
	if app.Config.JwtDomain == "" {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     models.JWT.ACCESS_COOKIE_NAME,
		Value:    token,
		HttpOnly: true,
		Secure:   true,
		SameSite: sameSite,
		Path:     "/",
		Domain:   app.Config.JwtDomain,
		Expires:  expiry,
	})
	return nil
}

// POST /v1/auth/signup
func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.methodNotAllowed(w, r, ErrPOST, http.MethodPost)
		return
	}

	creds := &models.Credentials{}
	if err := json.NewDecoder(r.Body).Decode(creds); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	user, err := app.Accounts.Register(creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateIdentity) {
			MetricAuthFailures.WithLabelValues("duplicate").Inc()
		}
		if errors.Is(err, models.ErrInvalidCredentials) {
			app.badRequest(w, r, "Invalid Signup", err, "Provide an email and a password")
			return
		}
		app.domainError(w, r, err)
		return
	}

	// Registering logs the user in.
	if err := app.setAccessCookie(w, user); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.Public())
}

// POST /v1/auth/login
func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.methodNotAllowed(w, r, ErrPOST, http.MethodPost)
		return
	}

	creds := &models.Credentials{}
	if err := json.NewDecoder(r.Body).Decode(creds); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	user, err := app.Accounts.Authenticate(creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			MetricAuthFailures.WithLabelValues("credentials").Inc()
		}
		app.domainError(w, r, err)
		return
	}

	if err := app.setAccessCookie(w, user); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

// POST /v1/auth/logout
func (app *Application) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.methodNotAllowed(w, r, ErrPOST, http.MethodPost)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     models.JWT.ACCESS_COOKIE_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		Domain:   app.Config.JwtDomain,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// GET /v1/users/me - Get current authenticated user
func (app *Application) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(r)
	if err != nil {
		app.unauthenticated(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

// GET /v1/colors/random?count=N - Get N random colors
func (app *Application) getRandomColors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.methodNotAllowed(w, r, ErrGET, http.MethodGet)
		return
	}

	maxCount := min(app.Config.MaxRandomColors, palette.MaxSize)
	count := palette.DefaultSize
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxCount {
			app.badRequest(w, r, "Invalid Count",
				fmt.Errorf("count must be between 1 and %d", maxCount),
				"Pass a smaller positive count")
			return
		}
		count = parsed
	}

	workspace := palette.NewWorkspace(requestIdentity(""), app.PaletteRepo, palette.WithRand(app.Rand))
	if err := workspace.GenerateRandom(count); err != nil {
		app.domainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, workspace.Colors())
}

// GET /v1/colors/convert?hex=... or ?r=&g=&b= - Describe one color
func (app *Application) convertColor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.methodNotAllowed(w, r, ErrGET, http.MethodGet)
		return
	}

	query := r.URL.Query()
	var (
		color models.Color
		err   error
	)
	if hex := query.Get("hex"); hex != "" {
		color, err = models.NewColor(hex)
	} else {
		var rgb colorconv.RGB
		rgb, err = parseRGBQuery(query.Get("r"), query.Get("g"), query.Get("b"))
		if err == nil {
			color, err = models.NewColorFromRGB(rgb)
		}
	}
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, color)
}

func parseRGBQuery(rs, gs, bs string) (colorconv.RGB, error) {
	var channels [3]int
	for i, raw := range []string{rs, gs, bs} {
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return colorconv.RGB{}, fmt.Errorf("%w: pass hex or integer r, g and b", models.ErrInvalidFormat)
		}
		channels[i] = value
	}
	return colorconv.NewRGB(channels[0], channels[1], channels[2])
}

// GET, POST /v1/palettes - List or save palettes of the current user
func (app *Application) palettes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		app.listPalettes(w, r)
	case http.MethodPost:
		app.savePalette(w, r)
	default:
		app.methodNotAllowed(w, r, fmt.Errorf("GET or POST method required for this endpoint"), "GET, POST")
	}
}

func (app *Application) listPalettes(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(r)
	if err != nil {
		app.unauthenticated(w, r, err)
		return
	}

	saved, err := app.PaletteRepo.List(user.Email)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	body, err := json.Marshal(saved)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// etagMatches applies the weak comparison used for If-None-Match: header is
// "*" or a comma-separated list of tags, W/ prefixes ignored.
func etagMatches(header, etag string) bool {
	etag = strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func (app *Application) savePalette(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(r)
	if err != nil {
		app.unauthenticated(w, r, err)
		return
	}

	request := &models.PaletteSaveRequest{}
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	workspace := palette.NewWorkspace(requestIdentity(user.Email), app.PaletteRepo,
		palette.WithClock(app.now))
	for _, hex := range request.Colors {
		if _, err := workspace.Add(hex); err != nil {
			app.domainError(w, r, err)
			return
		}
	}

	saved, err := workspace.SaveAs(strings.TrimSpace(request.Name))
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

// DELETE /v1/palettes/{id} - Delete a saved palette
func (app *Application) deletePalette(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		app.methodNotAllowed(w, r, ErrDELETE, http.MethodDelete)
		return
	}

	user, err := app.getUserFromToken(r)
	if err != nil {
		app.unauthenticated(w, r, err)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/palettes/")
	if id == "" || strings.Contains(id, "/") {
		app.notFound(w, r, fmt.Errorf("no palette at %s", r.URL.Path))
		return
	}

	removed, err := app.PaletteRepo.Delete(user.Email, id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	if !removed {
		app.notFound(w, r, fmt.Errorf("no saved palette with id %s", id))
		return
	}
	palette.MetricDeletes.Inc()

	w.WriteHeader(http.StatusNoContent)
}

// GET /v1/palettes/daily - Get today's featured palette
func (app *Application) getDailyPalette(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.methodNotAllowed(w, r, ErrGET, http.MethodGet)
		return
	}

	daily, err := app.DailyPaletteRepo.GetByDate(app.now())
	if err != nil {
		if datastore.IsNotFound(err) {
			app.notFound(w, r, errors.New("no featured palette yet today"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, daily)
}
