package api

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var localhostPattern = regexp.MustCompile(`^localhost:\d+$`)

func cleanOrigin(origin string) string {
	cleanedOrigin := origin
	for _, scheme := range []string{"https://", "http://", "wss://", "ws://"} {
		cleanedOrigin = strings.TrimPrefix(cleanedOrigin, scheme)
	}
	if idx := strings.Index(cleanedOrigin, "/"); idx != -1 {
		cleanedOrigin = cleanedOrigin[:idx]
	}
	return cleanedOrigin
}

func isAllowedOrigin(origin string, allowedOrigins []string, devMode bool) bool {
	cleanedRequest := cleanOrigin(origin)

	// Allow localhost for development
	if devMode && localhostPattern.MatchString(cleanedRequest) {
		return true
	}

	// Check against configured allowed origins
	for _, allowed := range allowedOrigins {
		if cleanOrigin(strings.TrimSpace(allowed)) == cleanedRequest {
			return true
		}
	}

	return false
}

func wrapMuxWithCorsAndOrigins(mux *http.ServeMux, app *Application) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin == "" {
			origin = r.Header.Get("Referer")
		}

		if origin == "" || isAllowedOrigin(origin, app.Config.AllowedOrigins, app.Config.DevMode) {
			handleCors(mux.ServeHTTP)(w, r)
			return
		}

		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("origin not allowed: " + cleanOrigin(origin)))
	})
}

func (app *Application) BuildRoutes(mux *http.ServeMux) *http.ServeMux {
	finalMux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("/", instrument("home", app.home))
	mux.HandleFunc("/v1/auth/signup", instrument("signup", app.signup))
	mux.HandleFunc("/v1/auth/login", instrument("login", app.login))
	mux.HandleFunc("/v1/auth/logout", instrument("logout", app.logout))
	mux.HandleFunc("/v1/colors/random", instrument("colors_random", app.getRandomColors))
	mux.HandleFunc("/v1/colors/convert", instrument("colors_convert", app.convertColor))
	mux.HandleFunc("/v1/palettes/daily", instrument("palettes_daily", app.getDailyPalette))
	mux.Handle("/metrics", promhttp.Handler())

	// Authenticated endpoints
	mux.HandleFunc("/v1/users/me", instrument("users_me", app.authenticate(app.getCurrentUser)))
	mux.HandleFunc("/v1/palettes", instrument("palettes", app.authenticate(app.palettes)))
	mux.HandleFunc("/v1/palettes/", instrument("palettes_item", app.authenticate(app.deletePalette)))

	// Wrap entire mux with CORS and origins check
	finalMux.Handle("/", wrapMuxWithCorsAndOrigins(mux, app))

	return finalMux
}
