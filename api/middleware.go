package api

import (
	"errors"
	"net/http"

	"github.com/palette-peek/api/models"
)

func handleCors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Headers", "Access-Control-Allow-Credentials, Access-Control-Allow-Origin, Accept, Content-Type, Content-Length, Accept-Encoding, If-None-Match, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "ETag")
		if r.Method == http.MethodOptions {
			return
		}
		h.ServeHTTP(w, r)
	}
}

// getUserFromToken resolves the user behind the access token cookie
func (app *Application) getUserFromToken(r *http.Request) (models.User, error) {
	cookie, err := r.Cookie(models.JWT.ACCESS_COOKIE_NAME)
	if err != nil {
		return models.User{}, errors.New("no JWT cookie found")
	}

	claims, err := models.ValidateJWTToken(cookie.Value, app.Config.JwtSecret)
	if err != nil {
		return models.User{}, err
	}

	user, err := app.UserRepo.Get(claims.UserID)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// authenticate that the user exists
func (app *Application) authenticate(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := app.getUserFromToken(r); err != nil {
			app.unauthenticated(w, r, err)
			return
		}
		h.ServeHTTP(w, r)
	}
}
