package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/palette-peek/api/models"
)

// Helper function to get caller information
func getCallerInfo() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "[unknown]"
	}
	return fmt.Sprintf("[%s:%d]", filepath.Base(file), line)
}

type HandlerError struct {
	ErrorName        string `json:"errorName"`
	Description      string `json:"description"`
	PossibleSolution string `json:"possibleSolution"`
	CallerInfo       string `json:"callerInfo"`
}

var ErrGET = fmt.Errorf("GET method required for this endpoint")
var ErrPOST = fmt.Errorf("POST method required for this endpoint")
var ErrDELETE = fmt.Errorf("DELETE method required for this endpoint")

func writeHandlerError(w http.ResponseWriter, status int, handlerErr HandlerError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(handlerErr)
}

func (app *Application) invalidCredentials(w http.ResponseWriter, r *http.Request, err error) {
	writeHandlerError(w, http.StatusUnauthorized, HandlerError{
		ErrorName:        "Invalid Credentials",
		Description:      err.Error(),
		PossibleSolution: "Retry with proper credentials",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) unauthenticated(w http.ResponseWriter, r *http.Request, err error) {
	writeHandlerError(w, http.StatusUnauthorized, HandlerError{
		ErrorName:        "Unauthenticated",
		Description:      "Please log in to manage saved palettes",
		PossibleSolution: "Log in and retry with the access_token cookie",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) methodNotAllowed(w http.ResponseWriter, r *http.Request, err error, allow string) {
	w.Header().Set("Allow", allow)
	writeHandlerError(w, http.StatusMethodNotAllowed, HandlerError{
		ErrorName:        allow + " Method Required",
		Description:      err.Error() + " you used: " + r.Method,
		PossibleSolution: "Use " + allow + " method",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) badJSONRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeHandlerError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        "Error Parsing JSON",
		Description:      err.Error(),
		PossibleSolution: "Double check your JSON formatting",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	writeHandlerError(w, http.StatusInternalServerError, HandlerError{
		ErrorName:        "Internal Server Error",
		Description:      err.Error(),
		PossibleSolution: "Internal Server Error requiring support",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) userAlreadyExists(w http.ResponseWriter, r *http.Request, err error) {
	writeHandlerError(w, http.StatusConflict, HandlerError{
		ErrorName:        "User Exists",
		Description:      "There is already a user with this email address",
		PossibleSolution: "Advise user to login with their credentials",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) badRequest(w http.ResponseWriter, r *http.Request, name string, err error, solution string) {
	writeHandlerError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        name,
		Description:      err.Error(),
		PossibleSolution: solution,
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) notFound(w http.ResponseWriter, r *http.Request, err error) {
	writeHandlerError(w, http.StatusNotFound, HandlerError{
		ErrorName:        "Not Found",
		Description:      err.Error(),
		PossibleSolution: "Check the identifier in the request path",
		CallerInfo:       getCallerInfo(),
	})
}

// domainError maps the error taxonomy to a response.
func (app *Application) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidFormat):
		app.badRequest(w, r, "Invalid Format", err, "Use #RRGGBB or #RGB format")
	case errors.Is(err, models.ErrOutOfRange):
		app.badRequest(w, r, "Out Of Range", err, "RGB channels must be between 0 and 255")
	case errors.Is(err, models.ErrEmptyPalette):
		app.badRequest(w, r, "Empty Palette", err, "Add at least one color before saving")
	case errors.Is(err, models.ErrUnauthenticated):
		app.unauthenticated(w, r, err)
	case errors.Is(err, models.ErrDuplicateIdentity):
		app.userAlreadyExists(w, r, err)
	case errors.Is(err, models.ErrInvalidCredentials):
		app.invalidCredentials(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
