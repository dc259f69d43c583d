package main

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/myrjola/fitcycle/internal/catalog"
)

// exerciseResponse is a catalog record with its markdown description rendered to HTML.
type exerciseResponse struct {
	catalog.Exercise

	DescriptionHTML string `json:"description_html"`
}

// exerciseGET responds with a catalog exercise. Raw HTML in the description is escaped by the renderer.
func (app *application) exerciseGET(w http.ResponseWriter, r *http.Request) {
	exercise, err := app.programs.Exercise(r.PathValue("exerciseID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err = app.markdown.Convert([]byte(exercise.Description), &buf); err != nil {
		app.serverError(w, r, fmt.Errorf("render description of %s: %w", exercise.ID, err))
		return
	}
	app.writeJSON(w, r, http.StatusOK, exerciseResponse{
		Exercise:        exercise,
		DescriptionHTML: buf.String(),
	})
}
