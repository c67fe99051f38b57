package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"reqboard/pkg/common"
	pkgerrors "reqboard/pkg/errors"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// decodeBody parses and validates a JSON request body
func decodeBody(r *http.Request, v interface{}) error {
	if err := common.ParseJSONBody(r, v, maxBodyBytes); err != nil {
		return pkgerrors.NewValidationError("malformed request body").WithCause(err)
	}
	if err := validate.Struct(v); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// pathID parses a numeric id path parameter
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, pkgerrors.NewValidationError(name + " must be a positive integer")
	}
	return id, nil
}

// queryBool parses an optional boolean query parameter
func queryBool(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "true" || v == "1" || v == "yes"
}
