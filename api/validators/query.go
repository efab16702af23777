package validators

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	pkgerrors "github.com/universalshop/shop-backend/pkg/errors"
)

// ParseQueryBool reads an optional boolean query parameter. Returns nil
// when the parameter is absent.
func ParseQueryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a boolean")
	}
	return &v, nil
}

// ParseQueryUUID reads an optional uuid query parameter. Returns nil
// when the parameter is absent.
func ParseQueryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a uuid")
	}
	return &id, nil
}

// ParsePathUUID reads a required uuid path segment value.
func ParsePathUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a uuid")
	}
	return id, nil
}
