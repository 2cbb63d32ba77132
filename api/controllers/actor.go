package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/adiwijaya/larisin-backend/api/middleware"
	pkgerrors "github.com/adiwijaya/larisin-backend/pkg/errors"
)

// actorUserID returns the authenticated shopper id placed by middleware.
func actorUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing shopper identity")
	}
	return id, nil
}

// actorAdminID returns the authenticated admin id placed by middleware.
func actorAdminID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.AdminIDFromContext(r.Context())
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing admin identity")
	}
	return id, nil
}

// pathUUID parses a chi URL parameter as a uuid.
func pathUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a uuid")
	}
	return id, nil
}
