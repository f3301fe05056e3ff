package routes

import (
	"errors"
	"log"

	"github.com/kataras/iris/v12"
	"github.com/whatsuppbro/tp-jobseeker-sub000/services"
	"github.com/whatsuppbro/tp-jobseeker-sub000/utils"
)

// handleServiceError maps service error types onto the error envelope
func handleServiceError(err error, ctx iris.Context) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var unauthorizedErr *services.UnauthorizedError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", err.Error())
	case errors.As(err, &notFoundErr):
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &unauthorizedErr):
		utils.JSONError(ctx, iris.StatusUnauthorized, "unauthorized", err.Error())
	case errors.As(err, &conflictErr):
		utils.JSONError(ctx, iris.StatusConflict, "conflict", err.Error())
	default:
		log.Printf("Unhandled service error: %v", err)
		utils.CreateInternalServerError(ctx)
	}
}

// currentUserID reads the authenticated user's ID set by the JWT middlewares
func currentUserID(ctx iris.Context) (uint, bool) {
	v := ctx.Values().Get("userID")
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
