package utils

import (
	"strconv"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func UserIDMiddleware(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	claims := jwt.Get(ctx).(*AccessToken)

	userID := strconv.FormatUint(uint64(claims.ID), 10)

	if userID != id {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}
	ctx.Next()
}

// UserIDFromTokenMiddleware extracts user ID from JWT token and stores it in context
// Use this for routes that don't have {id} parameter in URL
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// AdminOnlyMiddleware ensures the requester has admin or super_admin role
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	role := claims.Role
	if role != "admin" && role != "super_admin" {
		CreateError(iris.StatusForbidden, "forbidden", "admin access required", ctx)
		return
	}
	// Ensure userID is available to downstream handlers
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// SuperAdminOnlyMiddleware ensures only super admins can access
func SuperAdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	role := claims.Role
	if role != "super_admin" {
		CreateError(iris.StatusForbidden, "forbidden", "super_admin access required", ctx)
		return
	}
	ctx.Next()
}

// CompanyRoleMiddleware ensures the requester registered as a company
func CompanyRoleMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != "company" && claims.Role != "admin" && claims.Role != "super_admin" {
		CreateError(iris.StatusForbidden, "forbidden", "company account required", ctx)
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// SeekerRoleMiddleware ensures the requester registered as a job seeker
func SeekerRoleMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != "seeker" {
		CreateError(iris.StatusForbidden, "forbidden", "seeker account required", ctx)
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}
