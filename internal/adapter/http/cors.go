package httpadapter

import (
	"context"
	"slices"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	corsAllowMethods  = "GET,POST,OPTIONS"
	corsAllowHeaders  = "Content-Type,Cache-Control"
	corsExposeHeaders = headerTickID
	headerTickID      = "X-Tick-Id"
)

// allowOrigin returns the Access-Control-Allow-Origin value for a request origin,
// or "" when the origin is not allowed. An empty allow-list accepts any origin.
func allowOrigin(allowed []string, origin string) string {
	if len(allowed) == 0 {
		return "*"
	}
	if origin != "" && slices.Contains(allowed, origin) {
		return origin
	}
	return ""
}

func applyCORSHeaders(ctx *app.RequestContext, allowed []string) {
	origin := allowOrigin(allowed, string(ctx.Request.Header.Peek("Origin")))
	if len(allowed) > 0 {
		ctx.Response.Header.Set("Vary", "Origin")
	}
	if origin == "" {
		return
	}
	ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
	ctx.Response.Header.Set("Access-Control-Allow-Methods", corsAllowMethods)
	ctx.Response.Header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	ctx.Response.Header.Set("Access-Control-Expose-Headers", corsExposeHeaders)
	ctx.Response.Header.Set("Access-Control-Max-Age", "600")
}

// corsMiddleware lets a browser dashboard on an allowed origin read the ops
// endpoints and the tick id header.
func corsMiddleware(allowed []string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		applyCORSHeaders(ctx, allowed)
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
