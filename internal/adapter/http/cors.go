package httpadapter

import (
	"context"
	"slices"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	corsAllowMethods = "GET,POST,OPTIONS"
	corsAllowHeaders = "Content-Type,Accept"
	corsMaxAge       = "600"
)

// corsPolicy answers cross-origin requests from the mission dashboards. An empty origin
// list, or one containing "*", allows any origin.
type corsPolicy struct {
	origins []string
}

func (p corsPolicy) allowOrigin(origin string) string {
	if len(p.origins) == 0 || slices.Contains(p.origins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(p.origins, origin) {
		return origin
	}
	return ""
}

func (p corsPolicy) apply(ctx *app.RequestContext) {
	allowed := p.allowOrigin(string(ctx.Request.Header.Peek("Origin")))
	if allowed == "" {
		return
	}
	h := &ctx.Response.Header
	h.Set("Access-Control-Allow-Origin", allowed)
	if allowed != "*" {
		h.Set("Vary", "Origin")
	}
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Max-Age", corsMaxAge)
}

func corsMiddleware(origins []string) app.HandlerFunc {
	policy := corsPolicy{origins: origins}
	return func(c context.Context, ctx *app.RequestContext) {
		policy.apply(ctx)
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
