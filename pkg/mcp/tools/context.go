// Package tools provides MCP tool implementations for kpi-translator.
package tools

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/kpi-translator/pkg/services"
)

type glossaryContextKey struct{}

// WithGlossary binds a glossary to the request context. The MCP session middleware
// calls this after resolving the session ID in the URL.
func WithGlossary(ctx context.Context, glossary services.GlossaryService) context.Context {
	return context.WithValue(ctx, glossaryContextKey{}, glossary)
}

// GlossaryFromContext returns the glossary bound to ctx.
func GlossaryFromContext(ctx context.Context) (services.GlossaryService, bool) {
	glossary, ok := ctx.Value(glossaryContextKey{}).(services.GlossaryService)
	return glossary, ok && glossary != nil
}

// requireGlossary returns the bound glossary or an error for the MCP protocol layer.
func requireGlossary(ctx context.Context) (services.GlossaryService, error) {
	glossary, ok := GlossaryFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no glossary session bound to this request")
	}
	return glossary, nil
}
