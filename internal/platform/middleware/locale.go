// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/polyglot/internal/locale"
	"github.com/taibuivan/polyglot/internal/platform/ctxutil"
)

// # Locale Resolution

// LocaleResolver resolves the active locale key from the request query string
// and injects it into the context.
//
// # Flow
//  1. Read the scheme's variable names from r.URL.Query() (e.g. ?lang=fr&region=uk).
//  2. Missing or unrecognized slugs fall back to each variable's default.
//  3. Inject the resulting [locale.Key] via [ctxutil.WithLocaleKey].
//
// Downstream handlers never parse locale parameters themselves; they read the
// resolved key from the context.
func LocaleResolver(scheme *locale.Scheme) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			key := scheme.KeyFromValues(request.URL.Query())
			ctx := ctxutil.WithLocaleKey(request.Context(), key)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
