package auth

import "context"

type principalContextKey struct{}

// ContextWithPrincipal attaches the verified principal to the request
// context. Handlers and the credential resolver read it back; nothing else
// identity-related travels in the context.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext returns the principal attached by the auth
// middleware, or false when the request never passed authentication.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}
