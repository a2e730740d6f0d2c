package permissions

import "context"

type permissionContextKey struct{}

// NewContext stores the resolved permission in context.
func NewContext(ctx context.Context, perm Permission) context.Context {
	return context.WithValue(ctx, permissionContextKey{}, perm)
}

// FromContext extracts the permission from context. The zero value is the
// anonymous permission.
func FromContext(ctx context.Context) Permission {
	perm, _ := ctx.Value(permissionContextKey{}).(Permission)
	return perm
}
