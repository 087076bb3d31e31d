package auth

import "context"

func (m *Middleware) GetUser(ctx context.Context) User {
	if u, ok := ctx.Value(userCtxKey).(User); ok {
		return u
	}
	return User{}
}

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	return m.GetUser(ctx).Username != ""
}

// IsAdmin is true for any authenticated caller when no admin role is set.
func (m *Middleware) IsAdmin(ctx context.Context) bool {
	u := m.GetUser(ctx)
	if u.Username == "" {
		return false
	}
	return m.cfg.AdminRole == "" || u.Role.Name == m.cfg.AdminRole
}
