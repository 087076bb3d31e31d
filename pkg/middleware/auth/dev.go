package auth

import "net/http"

// devUserFromHeaders reads X-Dev-User / X-Dev-Role when AUTH_DEV_BYPASS=true.
func devUserFromHeaders(r *http.Request) User {
	user := r.Header.Get("X-Dev-User")
	if user == "" {
		return User{}
	}
	return User{
		Username:             user,
		AuthenticationSource: AuthenticationSource{Provider: "dev"},
		Role:                 Role{Name: r.Header.Get("X-Dev-Role")},
	}
}
