package httpd

import "net/http"

const (
	headerProfileID   = "X-Profile-ID"
	headerProfileRole = "X-Profile-Role"

	RoleCR      = "CR"
	RoleStudent = "Student"
)

// identity — кто делает запрос. Заголовки проставляет доверенный шлюз,
// сам сервис токены не проверяет.
type identity struct {
	ProfileID string
	Role      string
}

func identityFromRequest(r *http.Request) (identity, bool) {
	id := r.Header.Get(headerProfileID)
	if id == "" {
		return identity{}, false
	}

	role := r.Header.Get(headerProfileRole)
	if role == "" {
		role = RoleStudent
	}

	return identity{ProfileID: id, Role: role}, true
}

func (i identity) isCR() bool {
	return i.Role == RoleCR
}
