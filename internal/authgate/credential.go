package authgate

import (
	"net/http"
	"strings"
)

// Credential непрозрачные учетные данные запроса. Нулевое значение — аноним.
type Credential struct {
	AccessToken  string
	RefreshToken string
}

// Anonymous сообщает, что запрос не несет учетных данных.
func (c Credential) Anonymous() bool {
	return c.AccessToken == ""
}

// ResolveCredential извлекает учетные данные из запроса: сначала заголовок
// Authorization: Bearer, затем cookies. Любая ошибка чтения означает
// "не залогинен", а не сбой: функция никогда не возвращает ошибку.
func ResolveCredential(r *http.Request, accessCookie, refreshCookie string) Credential {
	var cred Credential

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		cred.AccessToken = strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cred.AccessToken == "" {
		if cookie, err := r.Cookie(accessCookie); err == nil {
			cred.AccessToken = cookie.Value
		}
	}
	if cookie, err := r.Cookie(refreshCookie); err == nil {
		cred.RefreshToken = cookie.Value
	}
	return cred
}

// WriteCookies записывает учетные данные в ответ. Используется после ротации
// сессии провайдером, чтобы клиентская сессия не истекла посреди работы.
func (c Credential) WriteCookies(w http.ResponseWriter, accessCookie, refreshCookie string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    c.AccessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    c.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
