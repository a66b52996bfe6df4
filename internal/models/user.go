// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи и роль доступа.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей. Роль по умолчанию при регистрации — RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
// Учётная запись создаётся провайдером идентификации; локально хранится зеркало
// с ролью и служебными данными.
type User struct {
	UID          string            // Уникальный идентификатор пользователя (выдается провайдером)
	Email        string            // Электронная почта
	Username     string            // Имя пользователя (уникальное)
	Role         string            // Роль пользователя, admin или user
	Metadata     map[string]string // Непрозрачные метаданные из провайдера идентификации
	PasswordHash string            `json:"-"` // bcrypt-хэш пароля в локальном зеркале; наружу не отдается
	CreatedAt    time.Time
}

// IsAdmin сообщает, является ли пользователь администратором.
// Пустая или неизвестная роль трактуется как user.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
