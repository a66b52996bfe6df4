// Package models содержит доменные структуры, описывающие заметку-мысль,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Источники появления заметки.
const (
	SourceTyped       = "typed"       // Заметка набрана пользователем
	SourceTranscribed = "transcribed" // Заметка получена транскрибацией аудио
)

// Thought представляет собой основную модель заметки,
// используемую в бизнес-логике и хранилище.
// Summary и ActionItems заполняются после суммаризации и могут быть пустыми.
type Thought struct {
	ID          int       // Идентификатор заметки
	UserUID     string    // Идентификатор владельца
	Username    string    // Имя пользователя-владельца
	Title       string    // Заголовок заметки
	Content     string    // Текст заметки
	Summary     string    // Краткое резюме, результат суммаризации
	ActionItems []string  // Список действий, извлеченных из заметки
	Source      string    // typed или transcribed
	CreatedAt   time.Time // Дата создания
}

// DummyThought используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Thought.
type DummyThought struct {
	Title   string `json:"title" validate:"required,max=200"` // Заголовок
	Content string `json:"content" validate:"required"`       // Текст заметки
}

// ThoughtSummary результат суммаризации заметки.
type ThoughtSummary struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"action_items"`
}

// NotificationInfo сообщение для сервиса рассылки об изменении статуса подписки.
type NotificationInfo struct {
	Email    string             `json:"email"`
	Username string             `json:"username"`
	Status   SubscriptionStatus `json:"status"`
}
