// Package authgate реализует единую точку авторизации приложения:
// разбор учетных данных запроса, загрузку идентичности через внешнего
// провайдера, проверку биллингового статуса и трансляцию отказа в ответ.
//
// Все защищенные обработчики и страницы проходят через Gate до выполнения
// бизнес-логики; таблица трансляции отказов существует только здесь.
package authgate

import "errors"

// Таксономия ошибок внешних вызовов. Отсутствие учетных данных ошибкой
// не является и до этих значений не доходит.
var (
	// ErrInvalidCredential — учетные данные предъявлены, но отвергнуты провайдером
	// (истекший, отозванный или поврежденный токен).
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrUpstreamUnavailable — провайдер идентификации или хранилище недоступны
	// либо не ответили вовремя. Никогда не трактуется как Anonymous или Active:
	// пропуск при сбое обошел бы проверку подписки.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
