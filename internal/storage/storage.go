// Package storage содержит ошибки слоя хранения, общие для репозиториев и сервисов.
package storage

import "errors"

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken имя пользователя уже занято (без учёта регистра).
	ErrUsernameTaken = errors.New("username already taken")
	// ErrNoSubscription у личности нет хранимого состояния подписки (владелец).
	ErrNoSubscription = errors.New("identity has no stored subscription")
)
