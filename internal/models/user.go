// Package models содержит доменные структуры блога: пользователя, пост и
// строки отчёта. Структуры используются в бизнес-логике, хранилище и
// сериализуются в ответы API.
package models

import "time"

// User представляет зарегистрированного пользователя.
// Хеш пароля никогда не сериализуется в ответы.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      *Address  `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Address — необязательный адрес пользователя.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// NewUser — данные для регистрации пользователя.
type NewUser struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Address  *Address `json:"address,omitempty"`
}
