package domain

import (
	"errors"
	"fmt"
)

// Ошибки ядра. Детали добавляются через fmt.Errorf("%w: ...").
var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrInvalidPosition   = errors.New("invalid position")
	ErrInvalidItem       = errors.New("invalid item")
	ErrInventoryFull     = fmt.Errorf("%w: inventory is full", ErrInvalidItem)
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidCommand    = errors.New("invalid command")
	ErrDatabase          = errors.New("database error")
	ErrInternal          = errors.New("internal error")
)

// Коды ошибок для клиентов (HTTP и протокол).
const (
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodeInvalidPosition   = "INVALID_POSITION"
	CodeInvalidItem       = "INVALID_ITEM"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeInvalidName       = "INVALID_NAME"
	CodeInvalidCommand    = "INVALID_COMMAND"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Code возвращает код для ошибки. Неизвестные ошибки считаются внутренними.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrPlayerNotFound):
		return CodePlayerNotFound
	case errors.Is(err, ErrInvalidPosition):
		return CodeInvalidPosition
	case errors.Is(err, ErrInvalidItem):
		return CodeInvalidItem
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrInvalidName):
		return CodeInvalidName
	case errors.Is(err, ErrInvalidCommand):
		return CodeInvalidCommand
	case errors.Is(err, ErrDatabase):
		return CodeDatabaseError
	default:
		return CodeInternalError
	}
}
