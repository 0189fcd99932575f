// Package password проверяет пароли операторов по bcrypt-хэшам из конфига
// и выпускает такие хэши для утилиты hash-password.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch: пароль не соответствует хэшу или хэш пуст.
var ErrMismatch = errors.New("password mismatch")

// dummyHash сравнивается, когда у роли нет хэша, чтобы время ответа не выдавало,
// какие логины существуют.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z2mSq6jZ5oP6E2q7nQz8bW1e")

// GetHash принимает пароль и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil при совпадении, иначе ошибку, обёрнутую в ErrMismatch.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if originalHash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(externalPassword))
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrMismatch, err)
	}
	return nil
}
