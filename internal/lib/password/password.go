// Package password реализует безопасное хранение паролей аккаунтов.
//
// Hash создаёт bcrypt-хеш для записи в хранилище, Verify сверяет
// введённый пароль с сохранённым хешем.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash принимает пароль пользователя и возвращает его bcrypt-хеш.
func Hash(plain string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сверяет сохранённый bcrypt-хеш с введённым паролем.
// Возвращает nil при совпадении.
func Verify(storedHash, plain string) error {
	const op = "password.Verify"
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plain)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
