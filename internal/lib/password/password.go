// Package password реализует функции для безопасного хеширования и проверки
// секретов: паролей учётных записей и VIP PIN сайтов.
//
// GetHash создает bcrypt-хеш секрета для безопасного хранения.
// CompareHash сравнивает исходный bcrypt-хеш с введённым секретом; сравнение
// выполняется за постоянное время средствами bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash принимает секрет (пароль или PIN) и возвращает его bcrypt‑хэш.
//
// Используется для безопасного хранения секретов в базе данных.
func GetHash(secret string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым секретом.
//
// Возвращает nil, если секрет соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalSecret string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalSecret)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
