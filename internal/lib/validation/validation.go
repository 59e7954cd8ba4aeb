// Package validation реализует чистые предикаты для проверки
// пользовательского ввода из чата: пароль, номер WhatsApp и числовые
// поля тарифа. Функции не имеют состояния и возвращают только bool,
// текст ошибки формирует вызывающая сторона.
package validation

import (
	"strconv"
	"unicode"
)

// Password проверяет стойкость пароля: длина не менее 8 символов,
// есть хотя бы одна строчная буква, одна заглавная и одна цифра.
func Password(s string) bool {
	if len(s) < 8 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}

// WhatsAppNumber проверяет форму номера: после удаления всех нецифровых
// символов должно остаться от 10 до 13 цифр.
func WhatsAppNumber(s string) bool {
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10 && digits <= 13
}

// Price проверяет, что строка разбирается в целое число больше нуля.
func Price(s string) bool {
	return positiveInt(s)
}

// Duration проверяет, что строка разбирается в целое число дней больше нуля.
func Duration(s string) bool {
	return positiveInt(s)
}

// Devices проверяет, что строка разбирается в целое число устройств
// в диапазоне от 1 до 5.
func Devices(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 5
}

func positiveInt(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}
