// Package dates реализует календарные даты без времени суток для
// расчёта сроков подписки. Все операции работают с фиксированным
// смещением часового пояса, а не с локальной зоной хоста, поэтому
// поведение не зависит от места развёртывания.
//
// Дата сериализуется в строку формата "02-01-2006" (день-месяц-год),
// нулевое значение — как JSON null.
package dates

import (
	"bytes"
	"fmt"
	"time"
)

// Layout формат даты в хранимом файле и в сообщениях бота.
const Layout = "02-01-2006"

// Date представляет календарную дату с точностью до дня.
// Нулевое значение означает "дата не установлена".
type Date struct {
	Day   int
	Month int
	Year  int
}

// Today возвращает текущую дату в часовом поясе с заданным смещением
// в часах от UTC.
func Today(offsetHours int) Date {
	return FromTime(time.Now(), offsetHours)
}

// FromTime приводит момент времени к календарной дате в поясе с
// заданным смещением в часах от UTC.
func FromTime(t time.Time, offsetHours int) Date {
	shifted := t.UTC().Add(time.Duration(offsetHours) * time.Hour)
	return Date{Day: shifted.Day(), Month: int(shifted.Month()), Year: shifted.Year()}
}

// Parse разбирает строку формата "02-01-2006" в Date.
func Parse(s string) (Date, error) {
	const op = "dates.Parse"
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%s: %w", op, err)
	}
	return Date{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}, nil
}

// IsZero сообщает, установлена ли дата.
func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays возвращает дату через n календарных дней. Переполнение
// месяца и года обрабатывается через time.AddDate.
func (d Date) AddDays(n int) Date {
	t := d.toTime().AddDate(0, 0, n)
	return Date{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}
}

// Before сообщает, что d строго раньше other.
func (d Date) Before(other Date) bool {
	return d.toTime().Before(other.toTime())
}

// After сообщает, что d строго позже other.
func (d Date) After(other Date) bool {
	return d.toTime().After(other.toTime())
}

func (d Date) toTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// String возвращает дату в формате "02-01-2006", пустую строку для
// неустановленной даты.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.toTime().Format(Layout)
}

var jsonNull = []byte("null")

// MarshalJSON сериализует дату как строку "02-01-2006".
// Неустановленная дата сериализуется как null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return jsonNull, nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON принимает строку "02-01-2006", null или пустую строку.
func (d *Date) UnmarshalJSON(data []byte) error {
	const op = "dates.UnmarshalJSON"
	if bytes.Equal(data, jsonNull) {
		*d = Date{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%s: not a string: %s", op, data)
	}
	s := string(data[1 : len(data)-1])
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	*d = parsed
	return nil
}
