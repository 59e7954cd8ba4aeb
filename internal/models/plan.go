// Package models содержит доменные структуры бота: тарифные планы,
// учётные записи пользователей и снимок хранилища, а также
// вспомогательные типы для приёма данных из чата перед валидацией.
package models

// Plan представляет тарифный план подписки на привязку WhatsApp.
type Plan struct {
	ID           string `json:"id"`       // Стабильный уникальный идентификатор
	Name         string `json:"name"`     // Отображаемое название тарифа
	Price        int    `json:"price"`    // Цена в PKR, целое число больше нуля
	DurationDays int    `json:"duration"` // Срок действия в календарных днях
	Features     string `json:"features"` // Краткое описание возможностей
	DeviceLimit  int    `json:"devices"`  // Лимит устройств, от 1 до 5
	Active       bool   `json:"active"`   // Неактивные тарифы скрыты из списка
}

// DummyPlan используется для приёма данных нового тарифа из чата,
// прежде чем конвертировать их в Plan. Поля проходят проверку
// struct-тегами валидатора.
type DummyPlan struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Price        int    `json:"price" validate:"required,gt=0"`
	DurationDays int    `json:"duration" validate:"required,gt=0"`
	Features     string `json:"features"`
	DeviceLimit  int    `json:"devices" validate:"required,gte=1,lte=5"`
	Active       bool   `json:"active"`
}

// PlanPatch описывает частичное обновление тарифа: nil-поле означает
// "оставить прежнее значение".
type PlanPatch struct {
	Name         *string
	Price        *int
	DurationDays *int
	Features     *string
	DeviceLimit  *int
	Active       *bool
}

// Apply накладывает патч на тариф и возвращает результат.
func (p PlanPatch) Apply(plan Plan) Plan {
	if p.Name != nil {
		plan.Name = *p.Name
	}
	if p.Price != nil {
		plan.Price = *p.Price
	}
	if p.DurationDays != nil {
		plan.DurationDays = *p.DurationDays
	}
	if p.Features != nil {
		plan.Features = *p.Features
	}
	if p.DeviceLimit != nil {
		plan.DeviceLimit = *p.DeviceLimit
	}
	if p.Active != nil {
		plan.Active = *p.Active
	}
	return plan
}
