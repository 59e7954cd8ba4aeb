package models

// Snapshot — полный снимок хранилища: персистентный JSON-документ
// с двумя верхнеуровневыми ключами. Users — отображение идентификатора
// чата в запись пользователя, Plans — упорядоченный список тарифов.
type Snapshot struct {
	Users map[string]User `json:"users"`
	Plans []Plan          `json:"plans"`
}

// NewSnapshot возвращает пустой снимок с заданным списком тарифов.
func NewSnapshot(plans []Plan) *Snapshot {
	return &Snapshot{
		Users: make(map[string]User),
		Plans: append([]Plan(nil), plans...),
	}
}

// Clone возвращает глубокую копию снимка. Источники персистентности
// получают копию, чтобы запись на диск не гонялась с мутациями.
func (s *Snapshot) Clone() *Snapshot {
	users := make(map[string]User, len(s.Users))
	for id, u := range s.Users {
		users[id] = u
	}
	return &Snapshot{
		Users: users,
		Plans: append([]Plan(nil), s.Plans...),
	}
}
