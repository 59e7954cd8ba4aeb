// Package storage реализует хранилище записей бота: пользователей,
// тарифных планов и черновиков причин отклонения оплаты.
//
// Store держит снимок данных в памяти и после каждой мутации синхронно
// сохраняет его целиком через внедрённый SnapshotSource. Ошибка записи
// логируется как предупреждение, состояние в памяти остаётся
// авторитетным до следующей успешной записи. Ошибка чтения при
// открытии понижается до "начать с настроек по умолчанию" и никогда
// не валит процесс.
package storage

import (
	"log/slog"
	"sync"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/lib/sl"
	"github.com/mrwasif-dev/telegram-subs-bot/internal/models"
)

// RejectionPending — маркер "причина ещё не введена" в черновике
// отклонения оплаты.
const RejectionPending = "pending"

// SnapshotSource определяет порт персистентности снимка.
type SnapshotSource interface {
	// Load читает снимок. Второй результат false, если снимка ещё нет.
	Load() (*models.Snapshot, bool, error)
	// Save целиком перезаписывает снимок.
	Save(snap *models.Snapshot) error
}

// Store — хранилище записей с синхронной персистентностью.
type Store struct {
	mu                sync.Mutex
	snap              *models.Snapshot
	pendingRejections map[string]string // только в памяти, не переживает рестарт
	src               SnapshotSource
	log               *slog.Logger
}

// Open загружает снимок из источника. Отсутствующий снимок
// инициализируется тарифами по умолчанию и сразу сохраняется,
// повреждённый — отбрасывается с предупреждением в лог.
func Open(src SnapshotSource, defaultPlans []models.Plan, log *slog.Logger) *Store {
	snap, found, err := src.Load()
	switch {
	case err != nil:
		log.Warn("failed to load snapshot, falling back to defaults", sl.Err(err))
		snap = models.NewSnapshot(defaultPlans)
	case !found:
		log.Info("no snapshot found, initializing with default plans")
		snap = models.NewSnapshot(defaultPlans)
		if err := src.Save(snap.Clone()); err != nil {
			log.Warn("failed to persist initial snapshot", sl.Err(err))
		}
	default:
		if snap.Users == nil {
			snap.Users = make(map[string]models.User)
		}
		if len(snap.Plans) == 0 {
			snap.Plans = append([]models.Plan(nil), defaultPlans...)
		}
	}

	return &Store{
		snap:              snap,
		pendingRejections: make(map[string]string),
		src:               src,
		log:               log,
	}
}

// persist сохраняет полный снимок, вызывается под мьютексом.
func (s *Store) persist() {
	if err := s.src.Save(s.snap.Clone()); err != nil {
		s.log.Warn("failed to persist snapshot", sl.Err(err))
	}
}

// User возвращает запись пользователя по идентификатору чата.
func (s *Store) User(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.snap.Users[id]
	return u, ok
}

// SaveUser записывает пользователя и синхронно сохраняет снимок.
func (s *Store) SaveUser(id string, u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Users[id] = u
	s.persist()
}

// DeleteUser удаляет запись пользователя и сохраняет снимок.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snap.Users, id)
	s.persist()
}

// Users возвращает копию отображения всех пользователей.
func (s *Store) Users() map[string]models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make(map[string]models.User, len(s.snap.Users))
	for id, u := range s.snap.Users {
		users[id] = u
	}
	return users
}

// Plan возвращает тариф по идентификатору, включая неактивные:
// уже оформленные подписки должны разрешаться всегда.
func (s *Store) Plan(id string) (models.Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.snap.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.Plan{}, false
}

// PlanByName возвращает тариф по названию. Записи пользователей хранят
// денормализованное название тарифа, подтверждение оплаты разрешает
// его через этот метод.
func (s *Store) PlanByName(name string) (models.Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.snap.Plans {
		if p.Name == name {
			return p, true
		}
	}
	return models.Plan{}, false
}

// ActivePlans возвращает только активные тарифы в порядке хранения.
func (s *Store) ActivePlans() []models.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	var plans []models.Plan
	for _, p := range s.snap.Plans {
		if p.Active {
			plans = append(plans, p)
		}
	}
	return plans
}

// Plans возвращает копию всего списка тарифов в порядке хранения.
func (s *Store) Plans() []models.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Plan(nil), s.snap.Plans...)
}

// AddPlan добавляет тариф в конец списка и сохраняет снимок.
func (s *Store) AddPlan(p models.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Plans = append(s.snap.Plans, p)
	s.persist()
}

// UpdatePlan накладывает патч на тариф: заданные поля перезаписываются,
// остальные сохраняются. Возвращает false, если тарифа нет.
func (s *Store) UpdatePlan(id string, patch models.PlanPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.snap.Plans {
		if p.ID == id {
			s.snap.Plans[i] = patch.Apply(p)
			s.persist()
			return true
		}
	}
	return false
}

// DeletePlan удаляет тариф по идентификатору. Возвращает false, если
// тарифа нет.
func (s *Store) DeletePlan(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.snap.Plans {
		if p.ID == id {
			s.snap.Plans = append(s.snap.Plans[:i], s.snap.Plans[i+1:]...)
			s.persist()
			return true
		}
	}
	return false
}

// PendingRejection возвращает черновик причины отклонения для
// пользователя.
func (s *Store) PendingRejection(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reason, ok := s.pendingRejections[id]
	return reason, ok
}

// PendingRejections возвращает копию всех черновиков отклонения.
func (s *Store) PendingRejections() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make(map[string]string, len(s.pendingRejections))
	for id, reason := range s.pendingRejections {
		pending[id] = reason
	}
	return pending
}

// SetPendingRejection запоминает черновик причины отклонения.
// Черновики живут только в памяти и не сохраняются в снимок.
func (s *Store) SetPendingRejection(id, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingRejections[id] = reason
}

// DeletePendingRejection удаляет черновик причины отклонения.
func (s *Store) DeletePendingRejection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pendingRejections, id)
}
