package storage

import "github.com/mrwasif-dev/telegram-subs-bot/internal/models"

// MemorySource — источник снимка в памяти: применяется в тестах и как
// заглушка, когда персистентность не нужна.
type MemorySource struct {
	snap    *models.Snapshot
	loadErr error
	saveErr error
	saves   int
}

// NewMemorySource создаёт пустой источник. При непустом начальном
// снимке Load вернёт found=true.
func NewMemorySource(initial *models.Snapshot) *MemorySource {
	return &MemorySource{snap: initial}
}

// FailLoad заставляет Load возвращать ошибку — для проверки ветки
// "повреждённый снимок".
func (m *MemorySource) FailLoad(err error) { m.loadErr = err }

// FailSave заставляет Save возвращать ошибку.
func (m *MemorySource) FailSave(err error) { m.saveErr = err }

// Load возвращает сохранённый снимок, если он есть.
func (m *MemorySource) Load() (*models.Snapshot, bool, error) {
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	if m.snap == nil {
		return nil, false, nil
	}
	return m.snap.Clone(), true, nil
}

// Save запоминает копию снимка.
func (m *MemorySource) Save(snap *models.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap.Clone()
	m.saves++
	return nil
}

// Saves возвращает число успешных записей снимка.
func (m *MemorySource) Saves() int { return m.saves }

// Snapshot возвращает последний сохранённый снимок, nil если записей
// не было.
func (m *MemorySource) Snapshot() *models.Snapshot {
	return m.snap
}
