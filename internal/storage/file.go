package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mrwasif-dev/telegram-subs-bot/internal/models"
)

// FileSource хранит снимок в одном JSON-файле с ключами users и plans.
// Каждая запись переписывает файл целиком; частичного восстановления
// после сбоя нет — повреждённый файл отбрасывается при следующем
// открытии хранилища.
type FileSource struct {
	path string
}

// NewFileSource создаёт источник, пишущий в файл по заданному пути.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load читает и разбирает файл. Отсутствие файла не ошибка: возвращается
// found=false.
func (f *FileSource) Load() (*models.Snapshot, bool, error) {
	const op = "storage.FileSource.Load"

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &snap, true, nil
}

// Save переписывает файл новым снимком с отступами, как у исходного
// формата данных.
func (f *FileSource) Save(snap *models.Snapshot) error {
	const op = "storage.FileSource.Save"

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
