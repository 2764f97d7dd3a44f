// service содержит бизнес-логику articles-сервиса.
package service

import (
	"errors"
	"time"

	"github.com/pribylovaa/articles-service/internal/storage"
)

var (
	// ErrNotFound - статья отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID - идентификатор имеет неверный формат.
	ErrInvalidID = errors.New("invalid id")
	// ErrValidation - нарушены ограничения сущности; детали в *models.ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrInternal - внутренняя ошибка (хранилище/БД/контекст и т.д.).
	ErrInternal = errors.New("internal")
)

// Service - бизнес-логика работы со статьями.
type Service struct {
	storage storage.ArticleStorage
	now     func() time.Time
}

// New создаёт новый экземпляр Service поверх хранилища.
func New(storage storage.ArticleStorage) *Service {
	return &Service{
		storage: storage,
		now:     time.Now,
	}
}
