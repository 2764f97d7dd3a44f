package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/articles-service/internal/models"
	"github.com/pribylovaa/articles-service/internal/pkg/log"
	"github.com/pribylovaa/articles-service/internal/storage"
)

// ListArticles - все статьи под фильтр, сначала новые по publishedDate.
//
// Поведение/ошибки:
//   - пустой результат не является ошибкой (возвращается пустой срез);
//   - ErrInternal - ошибки хранилища.
func (s *Service) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	const op = "service/articles/ListArticles"

	lg := log.From(ctx).With("op", op)

	filter.Tags = compactTags(filter.Tags)

	items, err := s.storage.ListArticles(ctx, filter)
	if err != nil {
		lg.Error("storage error on ListArticles", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if items == nil {
		items = []models.Article{}
	}

	return items, nil
}

// ArticleByID - получить статью по ID.
//
// Поведение/ошибки:
//   - ErrInvalidID - битый формат идентификатора;
//   - ErrNotFound - статьи нет;
//   - ErrInternal - иные ошибки хранилища.
func (s *Service) ArticleByID(ctx context.Context, id string) (*models.Article, error) {
	const op = "service/articles/ArticleByID"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	result, err := s.storage.ArticleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageError(lg, err))
	}

	return result, nil
}

// CreateArticle - создать статью из клиентских полей.
//
// Валидация (авторитетная, независимо от HTTP-проверок):
//   - title обязателен и не длиннее 200 символов, content обязателен, не более 5 тегов.
//
// Поведение/ошибки:
//   - ErrValidation (+ *models.ValidationError в цепочке) - нарушены ограничения;
//   - ErrInternal - ошибки хранилища.
func (s *Service) CreateArticle(ctx context.Context, in models.ArticlePatch) (*models.Article, error) {
	const op = "service/articles/CreateArticle"

	lg := log.From(ctx).With("op", op)

	article, err := models.NewArticle(in, s.now())
	if err != nil {
		lg.Warn("invalid article", "err", err)
		return nil, validationFailure(op, err)
	}

	result, err := s.storage.CreateArticle(ctx, *article)
	if err != nil {
		lg.Error("storage error on CreateArticle", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Debug("article created", "id", result.ID)

	return result, nil
}

// UpdateArticle - частичное обновление: записываются только переданные поля.
// Итоговый документ (текущий + патч) проходит ту же валидацию, что и при создании.
//
// Поведение/ошибки:
//   - ErrInvalidID / ErrNotFound - статьи с таким ID нет;
//   - ErrValidation - итоговый документ нарушает ограничения;
//   - ErrInternal - ошибки хранилища.
func (s *Service) UpdateArticle(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error) {
	const op = "service/articles/UpdateArticle"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	current, err := s.storage.ArticleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageError(lg, err))
	}

	patch = patch.Normalized()
	if patch.Empty() {
		return current, nil
	}

	merged := *current
	merged.Apply(patch)
	if err := merged.Validate(); err != nil {
		lg.Warn("invalid article", "err", err)
		return nil, validationFailure(op, err)
	}

	result, err := s.storage.UpdateArticle(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageError(lg, err))
	}

	return result, nil
}

// DeleteArticle - удалить статью и вернуть её последнее состояние.
//
// Поведение/ошибки:
//   - ErrInvalidID / ErrNotFound - статьи с таким ID нет;
//   - ErrInternal - ошибки хранилища.
func (s *Service) DeleteArticle(ctx context.Context, id string) (*models.Article, error) {
	const op = "service/articles/DeleteArticle"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	result, err := s.storage.DeleteArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageError(lg, err))
	}

	return result, nil
}

// mapStorageError переводит ошибки хранилища в сервисные и логирует их с нужным уровнем.
func mapStorageError(lg *slog.Logger, err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		lg.Warn("invalid article id")
		return ErrInvalidID
	case errors.Is(err, storage.ErrNotFound):
		lg.Warn("article not found")
		return ErrNotFound
	default:
		lg.Error("storage error", "err", err)
		return ErrInternal
	}
}

// validationFailure оборачивает ошибку валидации так, чтобы работали
// и errors.Is(err, ErrValidation), и models.AsValidationError(err).
func validationFailure(op string, err error) error {
	if _, ok := models.AsValidationError(err); ok {
		return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
	}

	return fmt.Errorf("%s: %w", op, ErrInternal)
}

// compactTags убирает пробелы по краям и пустые теги из фильтра.
func compactTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}
