// storage определяет контракты доступа к хранилищу статей.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/articles-service/internal/models"
)

var (
	// ErrNotFound - сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID - идентификатор не соответствует формату хранилища.
	ErrInvalidID = errors.New("invalid id")
)

// ArticleStorage описывает операции над сущностью models.Article.
type ArticleStorage interface {
	// CreateArticle сохраняет статью; ID, CreatedAt и UpdatedAt назначает хранилище.
	CreateArticle(ctx context.Context, article models.Article) (*models.Article, error)

	// ListArticles возвращает все статьи, подходящие под фильтр,
	// отсортированные по publishedDate DESC. Пустой результат - пустой срез.
	ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error)

	// ArticleByID возвращает статью по идентификатору.
	// Ошибки: ErrInvalidID (битый формат), ErrNotFound.
	ArticleByID(ctx context.Context, id string) (*models.Article, error)

	// UpdateArticle записывает только переданные поля патча и обновляет UpdatedAt.
	// Возвращает статью после обновления. Ошибки: ErrInvalidID, ErrNotFound.
	UpdateArticle(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error)

	// DeleteArticle удаляет статью и возвращает её последнее состояние.
	// Ошибки: ErrInvalidID, ErrNotFound.
	DeleteArticle(ctx context.Context, id string) (*models.Article, error)
}

// Storage - полный контракт хранилища, включая жизненный цикл соединения.
type Storage interface {
	ArticleStorage

	// Ping проверяет доступность хранилища (readiness).
	Ping(ctx context.Context) error

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
