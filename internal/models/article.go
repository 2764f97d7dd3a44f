// Package models содержит доменные сущности articles-сервиса.
package models

import (
	"strings"
	"time"
)

const (
	// DefaultAuthor - автор по умолчанию, если он не передан.
	DefaultAuthor = "Anonymous"
	// MaxTitleLength - максимальная длина заголовка в символах.
	MaxTitleLength = 200
	// MaxTags - максимальное количество тегов у статьи.
	MaxTags = 5
)

// Article - доменная модель статьи.
//
// Особенности:
//   - ID - hex ObjectID MongoDB, назначается хранилищем один раз и не меняется;
//   - Title/Content всегда непустые у сохранённой статьи;
//   - CreatedAt/UpdatedAt проставляет хранилище; все времена в UTC.
type Article struct {
	ID            string
	Title         string `validate:"notblank,max=200"`
	Content       string `validate:"notblank"`
	Author        string
	Tags          []string `validate:"max=5"`
	PublishedDate time.Time
	IsPublished   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ArticlePatch - набор полей, пришедших от клиента. nil - поле не передано.
type ArticlePatch struct {
	Title         *string
	Content       *string
	Author        *string
	Tags          *[]string
	PublishedDate *time.Time
	IsPublished   *bool
}

// Empty сообщает, что не передано ни одного поля.
func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Author == nil &&
		p.Tags == nil && p.PublishedDate == nil && p.IsPublished == nil
}

// Normalized возвращает копию патча с применёнными правилами хранения:
// title и author обрезаются по краям, пустой author заменяется на DefaultAuthor,
// nil-срез тегов превращается в пустой.
func (p ArticlePatch) Normalized() ArticlePatch {
	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		p.Title = &v
	}

	if p.Author != nil {
		v := strings.TrimSpace(*p.Author)
		if v == "" {
			v = DefaultAuthor
		}
		p.Author = &v
	}

	if p.Tags != nil {
		tags := make([]string, len(*p.Tags))
		copy(tags, *p.Tags)
		p.Tags = &tags
	}

	if p.PublishedDate != nil {
		v := p.PublishedDate.UTC()
		p.PublishedDate = &v
	}

	return p
}

// NewArticle собирает новую статью из клиентских полей и проставляет дефолты:
// author = "Anonymous", publishedDate = now, isPublished = false, tags = [].
// Возвращает *ValidationError, если нарушено хоть одно ограничение сущности.
func NewArticle(p ArticlePatch, now time.Time) (*Article, error) {
	a := &Article{
		Author:        DefaultAuthor,
		Tags:          []string{},
		PublishedDate: now.UTC(),
	}

	a.Apply(p)

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

// Apply переносит в статью все переданные поля патча (после нормализации).
// ID и служебные метки времени не затрагиваются.
func (a *Article) Apply(p ArticlePatch) {
	p = p.Normalized()

	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Author != nil {
		a.Author = *p.Author
	}
	if p.Tags != nil {
		a.Tags = *p.Tags
	}
	if p.PublishedDate != nil {
		a.PublishedDate = *p.PublishedDate
	}
	if p.IsPublished != nil {
		a.IsPublished = *p.IsPublished
	}
}

// ArticleFilter - необязательные условия выборки списка.
// Нулевые значения не накладывают ограничений.
type ArticleFilter struct {
	// Tags - статья подходит, если содержит хотя бы один тег из списка.
	Tags []string
	// PublishedFrom - publishedDate >= PublishedFrom.
	PublishedFrom *time.Time
	// IsPublished - точное совпадение флага публикации.
	IsPublished *bool
	// Author - подстрока имени автора без учёта регистра.
	Author string
	// Search - полнотекстовый поиск по title+content.
	Search string
}
