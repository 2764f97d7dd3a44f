// Package dto описывает полезные нагрузки HTTP-слоя: тела запросов,
// ответы и конверсию в доменные модели.
package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/articles-service/internal/models"
)

const (
	MsgInvalidBody          = "Invalid request body"
	MsgInvalidPublishedDate = "Published date must be a valid date"
)

// dateLayouts - допустимые форматы publishedDate (в теле и в query).
// Значения без зоны трактуются как UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate разбирает дату в одном из dateLayouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, err
}

var (
	errBadTags        = errors.New("tags must be a string or an array of strings")
	errBadIsPublished = errors.New("isPublished must be a boolean")
)

// ArticleRequest - тело POST/PUT /articles. nil - поле не передано.
// Неизвестные ключи игнорируются (и в JSON, и в форме).
type ArticleRequest struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	Author        *string   `json:"author"`
	Tags          *[]string `json:"tags"`
	PublishedDate *string   `json:"publishedDate"`
	IsPublished   *bool     `json:"isPublished"`
}

// UnmarshalJSON принимает tags строкой или массивом строк,
// isPublished - булевым значением или строкой ("true", "0", ...).
func (a *ArticleRequest) UnmarshalJSON(b []byte) error {
	type plain ArticleRequest
	aux := struct {
		*plain
		Tags        json.RawMessage `json:"tags"`
		IsPublished json.RawMessage `json:"isPublished"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	if tags, ok, err := decodeTags(aux.Tags); err != nil {
		return err
	} else if ok {
		a.Tags = &tags
	}

	if v, ok, err := decodeBool(aux.IsPublished); err != nil {
		return err
	} else if ok {
		a.IsPublished = &v
	}

	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func decodeTags(raw json.RawMessage) ([]string, bool, error) {
	if isNull(raw) {
		return nil, false, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, true, nil
	}

	var one string
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, false, errBadTags
	}

	return []string{one}, true, nil
}

func decodeBool(raw json.RawMessage) (bool, bool, error) {
	if isNull(raw) {
		return false, false, nil
	}

	var v bool
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, true, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, false, errBadIsPublished
	}

	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false, errBadIsPublished
	}

	return v, true, nil
}

// FromForm заполняет запрос из x-www-form-urlencoded тела.
// tags собираются из повторяющихся "tags" и "tags[]".
func (a *ArticleRequest) FromForm(form url.Values) error {
	str := func(key string) *string {
		if _, ok := form[key]; !ok {
			return nil
		}
		v := form.Get(key)
		return &v
	}

	a.Title = str("title")
	a.Content = str("content")
	a.Author = str("author")
	a.PublishedDate = str("publishedDate")

	_, plain := form["tags"]
	_, bracket := form["tags[]"]
	if plain || bracket {
		tags := make([]string, 0, len(form["tags"])+len(form["tags[]"]))
		tags = append(tags, form["tags"]...)
		tags = append(tags, form["tags[]"]...)
		a.Tags = &tags
	}

	if s := str("isPublished"); s != nil {
		v, err := strconv.ParseBool(strings.TrimSpace(*s))
		if err != nil {
			return errBadIsPublished
		}
		a.IsPublished = &v
	}

	return nil
}

// Bind реализует render.Binder: проверяет формат publishedDate.
func (a *ArticleRequest) Bind(_ *http.Request) error {
	if a.PublishedDate == nil {
		return nil
	}

	if _, err := ParseDate(*a.PublishedDate); err != nil {
		ve := &models.ValidationError{}
		ve.Add("publishedDate", MsgInvalidPublishedDate)
		return ve
	}

	return nil
}

// ToPatch переводит запрос в доменный патч.
func (a *ArticleRequest) ToPatch() (models.ArticlePatch, error) {
	p := models.ArticlePatch{
		Title:       a.Title,
		Content:     a.Content,
		Author:      a.Author,
		Tags:        a.Tags,
		IsPublished: a.IsPublished,
	}

	if a.PublishedDate != nil {
		t, err := ParseDate(*a.PublishedDate)
		if err != nil {
			ve := &models.ValidationError{}
			ve.Add("publishedDate", MsgInvalidPublishedDate)
			return models.ArticlePatch{}, ve
		}
		p.PublishedDate = &t
	}

	return p, nil
}

// ArticleResponse - статья в ответах API.
type ArticleResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	Tags          []string  `json:"tags"`
	PublishedDate time.Time `json:"publishedDate"`
	IsPublished   bool      `json:"isPublished"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func ArticleFromModel(a *models.Article) ArticleResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}

	return ArticleResponse{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		Author:        a.Author,
		Tags:          tags,
		PublishedDate: a.PublishedDate,
		IsPublished:   a.IsPublished,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func ArticlesFromModels(items []models.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(items))
	for i := range items {
		out = append(out, ArticleFromModel(&items[i]))
	}

	return out
}

// ParseArticleFilter собирает фильтр списка из query-параметров:
//   - tags: через запятую, пустые элементы отбрасываются;
//   - publishedDate: "не раньше", форматы ParseDate;
//   - isPublished: если передан, то значение == "true";
//   - author, search: как есть.
func ParseArticleFilter(q url.Values) (models.ArticleFilter, error) {
	var f models.ArticleFilter

	if raw := q.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	if raw := q.Get("publishedDate"); raw != "" {
		t, err := ParseDate(raw)
		if err != nil {
			ve := &models.ValidationError{}
			ve.Add("publishedDate", MsgInvalidPublishedDate)
			return models.ArticleFilter{}, ve
		}
		f.PublishedFrom = &t
	}

	if q.Has("isPublished") {
		v := q.Get("isPublished") == "true"
		f.IsPublished = &v
	}

	f.Author = strings.TrimSpace(q.Get("author"))
	f.Search = strings.TrimSpace(q.Get("search"))

	return f, nil
}
