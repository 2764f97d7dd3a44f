package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/articles-service/internal/http/dto"
)

// ListArticles - GET /articles?tags=&publishedDate=&isPublished=&author=&search=
func (h *Handlers) ListArticles(w http.ResponseWriter, r *http.Request) error {
	filter, err := dto.ParseArticleFilter(r.URL.Query())
	if err != nil {
		return err
	}

	items, err := h.svc.ListArticles(r.Context(), filter)
	if err != nil {
		return err
	}

	writeJSON(w, r, http.StatusOK, dto.List(dto.ArticlesFromModels(items)))
	return nil
}

// GetArticle - GET /articles/{id}
func (h *Handlers) GetArticle(w http.ResponseWriter, r *http.Request) error {
	article, err := h.svc.ArticleByID(r.Context(), articleID(r))
	if err != nil {
		return err
	}

	writeJSON(w, r, http.StatusOK, dto.OK(dto.ArticleFromModel(article)))
	return nil
}

// CreateArticle - POST /articles, 201 с созданной статьёй.
func (h *Handlers) CreateArticle(w http.ResponseWriter, r *http.Request) error {
	req, err := dto.BindArticle(r)
	if err != nil {
		return err
	}

	patch, err := req.ToPatch()
	if err != nil {
		return err
	}

	article, err := h.svc.CreateArticle(r.Context(), patch)
	if err != nil {
		return err
	}

	writeJSON(w, r, http.StatusCreated, dto.OK(dto.ArticleFromModel(article)))
	return nil
}

// UpdateArticle - PUT /articles/{id}: заменяются только переданные поля.
func (h *Handlers) UpdateArticle(w http.ResponseWriter, r *http.Request) error {
	req, err := dto.BindArticle(r)
	if err != nil {
		return err
	}

	patch, err := req.ToPatch()
	if err != nil {
		return err
	}

	article, err := h.svc.UpdateArticle(r.Context(), articleID(r), patch)
	if err != nil {
		return err
	}

	writeJSON(w, r, http.StatusOK, dto.OK(dto.ArticleFromModel(article)))
	return nil
}

// DeleteArticle - DELETE /articles/{id}, в ответе снимок удалённой статьи.
func (h *Handlers) DeleteArticle(w http.ResponseWriter, r *http.Request) error {
	article, err := h.svc.DeleteArticle(r.Context(), articleID(r))
	if err != nil {
		return err
	}

	writeJSON(w, r, http.StatusOK, dto.OK(dto.ArticleFromModel(article)))
	return nil
}

func articleID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}
