package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	apierrors "github.com/pribylovaa/articles-service/internal/errors"
	"github.com/pribylovaa/articles-service/internal/http/dto"
	"github.com/pribylovaa/articles-service/internal/models"
)

// ValidateArticle - предварительная проверка тела POST/PUT /articles.
//
// Правила:
//   - title отсутствует или пуст после trim - "Title is required";
//   - title длиннее 200 символов - "Title cannot exceed 200 characters";
//   - content отсутствует или пуст после trim - "Content is required".
//
// При нарушениях отвечает 400 {success:false, message:"Validation failed", errors:[...]}
// и не вызывает следующий обработчик. Теги и автор здесь не проверяются.
// Тело восстанавливается, контроллер читает его заново.
func ValidateArticle() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			_ = r.Body.Close()
			if err != nil {
				apierrors.WriteError(w, r, dto.InvalidBody())
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			req, err := dto.BindArticle(r)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			if err := checkArticle(req).Err(); err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

func checkArticle(req *dto.ArticleRequest) *models.ValidationError {
	ve := &models.ValidationError{}

	switch {
	case req.Title == nil || strings.TrimSpace(*req.Title) == "":
		ve.Add("title", models.MsgTitleRequired)
	case utf8.RuneCountInString(*req.Title) > models.MaxTitleLength:
		ve.Add("title", models.MsgTitleTooLong)
	}

	if req.Content == nil || strings.TrimSpace(*req.Content) == "" {
		ve.Add("content", models.MsgContentRequired)
	}

	return ve
}
