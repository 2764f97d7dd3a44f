package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/articles-service/internal/models"
)

func TestParseDate(t *testing.T) {
	tcs := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15T10:20:30", time.Date(2024, 1, 15, 10, 20, 30, 0, time.UTC)},
		{"2024-01-15T10:20:30Z", time.Date(2024, 1, 15, 10, 20, 30, 0, time.UTC)},
		{"2024-01-15T12:20:30+02:00", time.Date(2024, 1, 15, 10, 20, 30, 0, time.UTC)},
		{" 2024-01-15T10:20:30.5Z ", time.Date(2024, 1, 15, 10, 20, 30, 5e8, time.UTC)},
	}

	for _, tc := range tcs {
		got, err := ParseDate(tc.in)
		require.NoError(t, err, tc.in)
		require.True(t, tc.want.Equal(got), "%s: got %s", tc.in, got)
		require.Equal(t, time.UTC, got.Location())
	}

	_, err := ParseDate("15/01/2024")
	require.Error(t, err)
	_, err = ParseDate("")
	require.Error(t, err)
}

func TestParseArticleFilter(t *testing.T) {
	q := url.Values{}
	q.Set("tags", " nodejs, ,api,")
	q.Set("publishedDate", "2024-01-01")
	q.Set("isPublished", "true")
	q.Set("author", " Ann ")
	q.Set("search", "golang")

	f, err := ParseArticleFilter(q)
	require.NoError(t, err)
	require.Equal(t, []string{"nodejs", "api"}, f.Tags)
	require.True(t, f.PublishedFrom.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, *f.IsPublished)
	require.Equal(t, "Ann", f.Author)
	require.Equal(t, "golang", f.Search)
}

func TestParseArticleFilter_Empty(t *testing.T) {
	f, err := ParseArticleFilter(url.Values{})
	require.NoError(t, err)
	require.Equal(t, models.ArticleFilter{}, f)
}

func TestParseArticleFilter_IsPublishedAnythingButTrueIsFalse(t *testing.T) {
	for _, v := range []string{"false", "1", "TRUE", ""} {
		f, err := ParseArticleFilter(url.Values{"isPublished": {v}})
		require.NoError(t, err)
		require.NotNil(t, f.IsPublished, v)
		require.False(t, *f.IsPublished, v)
	}
}

func TestParseArticleFilter_BadDate(t *testing.T) {
	_, err := ParseArticleFilter(url.Values{"publishedDate": {"soon"}})
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, []string{MsgInvalidPublishedDate}, ve.Messages())
}

func newJSONRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestBindArticle_ToPatch(t *testing.T) {
	req, err := BindArticle(newJSONRequest(
		`{"title":"T","content":"C","author":"A","tags":["x"],"publishedDate":"2024-02-02","isPublished":true,"id":"ignored"}`))
	require.NoError(t, err)

	p, err := req.ToPatch()
	require.NoError(t, err)
	require.Equal(t, "T", *p.Title)
	require.Equal(t, "C", *p.Content)
	require.Equal(t, "A", *p.Author)
	require.Equal(t, []string{"x"}, *p.Tags)
	require.True(t, p.PublishedDate.Equal(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)))
	require.True(t, *p.IsPublished)
}

func TestBindArticle_PartialLeavesNil(t *testing.T) {
	req, err := BindArticle(newJSONRequest(`{"isPublished":false}`))
	require.NoError(t, err)

	p, err := req.ToPatch()
	require.NoError(t, err)
	require.Nil(t, p.Title)
	require.Nil(t, p.Tags)
	require.Nil(t, p.PublishedDate)
	require.False(t, *p.IsPublished)
}

func TestBindArticle_NoContentTypeIsJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(`{"title":"T"}`))

	req, err := BindArticle(r)
	require.NoError(t, err)
	require.Equal(t, "T", *req.Title)
}

func TestBindArticle_Errors(t *testing.T) {
	_, err := BindArticle(newJSONRequest(`{"title":`))
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, []string{MsgInvalidBody}, ve.Messages())

	_, err = BindArticle(newJSONRequest(`{"publishedDate":"tomorrow"}`))
	ve, ok = models.AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, []string{MsgInvalidPublishedDate}, ve.Messages())

	r := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader("<a/>"))
	r.Header.Set("Content-Type", "text/plain")
	_, err = BindArticle(r)
	_, ok = models.AsValidationError(err)
	require.True(t, ok)
}

func TestArticleFromModel_NilTagsBecomeEmpty(t *testing.T) {
	resp := ArticleFromModel(&models.Article{ID: "1", Title: "T"})
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	require.Contains(t, string(b), `"tags":[]`)
	require.Contains(t, string(b), `"id":"1"`)
}

func TestEnvelope_JSONShape(t *testing.T) {
	b, err := json.Marshal(List([]ArticleResponse{}))
	require.NoError(t, err)
	require.JSONEq(t, `{"success":true,"count":0,"data":[]}`, string(b))

	b, err = json.Marshal(Failure("Validation failed", "Title is required"))
	require.NoError(t, err)
	require.JSONEq(t, `{"success":false,"message":"Validation failed","errors":["Title is required"]}`, string(b))

	b, err = json.Marshal(OK(map[string]string{"id": "x"}))
	require.NoError(t, err)
	require.JSONEq(t, `{"success":true,"data":{"id":"x"}}`, string(b))
}

func newFormRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestBindArticle_Form(t *testing.T) {
	req, err := BindArticle(newFormRequest(
		"title=T&content=C&author=A&tags=a&tags=b&tags%5B%5D=c&publishedDate=2024-02-02&isPublished=1&extra=x"))
	require.NoError(t, err)

	p, err := req.ToPatch()
	require.NoError(t, err)
	require.Equal(t, "T", *p.Title)
	require.Equal(t, "C", *p.Content)
	require.Equal(t, "A", *p.Author)
	require.Equal(t, []string{"a", "b", "c"}, *p.Tags)
	require.True(t, p.PublishedDate.Equal(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)))
	require.True(t, *p.IsPublished)

	req, err = BindArticle(newFormRequest("title=T"))
	require.NoError(t, err)
	require.Nil(t, req.Content)
	require.Nil(t, req.Tags)
	require.Nil(t, req.IsPublished)
}

func TestBindArticle_FormErrors(t *testing.T) {
	_, err := BindArticle(newFormRequest("title=T&isPublished=maybe"))
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, []string{MsgInvalidBody}, ve.Messages())

	_, err = BindArticle(newFormRequest("title=T&publishedDate=tomorrow"))
	ve, ok = models.AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, []string{MsgInvalidPublishedDate}, ve.Messages())
}

func TestBindArticle_LooseJSONTypes(t *testing.T) {
	tcs := []struct {
		body     string
		wantTags []string
		wantPub  bool
	}{
		{`{"tags":"nodejs","isPublished":"true"}`, []string{"nodejs"}, true},
		{`{"tags":["a","b"],"isPublished":"0"}`, []string{"a", "b"}, false},
		{`{"tags":[],"isPublished":false}`, []string{}, false},
	}

	for _, tc := range tcs {
		req, err := BindArticle(newJSONRequest(tc.body))
		require.NoError(t, err, tc.body)
		require.Equal(t, tc.wantTags, *req.Tags, tc.body)
		require.Equal(t, tc.wantPub, *req.IsPublished, tc.body)
	}

	req, err := BindArticle(newJSONRequest(`{"tags":null,"isPublished":null}`))
	require.NoError(t, err)
	require.Nil(t, req.Tags)
	require.Nil(t, req.IsPublished)

	for _, body := range []string{`{"tags":[1,2]}`, `{"tags":{"a":1}}`, `{"isPublished":"maybe"}`, `{"isPublished":1}`} {
		_, err := BindArticle(newJSONRequest(body))
		ve, ok := models.AsValidationError(err)
		require.True(t, ok, body)
		require.Equal(t, []string{MsgInvalidBody}, ve.Messages(), body)
	}
}
