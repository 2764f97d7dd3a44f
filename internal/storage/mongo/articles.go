package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pribylovaa/articles-service/internal/models"
	"github.com/pribylovaa/articles-service/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Имена полей документа. Совпадают с JSON-именами API.
const (
	fieldID            = "_id"
	fieldTitle         = "title"
	fieldContent       = "content"
	fieldAuthor        = "author"
	fieldTags          = "tags"
	fieldPublishedDate = "publishedDate"
	fieldIsPublished   = "isPublished"
	fieldCreatedAt     = "createdAt"
	fieldUpdatedAt     = "updatedAt"
)

// articleDocument - представление статьи в коллекции.
type articleDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Content       string             `bson:"content"`
	Author        string             `bson:"author"`
	Tags          []string           `bson:"tags"`
	PublishedDate time.Time          `bson:"publishedDate"`
	IsPublished   bool               `bson:"isPublished"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func fromModel(a models.Article) articleDocument {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}

	return articleDocument{
		Title:         a.Title,
		Content:       a.Content,
		Author:        a.Author,
		Tags:          tags,
		PublishedDate: toMS(a.PublishedDate),
		IsPublished:   a.IsPublished,
		CreatedAt:     toMS(a.CreatedAt),
		UpdatedAt:     toMS(a.UpdatedAt),
	}
}

func (d articleDocument) toModel() models.Article {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.Article{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Content:       d.Content,
		Author:        d.Author,
		Tags:          tags,
		PublishedDate: d.PublishedDate.UTC(),
		IsPublished:   d.IsPublished,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// parseID переводит hex-строку в ObjectID; битый формат - storage.ErrInvalidID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, storage.ErrInvalidID
	}

	return oid, nil
}

// buildFilter собирает условие выборки. Пустой фильтр - все документы.
//   - tags: $in (любой из);
//   - publishedDate: $gte;
//   - isPublished: равенство;
//   - author: regex без учёта регистра по экранированной подстроке;
//   - search: $text по индексу title_content_text.
func buildFilter(f models.ArticleFilter) bson.D {
	filter := bson.D{}

	if len(f.Tags) > 0 {
		filter = append(filter, bson.E{Key: fieldTags, Value: bson.D{{Key: "$in", Value: f.Tags}}})
	}

	if f.PublishedFrom != nil {
		filter = append(filter, bson.E{Key: fieldPublishedDate, Value: bson.D{{Key: "$gte", Value: toMS(*f.PublishedFrom)}}})
	}

	if f.IsPublished != nil {
		filter = append(filter, bson.E{Key: fieldIsPublished, Value: *f.IsPublished})
	}

	if author := strings.TrimSpace(f.Author); author != "" {
		filter = append(filter, bson.E{Key: fieldAuthor, Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(author),
			Options: "i",
		}})
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		filter = append(filter, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: search}}})
	}

	return filter
}

// buildSet собирает $set только из переданных полей патча и обновляет updatedAt.
func buildSet(p models.ArticlePatch, now time.Time) bson.D {
	set := bson.D{}

	if p.Title != nil {
		set = append(set, bson.E{Key: fieldTitle, Value: *p.Title})
	}
	if p.Content != nil {
		set = append(set, bson.E{Key: fieldContent, Value: *p.Content})
	}
	if p.Author != nil {
		set = append(set, bson.E{Key: fieldAuthor, Value: *p.Author})
	}
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []string{}
		}
		set = append(set, bson.E{Key: fieldTags, Value: tags})
	}
	if p.PublishedDate != nil {
		set = append(set, bson.E{Key: fieldPublishedDate, Value: toMS(*p.PublishedDate)})
	}
	if p.IsPublished != nil {
		set = append(set, bson.E{Key: fieldIsPublished, Value: *p.IsPublished})
	}

	return append(set, bson.E{Key: fieldUpdatedAt, Value: toMS(now)})
}

// CreateArticle вставляет статью; ID генерирует драйвер, createdAt/updatedAt = now.
func (m *Mongo) CreateArticle(ctx context.Context, article models.Article) (*models.Article, error) {
	const op = "storage/mongo/CreateArticle"

	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now

	doc := fromModel(article)

	res, err := m.articles.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type %T", op, res.InsertedID)
	}

	doc.ID = oid
	out := doc.toModel()

	return &out, nil
}

// ListArticles возвращает все статьи под фильтр.
// Сортировка: publishedDate DESC, _id DESC.
func (m *Mongo) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	const op = "storage/mongo/ListArticles"

	findOpts := options.Find().
		SetSort(bson.D{{Key: fieldPublishedDate, Value: -1}, {Key: fieldID, Value: -1}})

	cur, err := m.articles.Find(ctx, buildFilter(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.Article, 0)
	for cur.Next(ctx) {
		var doc articleDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// ArticleByID возвращает статью по идентификатору.
func (m *Mongo) ArticleByID(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage/mongo/ArticleByID"

	oid, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var doc articleDocument
	if err := m.articles.FindOne(ctx, bson.D{{Key: fieldID, Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// UpdateArticle применяет $set переданных полей и возвращает документ после обновления.
func (m *Mongo) UpdateArticle(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error) {
	const op = "storage/mongo/UpdateArticle"

	oid, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	update := bson.D{{Key: "$set", Value: buildSet(patch, time.Now())}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc articleDocument
	if err := m.articles.FindOneAndUpdate(ctx, bson.D{{Key: fieldID, Value: oid}}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// DeleteArticle удаляет документ (без мягкого удаления) и возвращает его снимок.
func (m *Mongo) DeleteArticle(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage/mongo/DeleteArticle"

	oid, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var doc articleDocument
	if err := m.articles.FindOneAndDelete(ctx, bson.D{{Key: fieldID, Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}
