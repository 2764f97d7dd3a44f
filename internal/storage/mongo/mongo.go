package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pribylovaa/articles-service/internal/config"
	"github.com/pribylovaa/articles-service/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	articlesCollection = "articles"
	defaultDBName      = "articles"
)

var _ storage.Storage = (*Mongo)(nil)

// Mongo - тонкий адаптер над клиентом MongoDB.
// Создаётся один раз при старте процесса и разделяется всеми запросами;
// конкурентный доступ обеспечивает сам драйвер.
type Mongo struct {
	client   *mongodriver.Client
	db       *mongodriver.Database
	articles *mongodriver.Collection
}

// New подключается к MongoDB, проверяет доступность (ping) и создаёт индексы.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	dbName := cfg.DB.Database
	if dbName == "" {
		dbName = databaseFromURI(cfg.DB.URL)
	}
	db := cli.Database(dbName)

	m := &Mongo{
		client:   cli,
		db:       db,
		articles: db.Collection(articlesCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Ping проверяет, что primary доступен.
func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	return nil
}

// Close разрывает соединение с кластером.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индексы коллекции статей:
// - полнотекстовый по title+content (фильтр search);
// - tags + publishedDate(desc) для фильтра по тегам с сортировкой по дате.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	indexes := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: fieldTitle, Value: "text"}, {Key: fieldContent, Value: "text"}},
			Options: options.Index().SetName("title_content_text"),
		},
		{
			Keys:    bson.D{{Key: fieldTags, Value: 1}, {Key: fieldPublishedDate, Value: -1}},
			Options: options.Index().SetName("tags_published_desc"),
		},
	}

	if _, err := m.articles.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из пути URI mongodb.
// Если его нет, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}
