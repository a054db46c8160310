package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flickergrid/flickergrid/pkg/design"
)

// DefaultMongoCollection is the collection sessions are stored in.
const DefaultMongoCollection = "sessions"

// mongoSession is the stored document.
type mongoSession struct {
	Name      string    `bson:"_id"`
	Content   string    `bson:"content"`
	Patches   int       `bson:"patches"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per session.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI      string
	Database string
	// Collection defaults to DefaultMongoCollection.
	Collection string
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if cfg.Database == "" {
		cfg.Database = "flickergrid"
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		now:    time.Now,
	}, nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	var docs []mongoSession
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (string, error) {
	name, err := lookupName(name)
	if err != nil {
		return "", err
	}
	var doc mongoSession
	err = s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", notFound(name)
	}
	if err != nil {
		return "", fmt.Errorf("get session %q: %w", name, err)
	}
	return doc.Content, nil
}

func (s *MongoStore) Save(ctx context.Context, name, text string) (string, error) {
	now := s.now()
	name, patches, err := prepare(name, text, now)
	if err != nil {
		return "", err
	}
	doc := mongoSession{
		Name:      name,
		Content:   design.Serialize(patches),
		Patches:   len(patches),
		UpdatedAt: now.UTC(),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("save session %q: %w", name, err)
	}
	return name, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	name, err := lookupName(name)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return fmt.Errorf("delete session %q: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
