package database

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	defaultMongoDatabase   = "imageDB"
	defaultMongoCollection = "images"
	mongoTimeout           = 10 * time.Second
)

// imageDocument is the persisted shape: {name, img: {data, contentType}}.
type imageDocument struct {
	ID   bson.ObjectID `bson:"_id,omitempty"`
	Name string        `bson:"name"`
	Img  imagePayload  `bson:"img"`
}

type imagePayload struct {
	Data        []byte `bson:"data"`
	ContentType string `bson:"contentType"`
}

// mongoStore is the subset of server calls the driver makes. findImage reports a
// missing document as mongo.ErrNoDocuments.
type mongoStore interface {
	ping(ctx context.Context) error
	disconnect(ctx context.Context) error
	collectionNames(ctx context.Context) ([]string, error)
	createCollection(ctx context.Context) error
	insertImage(ctx context.Context, doc *imageDocument) error
	findImage(ctx context.Context, id bson.ObjectID) (*imageDocument, error)
}

type MongoDatabase struct {
	store          mongoStore
	collectionName string
}

func NewMongoDatabase(ctx context.Context, uri, databaseName, collectionName string) (DatabaseService, error) {
	if databaseName == "" {
		databaseName = defaultMongoDatabase
	}
	if collectionName == "" {
		collectionName = defaultMongoCollection
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	store := &clientStore{
		client:         client,
		databaseName:   databaseName,
		collectionName: collectionName,
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()
	if err := store.ping(pingCtx); err != nil {
		_ = store.disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return newMongoDatabaseWithStore(store, collectionName), nil
}

func newMongoDatabaseWithStore(store mongoStore, collectionName string) *MongoDatabase {
	return &MongoDatabase{store: store, collectionName: collectionName}
}

func (m *MongoDatabase) CreateDatabase(ctx context.Context) error {
	names, err := m.store.collectionNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	if slices.Contains(names, m.collectionName) {
		return nil
	}
	if err := m.store.createCollection(ctx); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", m.collectionName, err)
	}
	return nil
}

func (m *MongoDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return m.store.ping(ctx) == nil
}

func (m *MongoDatabase) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return m.store.disconnect(ctx)
}

func (m *MongoDatabase) CreateImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	doc := newImageDocument(name, data, contentType)
	if err := m.store.insertImage(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert image: %w", err)
	}
	return doc.ID.Hex(), nil
}

func (m *MongoDatabase) GetImageByID(ctx context.Context, id string) (*ImageRecord, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	doc, err := m.store.findImage(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find image %s: %w", id, err)
	}

	return doc.toRecord(), nil
}

func newImageDocument(name string, data []byte, contentType string) *imageDocument {
	if data == nil {
		data = []byte{}
	}
	return &imageDocument{
		ID:   bson.NewObjectID(),
		Name: name,
		Img: imagePayload{
			Data:        data,
			ContentType: contentType,
		},
	}
}

func (d *imageDocument) toRecord() *ImageRecord {
	data := d.Img.Data
	if data == nil {
		data = []byte{}
	}
	return &ImageRecord{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Data:        data,
		ContentType: d.Img.ContentType,
	}
}

// clientStore runs the store calls against a live server
type clientStore struct {
	client         *mongo.Client
	databaseName   string
	collectionName string
}

func (s *clientStore) database() *mongo.Database {
	return s.client.Database(s.databaseName)
}

func (s *clientStore) collection() *mongo.Collection {
	return s.database().Collection(s.collectionName)
}

func (s *clientStore) ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *clientStore) disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *clientStore) collectionNames(ctx context.Context) ([]string, error) {
	return s.database().ListCollectionNames(ctx, bson.D{{Key: "name", Value: s.collectionName}})
}

func (s *clientStore) createCollection(ctx context.Context) error {
	return s.database().CreateCollection(ctx, s.collectionName)
}

func (s *clientStore) insertImage(ctx context.Context, doc *imageDocument) error {
	_, err := s.collection().InsertOne(ctx, doc)
	return err
}

func (s *clientStore) findImage(ctx context.Context, id bson.ObjectID) (*imageDocument, error) {
	var doc imageDocument
	if err := s.collection().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
