package database

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// fakeMongoStore keeps documents as marshaled BSON so reads go through the same
// encoding a server round trip would.
type fakeMongoStore struct {
	mu          sync.Mutex
	collections []string
	documents   map[bson.ObjectID][]byte
	created     int
	closed      bool

	pingErr   error
	listErr   error
	createErr error
	insertErr error
	findErr   error
}

func newFakeMongoStore(collections ...string) *fakeMongoStore {
	return &fakeMongoStore{
		collections: collections,
		documents:   make(map[bson.ObjectID][]byte),
	}
}

func (f *fakeMongoStore) ping(context.Context) error {
	return f.pingErr
}

func (f *fakeMongoStore) disconnect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeMongoStore) collectionNames(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string(nil), f.collections...), nil
}

func (f *fakeMongoStore) createCollection(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created++
	f.collections = append(f.collections, defaultMongoCollection)
	return nil
}

func (f *fakeMongoStore) insertImage(_ context.Context, doc *imageDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	f.documents[doc.ID] = raw
	return nil
}

func (f *fakeMongoStore) findImage(_ context.Context, id bson.ObjectID) (*imageDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	raw, ok := f.documents[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	var doc imageDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func TestImageDocument_BSONShape(t *testing.T) {
	doc := newImageDocument("a.png", []byte{1, 2, 3}, "image/png")

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson.Marshal error: %v", err)
	}

	rawDoc := bson.Raw(raw)

	if _, ok := rawDoc.Lookup("_id").ObjectIDOK(); !ok {
		t.Fatalf("expected _id to be an ObjectID, got %v", rawDoc.Lookup("_id").Type)
	}
	if name, _ := rawDoc.Lookup("name").StringValueOK(); name != "a.png" {
		t.Errorf("expected name a.png, got %q", name)
	}
	if ct, _ := rawDoc.Lookup("img", "contentType").StringValueOK(); ct != "image/png" {
		t.Errorf("expected img.contentType image/png, got %q", ct)
	}
	_, data, ok := rawDoc.Lookup("img", "data").BinaryOK()
	if !ok {
		t.Fatalf("expected img.data to be binary, got %v", rawDoc.Lookup("img", "data").Type)
	}
	if !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Errorf("img.data mismatch: %v", data)
	}
}

func TestImageDocument_ToRecord(t *testing.T) {
	doc := newImageDocument("b.jpg", nil, "image/jpeg")
	record := doc.toRecord()

	if record.ID != doc.ID.Hex() {
		t.Errorf("expected ID %s, got %s", doc.ID.Hex(), record.ID)
	}
	if _, ok := normalizeID(record.ID); !ok {
		t.Errorf("expected a valid ObjectID hex, got %q", record.ID)
	}
	if record.Name != "b.jpg" || record.ContentType != "image/jpeg" {
		t.Errorf("unexpected record: %+v", record)
	}
	if record.Data == nil || len(record.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %v", record.Data)
	}
}

func TestMongo_GetImageByID_MalformedIDIsNotFound(t *testing.T) {
	// A malformed id never reaches the server, so no client is required
	db := &MongoDatabase{}

	_, err := db.GetImageByID(context.Background(), "not-hex")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMongo_CreateDatabase_CreatesMissingCollection(t *testing.T) {
	store := newFakeMongoStore("other")
	db := newMongoDatabaseWithStore(store, defaultMongoCollection)

	if err := db.CreateDatabase(context.Background()); err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	if err := db.CreateDatabase(context.Background()); err != nil {
		t.Fatalf("second CreateDatabase error: %v", err)
	}
	if store.created != 1 {
		t.Fatalf("expected collection to be created once, got %d", store.created)
	}
}

func TestMongo_CreateDatabase_ExistingCollection(t *testing.T) {
	store := newFakeMongoStore(defaultMongoCollection)
	db := newMongoDatabaseWithStore(store, defaultMongoCollection)

	if err := db.CreateDatabase(context.Background()); err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	if store.created != 0 {
		t.Fatalf("expected no collection to be created, got %d", store.created)
	}
}

func TestMongo_CreateDatabase_Errors(t *testing.T) {
	listFails := newFakeMongoStore()
	listFails.listErr = errors.New("connection refused")
	if err := newMongoDatabaseWithStore(listFails, defaultMongoCollection).CreateDatabase(context.Background()); err == nil {
		t.Error("expected error when listing collections fails")
	}

	createFails := newFakeMongoStore()
	createFails.createErr = errors.New("not authorized")
	if err := newMongoDatabaseWithStore(createFails, defaultMongoCollection).CreateDatabase(context.Background()); err == nil {
		t.Error("expected error when creating the collection fails")
	}
}

func TestMongo_CreateAndGetImage(t *testing.T) {
	store := newFakeMongoStore(defaultMongoCollection)
	db := newMongoDatabaseWithStore(store, defaultMongoCollection)
	ctx := context.Background()
	data := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0x02, 0x03, 0x04, 0x05}

	id, err := db.CreateImage(ctx, "a.png", data, "image/png")
	if err != nil {
		t.Fatalf("CreateImage error: %v", err)
	}
	if _, ok := normalizeID(id); !ok {
		t.Fatalf("CreateImage returned invalid id %q", id)
	}

	for _, lookup := range []string{id, strings.ToUpper(id)} {
		img, err := db.GetImageByID(ctx, lookup)
		if err != nil {
			t.Fatalf("GetImageByID(%q) error: %v", lookup, err)
		}
		if img.ID != id || img.Name != "a.png" || img.ContentType != "image/png" {
			t.Errorf("unexpected record: %+v", img)
		}
		if !bytes.Equal(img.Data, data) {
			t.Errorf("Data mismatch: got %v", img.Data)
		}
	}
}

func TestMongo_GetImageByID_NoDocumentsIsNotFound(t *testing.T) {
	db := newMongoDatabaseWithStore(newFakeMongoStore(defaultMongoCollection), defaultMongoCollection)

	_, err := db.GetImageByID(context.Background(), generateID())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMongo_UpstreamFailures(t *testing.T) {
	store := newFakeMongoStore(defaultMongoCollection)
	db := newMongoDatabaseWithStore(store, defaultMongoCollection)
	ctx := context.Background()
	upstream := errors.New("server selection timeout")

	store.insertErr = upstream
	if _, err := db.CreateImage(ctx, "a.png", []byte("x"), "image/png"); !errors.Is(err, upstream) {
		t.Errorf("expected wrapped insert error, got %v", err)
	}

	store.findErr = upstream
	_, err := db.GetImageByID(ctx, generateID())
	if !errors.Is(err, upstream) || errors.Is(err, ErrNotFound) {
		t.Errorf("expected wrapped upstream error, got %v", err)
	}
}

func TestMongo_PingAndClose(t *testing.T) {
	store := newFakeMongoStore()
	db := newMongoDatabaseWithStore(store, defaultMongoCollection)

	if !db.DoesDatabaseExist(context.Background()) {
		t.Error("expected DoesDatabaseExist to be true")
	}
	store.pingErr = errors.New("down")
	if db.DoesDatabaseExist(context.Background()) {
		t.Error("expected DoesDatabaseExist to be false when ping fails")
	}

	if err := db.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if !store.closed {
		t.Error("expected store to be disconnected")
	}
}
