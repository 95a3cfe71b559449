package core

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/jo-hoe/gobeautify/internal/backend/commandstructure"
	"github.com/jo-hoe/gobeautify/internal/backend/database"
)

func newTestCoreService(t *testing.T, variants ...commandstructure.VariantConfig) *CoreService {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Database = Database{Type: database.TypeSQLite, ConnectionString: ":memory:"}
	if len(variants) > 0 {
		cfg.Beautify.Variants = variants
	}

	db, err := OpenDatabase(context.Background(), cfg)
	if err != nil {
		t.Fatalf("OpenDatabase error: %v", err)
	}
	svc, err := NewCoreService(cfg, db)
	if err != nil {
		_ = db.Close()
		t.Fatalf("NewCoreService error: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestNewCoreService_BuildsConfiguredVariants(t *testing.T) {
	svc := newTestCoreService(t)
	if got := svc.pipeline.VariantCount(); got != 2 {
		t.Fatalf("expected 2 default variants, got %d", got)
	}
}

func TestNewCoreService_RequiresDatabase(t *testing.T) {
	if _, err := NewCoreService(DefaultConfig(), nil); err == nil {
		t.Fatal("expected error for nil database")
	}
}

func TestNewCoreService_UnknownCommand(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Beautify.Variants = []commandstructure.VariantConfig{
		{Commands: []commandstructure.CommandConfig{{Name: "DoesNotExist"}}},
	}
	db, err := database.NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDatabase error: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := NewCoreService(cfg, db); err == nil {
		t.Fatal("expected error for unknown beautify command")
	}
}

func TestAddAndGetImage_RoundTrip(t *testing.T) {
	svc := newTestCoreService(t)
	ctx := context.Background()
	data := []byte("0123456789")

	id, err := svc.AddImage(ctx, "a.png", data, "image/png")
	if err != nil {
		t.Fatalf("AddImage error: %v", err)
	}

	record, err := svc.GetImageByID(ctx, id)
	if err != nil {
		t.Fatalf("GetImageByID error: %v", err)
	}
	if !bytes.Equal(record.Data, data) || record.ContentType != "image/png" || record.Name != "a.png" {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestBeautifyImage_DefaultReturnsSameImageTwice(t *testing.T) {
	svc := newTestCoreService(t)
	ctx := context.Background()
	data := []byte("0123456789")

	id, err := svc.AddImage(ctx, "a.png", data, "image/png")
	if err != nil {
		t.Fatalf("AddImage error: %v", err)
	}

	outputs, err := svc.BeautifyImage(ctx, id)
	if err != nil {
		t.Fatalf("BeautifyImage error: %v", err)
	}
	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(outputs))
	}
	for i, out := range outputs {
		if !bytes.Equal(out.Data, data) || out.ContentType != "image/png" {
			t.Errorf("output %d differs from stored image: %+v", i, out)
		}
	}
}

func TestBeautifyImage_NotFound(t *testing.T) {
	svc := newTestCoreService(t)

	for _, id := range []string{"000000000000000000000000", "bogus"} {
		if _, err := svc.BeautifyImage(context.Background(), id); !errors.Is(err, database.ErrNotFound) {
			t.Errorf("BeautifyImage(%q): expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestBeautifyImage_CommandFailureIsNotNotFound(t *testing.T) {
	svc := newTestCoreService(t, commandstructure.VariantConfig{
		Commands: []commandstructure.CommandConfig{{Name: "GrayscaleCommand"}},
	})
	ctx := context.Background()

	id, err := svc.AddImage(ctx, "broken.png", []byte("not an image"), "image/png")
	if err != nil {
		t.Fatalf("AddImage error: %v", err)
	}

	_, err = svc.BeautifyImage(ctx, id)
	if err == nil {
		t.Fatal("expected error for undecodable image")
	}
	if errors.Is(err, database.ErrNotFound) {
		t.Fatal("pipeline failure must not look like a missing image")
	}
}

func TestToDataURI(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 1, 2, 3, 4, 5, 6}
	uri := ToDataURI(commandstructure.Image{Data: data, ContentType: "image/png"})

	prefix := "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("unexpected prefix: %s", uri)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("payload is not std base64: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("payload mismatch")
	}
}
