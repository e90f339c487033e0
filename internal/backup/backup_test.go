package backup

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/danprasetia/belanja/internal/database"
)

// fakeS3 records uploads and deletions in memory.
type fakeS3 struct {
	objects map[string][]byte
	deleted []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(input.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for key := range f.objects {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	return out, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(input.Key)
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return &s3.DeleteObjectOutput{}, nil
}

func newTestManager(t *testing.T, client s3Client) *Manager {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "belanja.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := NewManager(Config{
		S3:            S3Config{Bucket: "bucket", AccessKey: "k", SecretKey: "s"},
		DBPath:        dbPath,
		Passphrase:    "rahasia",
		RetentionDays: 7,
	}, db, nil, slog.Default())
	m.client = client
	m.status.State = StateIdle
	return m
}

func TestRunNowUploadsEncryptedSnapshot(t *testing.T) {
	fake := newFakeS3()
	m := newTestManager(t, fake)

	if err := m.RunNow(context.Background()); err != nil {
		t.Fatalf("run backup: %v", err)
	}

	if len(fake.objects) != 1 {
		t.Fatalf("uploads = %d, want 1", len(fake.objects))
	}
	for key, data := range fake.objects {
		if _, ok := parseBackupKey(key); !ok {
			t.Errorf("key %q does not carry a parseable timestamp", key)
		}
		// The upload is a valid encrypted container that decrypts back to a
		// SQLite file.
		dir := t.TempDir()
		encPath := filepath.Join(dir, "up.enc")
		decPath := filepath.Join(dir, "up.db")
		if err := os.WriteFile(encPath, data, 0600); err != nil {
			t.Fatal(err)
		}
		if err := DecryptFile(encPath, decPath, "rahasia"); err != nil {
			t.Fatalf("decrypt upload: %v", err)
		}
		plain, _ := os.ReadFile(decPath)
		if !bytes.HasPrefix(plain, []byte("SQLite format 3")) {
			t.Error("decrypted upload is not a SQLite database")
		}
	}

	status := m.Status()
	if status.State != StateIdle || status.LastBackup == nil {
		t.Errorf("status = %+v, want idle with last backup set", status)
	}
}

func TestRunNowDisabled(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	m := NewManager(Config{}, db, nil, slog.Default())
	if m.Enabled() {
		t.Error("manager without config should be disabled")
	}
	if err := m.RunNow(context.Background()); err == nil {
		t.Error("expected RunNow to fail when disabled")
	}
}

func TestCleanupDeletesOldBackups(t *testing.T) {
	fake := newFakeS3()
	m := newTestManager(t, fake)

	oldKey := keyPrefix + "backup-" + time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02T150405Z") + ".db.enc"
	freshKey := keyPrefix + "backup-" + time.Now().UTC().Format("2006-01-02T150405Z") + ".db.enc"
	strayKey := keyPrefix + "notes.txt"
	fake.objects[oldKey] = []byte("old")
	fake.objects[freshKey] = []byte("fresh")
	fake.objects[strayKey] = []byte("stray")

	if err := m.cleanup(context.Background()); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, ok := fake.objects[oldKey]; ok {
		t.Error("expected old backup to be deleted")
	}
	if _, ok := fake.objects[freshKey]; !ok {
		t.Error("fresh backup should remain")
	}
	if _, ok := fake.objects[strayKey]; !ok {
		t.Error("unrecognized keys should be left alone")
	}
}

func TestStatusCallback(t *testing.T) {
	fake := newFakeS3()

	var got []Status
	dbPath := filepath.Join(t.TempDir(), "belanja.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	m := NewManager(Config{
		S3:         S3Config{Bucket: "bucket", AccessKey: "k", SecretKey: "s"},
		DBPath:     dbPath,
		Passphrase: "rahasia",
	}, db, func(s Status) { got = append(got, s) }, slog.Default())
	m.client = fake

	if err := m.RunNow(context.Background()); err != nil {
		t.Fatalf("run backup: %v", err)
	}

	if len(got) < 2 {
		t.Fatalf("callbacks = %d, want running then idle", len(got))
	}
	if got[0].State != StateRunning || got[len(got)-1].State != StateIdle {
		t.Errorf("callback states = %v", got)
	}
}
