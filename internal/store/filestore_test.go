package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alumni-reunion/backend/internal/models"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registrations.json")
	fs, err := NewFileStore(path, nil)
	require.NoError(t, err)
	return fs, path
}

func sampleRec(id string) models.Registration {
	return models.Registration{
		TicketID:       id,
		Name:           "Test Person",
		Phone:          "0901234567",
		Email:          "test@example.com",
		ClassName:      "12A1",
		GraduationYear: "2000 - 2003",
		Sessions:       []models.SessionTag{models.SessionCeremony},
		Timestamp:      time.Now().UTC().Truncate(time.Second),
	}
}

func TestFileStore_EmptyWhenMissing(t *testing.T) {
	fs, _ := newTestFileStore(t)
	recs, err := fs.LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestFileStore_AppendAndLoad(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, fs.Append(ctx, sampleRec("t1")))
	require.NoError(t, fs.Append(ctx, sampleRec("t2")))

	recs, err := fs.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "t1", recs[0].TicketID)
	require.Equal(t, "t2", recs[1].TicketID)
	require.Equal(t, []models.SessionTag{models.SessionCeremony}, recs[0].Sessions)
}

func TestFileStore_LoadAllIdempotent(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()
	require.NoError(t, fs.Append(ctx, sampleRec("t1")))

	first, err := fs.LoadAll(ctx)
	require.NoError(t, err)
	second, err := fs.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestFileStore_CorruptFileTreatedAsEmpty(t *testing.T) {
	fs, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	recs, err := fs.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, recs)

	// The store recovers: the next append starts a fresh collection.
	require.NoError(t, fs.Append(ctx, sampleRec("t1")))
	recs, err = fs.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestFileStore_AppendSurfacesWriteErrors(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("chmod does not restrict root")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "registrations.json")
	fs, err := NewFileStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, fs.Append(context.Background(), sampleRec("t1")))

	// Make the directory unwritable so the temp file cannot be created.
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	err = fs.Append(context.Background(), sampleRec("t2"))
	require.Error(t, err)

	// Previous contents survive the failed write.
	require.NoError(t, os.Chmod(dir, 0o755))
	recs, err := fs.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "t1", recs[0].TicketID)
}

func TestFindByTicketID(t *testing.T) {
	recs := []models.Registration{sampleRec("a"), sampleRec("b")}
	require.NotNil(t, FindByTicketID(recs, "b"))
	require.Nil(t, FindByTicketID(recs, "c"))
}
