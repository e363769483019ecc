package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"streamflow/pkg/database"
	"streamflow/pkg/models"
	"streamflow/pkg/storage"
)

type fixture struct {
	db        *gorm.DB
	uploadDir string
	users     *Users
	videos    *Videos
	streams   *Streams
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	db, err := database.OpenAndMigrate(filepath.Join(dir, "streamflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uploadDir := filepath.Join(dir, "uploads")
	return &fixture{
		db:        db,
		uploadDir: uploadDir,
		users:     NewUsers(db),
		videos:    NewVideos(db, storage.NewLocal(uploadDir), zap.NewNop()),
		streams:   NewStreams(db),
	}
}

func (f *fixture) register(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.users.Register(name, name+"@example.com", "pw-"+name)
	require.NoError(t, err)
	return u
}

func uintPtr(v uint) *uint { return &v }

func TestUsers_RegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)

	alice, err := f.users.Register("alice", "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotZero(t, alice.ID)

	_, err = f.users.Register("alice", "b@y.com", "pw2")
	assert.ErrorIs(t, err, ErrTaken)

	var n int
	require.NoError(t, f.db.Model(&models.User{}).Where("username = ?", "alice").Count(&n).Error)
	assert.Equal(t, 1, n)

	got, err := f.users.Authenticate("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "a@x.com", got.Email)

	got, err = f.users.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, got)

	got, err = f.users.Authenticate("nobody", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, got)
}

func TestUsers_EmailTaken(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Register("alice", "a@x.com", "pw1")
	require.NoError(t, err)
	_, err = f.users.Register("bob", "a@x.com", "pw2")
	assert.ErrorIs(t, err, ErrTaken)
}

func TestUsers_RegisterMissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Register("alice", "", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestUsers_PasswordIsNotStoredInClear(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")

	stored, err := f.users.Get(u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw-alice", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestUsers_ChangePassword(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")

	err := f.users.ChangePassword(u.ID, "wrong", "new")
	assert.ErrorIs(t, err, ErrIncorrectPassword)
	_, err = f.users.Authenticate("alice", "pw-alice")
	require.NoError(t, err)

	require.NoError(t, f.users.ChangePassword(u.ID, "pw-alice", "new"))

	_, err = f.users.Authenticate("alice", "pw-alice")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.users.Authenticate("alice", "new")
	require.NoError(t, err)

	assert.ErrorIs(t, f.users.ChangePassword(999, "x", "y"), ErrNotFound)
}

func TestVideos_UploadListDelete(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	v, err := f.videos.Upload(alice.ID, "clip.mp4", strings.NewReader("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", v.OriginalName)
	assert.Equal(t, "clip.mp4", v.Filename)
	assert.Equal(t, filepath.Join(f.uploadDir, "clip.mp4"), v.FilePath)
	assert.EqualValues(t, 10, v.FileSize)

	_, err = f.videos.Upload(alice.ID, "second.mov", strings.NewReader("x"))
	require.NoError(t, err)

	list, err := f.videos.ListForUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second.mov", list[0].OriginalName)
	assert.Equal(t, "clip.mp4", list[1].OriginalName)

	n, err := f.videos.CountForUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	other, err := f.videos.ListForUser(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, other)

	// bob cannot delete alice's video
	assert.ErrorIs(t, f.videos.Delete(bob.ID, v.ID), ErrNotFound)
	_, err = os.Stat(v.FilePath)
	require.NoError(t, err)

	require.NoError(t, f.videos.Delete(alice.ID, v.ID))
	_, err = os.Stat(v.FilePath)
	assert.True(t, os.IsNotExist(err))
	_, err = f.videos.Get(alice.ID, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVideos_DeleteWithMissingFile(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	v, err := f.videos.Upload(alice.ID, "gone.mp4", strings.NewReader("data"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(v.FilePath))

	require.NoError(t, f.videos.Delete(alice.ID, v.ID))

	n, err := f.videos.CountForUser(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVideos_SameNameSharesFile(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	first, err := f.videos.Upload(alice.ID, "clip.mp4", strings.NewReader("first upload"))
	require.NoError(t, err)
	second, err := f.videos.Upload(alice.ID, "clip.mp4", strings.NewReader("2nd"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.FilePath, second.FilePath)
	assert.EqualValues(t, 12, first.FileSize)
	assert.EqualValues(t, 3, second.FileSize)

	data, err := os.ReadFile(first.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "2nd", string(data))

	// deleting one row removes the shared file; the other row survives
	require.NoError(t, f.videos.Delete(alice.ID, second.ID))
	_, err = f.videos.Get(alice.ID, first.ID)
	require.NoError(t, err)
	require.NoError(t, f.videos.Delete(alice.ID, first.ID))
}

func TestVideos_InsertFailureLeavesFile(t *testing.T) {
	f := newFixture(t)

	// no such user: the foreign key rejects the row after the file is written
	_, err := f.videos.Upload(404, "orphan.mp4", strings.NewReader("data"))
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(f.uploadDir, "orphan.mp4"))
	assert.NoError(t, err)
}

func TestStreams_CreateAndList(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	before, err := f.streams.CountForUser(alice.ID)
	require.NoError(t, err)
	activeBefore, err := f.streams.CountActiveForUser(alice.ID)
	require.NoError(t, err)

	s, err := f.streams.Create(alice.ID, NewStream{
		Title:     "My Show",
		Platform:  models.PlatformYouTube,
		StreamKey: "key123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, s.Status)
	assert.Nil(t, s.VideoID)
	assert.Nil(t, s.ScheduledTime)

	list, err := f.streams.ListForUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, s.ID, list[0].ID)
	assert.Equal(t, models.StatusPending, list[0].Status)

	other, err := f.streams.ListForUser(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, other)

	after, err := f.streams.CountForUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	active, err := f.streams.CountActiveForUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, activeBefore, active)

	require.NoError(t, f.streams.UpdateStatus(alice.ID, s.ID, models.StatusActive))
	active, err = f.streams.CountActiveForUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, activeBefore+1, active)
}

func TestStreams_CreateValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	_, err := f.streams.Create(alice.ID, NewStream{Title: "", Platform: models.PlatformTwitch, StreamKey: "k"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.streams.Create(alice.ID, NewStream{Title: "t", Platform: models.PlatformTwitch})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.streams.Create(alice.ID, NewStream{Title: "t", Platform: "Vimeo", StreamKey: "k"})
	assert.ErrorIs(t, err, ErrInvalidPlatform)

	v, err := f.videos.Upload(bob.ID, "bob.mp4", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = f.streams.Create(alice.ID, NewStream{Title: "t", Platform: models.PlatformTwitch, StreamKey: "k", VideoID: uintPtr(v.ID)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStreams_WithVideoAndSchedule(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	v, err := f.videos.Upload(alice.ID, "clip.mp4", strings.NewReader("x"))
	require.NoError(t, err)

	when := time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)
	s, err := f.streams.Create(alice.ID, NewStream{
		Title:         "Replay",
		Platform:      models.PlatformTikTok,
		StreamKey:     "k",
		VideoID:       uintPtr(v.ID),
		ScheduledTime: &when,
	})
	require.NoError(t, err)

	got, err := f.streams.Get(alice.ID, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.VideoID)
	assert.Equal(t, v.ID, *got.VideoID)
	require.NotNil(t, got.ScheduledTime)
	assert.True(t, when.Equal(*got.ScheduledTime))

	// deleting the video detaches it from the stream
	require.NoError(t, f.videos.Delete(alice.ID, v.ID))
	got, err = f.streams.Get(alice.ID, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got.VideoID)
}

func TestStreams_UpdateStatusPreservesFields(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	s, err := f.streams.Create(alice.ID, NewStream{Title: "Show", Platform: models.PlatformFacebook, StreamKey: "secret"})
	require.NoError(t, err)

	require.NoError(t, f.streams.UpdateStatus(alice.ID, s.ID, models.StatusActive))
	require.NoError(t, f.streams.UpdateStatus(alice.ID, s.ID, models.StatusStopped))

	got, err := f.streams.Get(alice.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusStopped, got.Status)
	assert.Equal(t, s.Title, got.Title)
	assert.Equal(t, s.Platform, got.Platform)
	assert.Equal(t, s.StreamKey, got.StreamKey)
	assert.Equal(t, s.UserID, got.UserID)
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt))
}

func TestStreams_AnyTransitionAllowed(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	s, err := f.streams.Create(alice.ID, NewStream{Title: "Show", Platform: models.PlatformYouTube, StreamKey: "k"})
	require.NoError(t, err)

	for _, next := range []models.StreamStatus{
		models.StatusPending,
		models.StatusStopped,
		models.StatusActive,
		models.StatusPending,
		models.StatusActive,
		models.StatusActive,
	} {
		require.NoError(t, f.streams.UpdateStatus(alice.ID, s.ID, next))
		got, err := f.streams.Get(alice.ID, s.ID)
		require.NoError(t, err)
		assert.Equal(t, next, got.Status)
	}

	assert.ErrorIs(t, f.streams.UpdateStatus(alice.ID, s.ID, "live"), ErrInvalidStatus)
}

func TestStreams_OwnershipScoped(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	s, err := f.streams.Create(alice.ID, NewStream{Title: "Show", Platform: models.PlatformYouTube, StreamKey: "k"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.streams.UpdateStatus(bob.ID, s.ID, models.StatusActive), ErrNotFound)
	assert.ErrorIs(t, f.streams.Delete(bob.ID, s.ID), ErrNotFound)

	got, err := f.streams.Get(alice.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	require.NoError(t, f.streams.Delete(alice.ID, s.ID))
	_, err = f.streams.Get(alice.ID, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.streams.Delete(alice.ID, s.ID), ErrNotFound)
}

func TestStreams_RecentForUser(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	var ids []uint
	for i := 0; i < 7; i++ {
		s, err := f.streams.Create(alice.ID, NewStream{Title: "Show", Platform: models.PlatformYouTube, StreamKey: "k"})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	recent, err := f.streams.RecentForUser(alice.ID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	for i, s := range recent {
		assert.Equal(t, ids[len(ids)-1-i], s.ID)
	}

	all, err := f.streams.ListForUser(alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}
