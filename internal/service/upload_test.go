package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solven/config"
	"solven/utils"
)

func TestPresignUpload_DerivesIDFromFilename(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	fileID, signedURL, err := PresignUpload(ctx, &user.ID, "Q3 Report.pdf", "application/pdf")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(fileID, "q3-report-pdf-"))
	require.NotEmpty(t, signedURL)
}

func TestConfirmUpload_RequiresObjectInStore(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	fileID, _, err := PresignUpload(ctx, &user.ID, "ghost.txt", "text/plain")
	require.NoError(t, err)

	// confirm without ever uploading the bytes
	_, err = ConfirmUpload(ctx, &user.ID, fileID, "ghost.txt", 5, nil)
	require.ErrorIs(t, err, ErrObjectMissing)

	_, err = GetFile(fileID)
	require.ErrorIs(t, err, ErrNotFound, "no row may exist for a rejected confirmation")
}

func TestConfirmUpload_AnonymousFolderRejected(t *testing.T) {
	ctx := context.Background()
	folderID := "some-folder-abc"

	_, err := ConfirmUpload(ctx, nil, "loose-txt-abc12345", "loose.txt", 5, &folderID)
	require.ErrorIs(t, err, ErrAnonymousFolder)
}

func TestConfirmUpload_CreatesRowWithRetention(t *testing.T) {
	user := createTestUser(t)
	before := time.Now()

	file := uploadFile(t, &user.ID, "notes.txt", nil)

	require.Equal(t, "notes.txt", file.Filename)
	require.Equal(t, &user.ID, file.OwnerID)
	require.Nil(t, file.FolderID)
	require.Equal(t, 0, file.DownloadCount)

	wantExpiry := before.AddDate(0, 0, config.AppConfig.RetentionDays)
	require.WithinDuration(t, wantExpiry, file.ExpiresAt, time.Minute)

	stored, err := GetFile(file.ID)
	require.NoError(t, err)
	require.Equal(t, file.ID, stored.ID)
}

func TestConfirmUpload_RootSlashMeansNoFolder(t *testing.T) {
	user := createTestUser(t)
	root := "/"

	file := uploadFile(t, &user.ID, "rooted.txt", &root)
	require.Nil(t, file.FolderID)
}

func TestConfirmUpload_AnonymousUploadAllowed(t *testing.T) {
	file := uploadFile(t, nil, "drop.bin", nil)

	require.Nil(t, file.OwnerID)
	exists, err := testStore.ObjectExists(context.Background(), bucket(), utils.ObjectKey(nil, file.ID, "drop.bin"))
	require.NoError(t, err)
	require.True(t, exists)
	require.True(t, strings.HasPrefix(objectKeyOf(file), "anonymous/"))
}

func TestConfirmUpload_RegistersFolderMember(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	folder, err := CreateEmptyFolder(ctx, user.ID, "Receipts")
	require.NoError(t, err)

	file := uploadFile(t, &user.ID, "receipt.pdf", &folder.ID)
	require.Equal(t, &folder.ID, file.FolderID)

	stored, err := GetFolderOwned(user.ID, folder.ID)
	require.NoError(t, err)
	require.Contains(t, stored.FileKeys, file.ID)
}
