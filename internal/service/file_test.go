package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeleteFile_StoreFailureKeepsRow(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	file := uploadFile(t, &user.ID, "sticky.txt", nil)
	key := objectKeyOf(file)

	testStore.FailRemove[key] = true
	err := DeleteFile(ctx, user.ID, file.ID)
	require.Error(t, err)

	// the row survives a failed store deletion so the object stays
	// discoverable and deletable later
	stored, err := GetFile(file.ID)
	require.NoError(t, err)
	require.Equal(t, file.ID, stored.ID)
	exists, err := testStore.ObjectExists(ctx, bucket(), key)
	require.NoError(t, err)
	require.True(t, exists)

	delete(testStore.FailRemove, key)
	require.NoError(t, DeleteFile(ctx, user.ID, file.ID))

	_, err = GetFile(file.ID)
	require.ErrorIs(t, err, ErrNotFound)
	exists, err = testStore.ObjectExists(ctx, bucket(), key)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestDeleteFile_ForeignOwnerSeesNotFound(t *testing.T) {
	ctx := context.Background()
	owner := createTestUser(t)
	other := createTestUser(t)
	file := uploadFile(t, &owner.ID, "private.txt", nil)

	err := DeleteFile(ctx, other.ID, file.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = GetFileOwned(owner.ID, file.ID)
	require.NoError(t, err)
}

func TestDownloadURL_CountsDownloads(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	file := uploadFile(t, &user.ID, "popular.txt", nil)

	resp, err := DownloadURL(ctx, file.ID)
	require.NoError(t, err)
	require.NotEmpty(t, resp.URL)
	require.Equal(t, "popular.txt", resp.Name)
	require.Equal(t, file.Size, resp.Size)

	_, err = DownloadURL(ctx, file.ID)
	require.NoError(t, err)

	stored, err := GetFile(file.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stored.DownloadCount)
}

func TestDownloadURL_UnknownFile(t *testing.T) {
	_, err := DownloadURL(context.Background(), "never-uploaded-x1y2z3")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListDashboard_SplitsByLocation(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	rootFile := uploadFile(t, &user.ID, "root.txt", nil)
	folder, err := CreateEmptyFolder(ctx, user.ID, "Archive")
	require.NoError(t, err)
	member := uploadFile(t, &user.ID, "inside.txt", &folder.ID)

	rootItems, err := ListDashboard(user.ID, "/")
	require.NoError(t, err)
	ids := make(map[string]string)
	for _, item := range rootItems {
		ids[item.ID] = item.Type
	}
	require.Equal(t, "file", ids[rootFile.ID])
	require.Equal(t, "folder", ids[folder.ID])
	require.NotContains(t, ids, member.ID, "folder members stay out of the root view")

	folderItems, err := ListDashboard(user.ID, folder.ID)
	require.NoError(t, err)
	require.Len(t, folderItems, 1)
	require.Equal(t, member.ID, folderItems[0].ID)
}
