package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateFolderName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Taxes", false},
		{"spaces and hyphens", "Q3 Reports - final", false},
		{"digits", "2026", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 51), true},
		{"fifty chars ok", strings.Repeat("a", 50), false},
		{"slash", "a/b", true},
		{"dot", "notes.d", true},
		{"unicode", "公文", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFolderName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCreateFolder_MovesOnlyOwnedFiles(t *testing.T) {
	ctx := context.Background()
	owner := createTestUser(t)
	other := createTestUser(t)

	mine := uploadFile(t, &owner.ID, "mine.txt", nil)
	theirs := uploadFile(t, &other.ID, "theirs.txt", nil)

	resp, err := CreateFolder(ctx, owner.ID, "Loot", []string{mine.ID, theirs.ID, "no-such-file"})
	require.NoError(t, err)
	require.Equal(t, []string{mine.ID}, resp.FileKeys)
	require.Equal(t, "/folder/"+resp.FolderID, resp.FolderPath)

	moved, err := GetFile(mine.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.FolderID)
	require.Equal(t, resp.FolderID, *moved.FolderID)

	untouched, err := GetFile(theirs.ID)
	require.NoError(t, err)
	require.Nil(t, untouched.FolderID)
}

func TestViewFolder_PrunesStaleMembers(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder, err := CreateEmptyFolder(ctx, user.ID, "Mixed")
	require.NoError(t, err)

	keep := uploadFile(t, &user.ID, "keep.txt", &folder.ID)
	gone := uploadFile(t, &user.ID, "gone.txt", &folder.ID)

	// the object vanishes from the store out-of-band
	testStore.Drop(bucket(), objectKeyOf(gone))

	view, err := ViewFolder(ctx, folder.ID)
	require.NoError(t, err)
	require.Len(t, view.Files, 1)
	require.Equal(t, keep.ID, view.Files[0].ID)

	_, err = GetFile(gone.ID)
	require.ErrorIs(t, err, ErrNotFound, "stale row must be pruned")
	_, err = GetFile(keep.ID)
	require.NoError(t, err)

	stored, err := GetFolderOwned(user.ID, folder.ID)
	require.NoError(t, err)
	require.Equal(t, []string{keep.ID}, stored.FileKeys)
}

func TestViewFolder_PruneIsIdempotent(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder, err := CreateEmptyFolder(ctx, user.ID, "Stable")
	require.NoError(t, err)

	keep := uploadFile(t, &user.ID, "keep.txt", &folder.ID)
	gone := uploadFile(t, &user.ID, "gone.txt", &folder.ID)
	testStore.Drop(bucket(), objectKeyOf(gone))

	first, err := ViewFolder(ctx, folder.ID)
	require.NoError(t, err)
	second, err := ViewFolder(ctx, folder.ID)
	require.NoError(t, err)

	require.Len(t, first.Files, 1)
	require.Len(t, second.Files, 1)
	require.Equal(t, keep.ID, second.Files[0].ID)
}

func TestViewFolder_CascadeWhenPruningEmptiesFolder(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder, err := CreateEmptyFolder(ctx, user.ID, "Doomed")
	require.NoError(t, err)

	only := uploadFile(t, &user.ID, "only.txt", &folder.ID)
	testStore.Drop(bucket(), objectKeyOf(only))

	_, err = ViewFolder(ctx, folder.ID)
	require.ErrorIs(t, err, ErrFolderNotFound)

	_, err = GetFolderOwned(user.ID, folder.ID)
	require.ErrorIs(t, err, ErrFolderNotFound, "emptied folder must be deleted")
}

func TestViewFolder_EmptyFolderStaysViewable(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder, err := CreateEmptyFolder(ctx, user.ID, "Fresh")
	require.NoError(t, err)

	view, err := ViewFolder(ctx, folder.ID)
	require.NoError(t, err)
	require.Empty(t, view.Files)
	require.Equal(t, folder.Name, view.Name)
	require.Equal(t, user.Name, view.OwnerName)
}

func TestViewFolder_Unknown(t *testing.T) {
	_, err := ViewFolder(context.Background(), "missing-folder-abc")
	require.ErrorIs(t, err, ErrFolderNotFound)
}

func TestDeleteFolder_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder, err := CreateEmptyFolder(ctx, user.ID, "Bulk")
	require.NoError(t, err)

	a := uploadFile(t, &user.ID, "a.txt", &folder.ID)
	b := uploadFile(t, &user.ID, "b.txt", &folder.ID)

	testStore.FailRemove[objectKeyOf(b)] = true
	err = DeleteFolder(ctx, user.ID, folder.ID)
	require.Error(t, err)

	// no rows were touched, so everything stays deletable
	_, err = GetFile(a.ID)
	require.NoError(t, err)
	_, err = GetFile(b.ID)
	require.NoError(t, err)
	_, err = GetFolderOwned(user.ID, folder.ID)
	require.NoError(t, err)

	delete(testStore.FailRemove, objectKeyOf(b))
	require.NoError(t, DeleteFolder(ctx, user.ID, folder.ID))

	_, err = GetFile(a.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = GetFile(b.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = GetFolderOwned(user.ID, folder.ID)
	require.ErrorIs(t, err, ErrFolderNotFound)
}

func TestSoftDeleteFolder_DetachesFiles(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder, err := CreateEmptyFolder(ctx, user.ID, "Keepers")
	require.NoError(t, err)

	file := uploadFile(t, &user.ID, "survivor.txt", &folder.ID)

	require.NoError(t, SoftDeleteFolder(ctx, user.ID, folder.ID))

	_, err = GetFolderOwned(user.ID, folder.ID)
	require.ErrorIs(t, err, ErrFolderNotFound)

	detached, err := GetFile(file.ID)
	require.NoError(t, err)
	require.Nil(t, detached.FolderID)

	exists, err := testStore.ObjectExists(ctx, bucket(), objectKeyOf(file))
	require.NoError(t, err)
	require.True(t, exists)
}

func TestDeleteAll_RemovesEverything(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	folder, err := CreateEmptyFolder(ctx, user.ID, "Everything")
	require.NoError(t, err)

	root := uploadFile(t, &user.ID, "root.txt", nil)
	member := uploadFile(t, &user.ID, "member.txt", &folder.ID)

	require.NoError(t, DeleteAll(ctx, user.ID))

	for _, id := range []string{root.ID, member.ID} {
		_, err := GetFile(id)
		require.ErrorIs(t, err, ErrNotFound)
	}
	_, err = GetFolderOwned(user.ID, folder.ID)
	require.ErrorIs(t, err, ErrFolderNotFound)

	exists, err := testStore.ObjectExists(ctx, bucket(), objectKeyOf(root))
	require.NoError(t, err)
	require.False(t, exists)
}
