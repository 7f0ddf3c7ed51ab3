package handlers_test

import (
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/peerlink-dev/peerlink/db"
	"github.com/peerlink-dev/peerlink/internal/handlers"
	"github.com/peerlink-dev/peerlink/internal/models"
	"github.com/peerlink-dev/peerlink/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAndListOwnNotes(t *testing.T) {
	r := setupTest(t)

	alice, aliceToken := createUser(t, "Alice", "alice@example.com")

	rec := uploadNote(t, r, aliceToken, "Calculus notes", "Week 3", "calc.pdf", "derivatives")
	require.Equal(t, http.StatusCreated, rec.Code)

	var note models.Note
	require.NoError(t, db.DB.Where("uploaded_by_id = ?", alice.ID).First(&note).Error)
	assert.Equal(t, "Calculus notes", note.Title)
	assert.Equal(t, "calc.pdf", note.FileName)

	// The uploaded bytes landed under the media root.
	data, err := os.ReadFile(storage.AbsolutePath(note.FilePath))
	require.NoError(t, err)
	assert.Equal(t, "derivatives", string(data))

	rec = doJSON(t, r, http.MethodGet, "/api/notes_dashboard", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []handlers.NoteResponse
	decodeJSON(t, rec, &notes)
	require.Len(t, notes, 1)
	assert.Equal(t, "Calculus notes", notes[0].Title)
}

func TestNoteVisibilityFollowsConnections(t *testing.T) {
	r := setupTest(t)

	alice, aliceToken := createUser(t, "Alice", "alice@example.com")
	bob, bobToken := createUser(t, "Bob", "bob@example.com")
	_, carolToken := createUser(t, "Carol", "carol@example.com")

	rec := uploadNote(t, r, bobToken, "Bob's notes", "", "bob.txt", "content")
	require.Equal(t, http.StatusCreated, rec.Code)

	// Not yet connected: Alice sees nothing.
	rec = doJSON(t, r, http.MethodGet, "/api/notes_dashboard", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []handlers.NoteResponse
	decodeJSON(t, rec, &notes)
	assert.Empty(t, notes)

	connect(t, r, alice, aliceToken, bob, bobToken)

	rec = doJSON(t, r, http.MethodGet, "/api/notes_dashboard", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &notes)
	require.Len(t, notes, 1)
	assert.Equal(t, "Bob's notes", notes[0].Title)

	// Carol holds no connection to Bob and stays blind.
	rec = doJSON(t, r, http.MethodGet, "/api/notes_dashboard", carolToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &notes)
	assert.Empty(t, notes)
}

func TestDownloadNotePermissions(t *testing.T) {
	r := setupTest(t)

	alice, aliceToken := createUser(t, "Alice", "alice@example.com")
	bob, bobToken := createUser(t, "Bob", "bob@example.com")
	_, carolToken := createUser(t, "Carol", "carol@example.com")

	rec := uploadNote(t, r, aliceToken, "Shared notes", "", "shared.txt", "hello")
	require.Equal(t, http.StatusCreated, rec.Code)

	var note models.Note
	require.NoError(t, db.DB.Where("uploaded_by_id = ?", alice.ID).First(&note).Error)

	connect(t, r, alice, aliceToken, bob, bobToken)

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/notes/%d/download", note.ID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/notes/%d/download", note.ID), bobToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/notes/%d/download", note.ID), carolToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteNoteOwnerOnly(t *testing.T) {
	r := setupTest(t)

	alice, aliceToken := createUser(t, "Alice", "alice@example.com")
	bob, bobToken := createUser(t, "Bob", "bob@example.com")

	rec := uploadNote(t, r, aliceToken, "Private notes", "", "priv.txt", "secret")
	require.Equal(t, http.StatusCreated, rec.Code)

	var note models.Note
	require.NoError(t, db.DB.Where("uploaded_by_id = ?", alice.ID).First(&note).Error)

	// A connected non-owner can see the note but not delete it.
	connect(t, r, alice, aliceToken, bob, bobToken)

	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/delete_note/%d", note.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.Note{}).Where("id = ?", note.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/delete_note/%d", note.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.DB.Model(&models.Note{}).Where("id = ?", note.ID).Count(&count).Error)
	assert.Zero(t, count)

	// The stored file went with it.
	_, err := os.Stat(storage.AbsolutePath(note.FilePath))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteMissingNote(t *testing.T) {
	r := setupTest(t)

	_, token := createUser(t, "Alice", "alice@example.com")

	rec := doJSON(t, r, http.MethodPost, "/api/delete_note/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadNoteValidation(t *testing.T) {
	r := setupTest(t)

	_, token := createUser(t, "Alice", "alice@example.com")

	rec := uploadNote(t, r, token, "   ", "", "file.txt", "content")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.Note{}).Count(&count).Error)
	assert.Zero(t, count)
}
