package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/music-collection/internal/auth"
	apperrors "github.com/spec-kit/music-collection/pkg/util"
)

func fieldErrors(t *testing.T, err error) map[string]any {
	t.Helper()
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidation), "got %v", err)
	return apperrors.ToDomainError(err).Details
}

func TestUserRegisterRequest_Validate(t *testing.T) {
	ok := UserRegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret"}
	require.NoError(t, ok.Validate())

	details := fieldErrors(t, UserRegisterRequest{Username: "al", Email: "nope", Password: "12345"}.Validate())
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")

	long := UserRegisterRequest{Username: strings.Repeat("a", 51), Email: "a@example.com", Password: "secret"}
	assert.Contains(t, fieldErrors(t, long.Validate()), "username")

	named := UserRegisterRequest{Username: "alice", Email: "Alice <alice@example.com>", Password: "secret"}
	assert.Contains(t, fieldErrors(t, named.Validate()), "email")
}

func TestUserLoginRequest_Validate(t *testing.T) {
	require.NoError(t, UserLoginRequest{Username: "alice", Password: "x"}.Validate())
	details := fieldErrors(t, UserLoginRequest{}.Validate())
	assert.Len(t, details, 2)
}

func TestAlbumRequest_YearBounds(t *testing.T) {
	for _, year := range []int{1901, 2099} {
		require.NoError(t, AlbumRequest{Title: "t", ReleaseYear: year, ArtistName: "a"}.Validate(), year)
	}
	for _, year := range []int{0, 1900, 2100} {
		assert.Contains(t, fieldErrors(t, AlbumRequest{Title: "t", ReleaseYear: year, ArtistName: "a"}.Validate()), "release_year", year)
	}
}

func TestArtistAndPlaylistRequest_Validate(t *testing.T) {
	require.NoError(t, ArtistRequest{Name: "Can", Genre: "krautrock"}.Validate())
	assert.Contains(t, fieldErrors(t, ArtistRequest{Name: "", Genre: "x"}.Validate()), "name")
	assert.Contains(t, fieldErrors(t, ArtistRequest{Name: "x", Genre: strings.Repeat("g", 101)}.Validate()), "genre")

	require.NoError(t, PlaylistRequest{Name: "Night"}.Validate())
	long := strings.Repeat("d", 1001)
	assert.Contains(t, fieldErrors(t, PlaylistRequest{Name: "Night", Description: &long}.Validate()), "description")
	// multi-byte runes count as one character
	accents := strings.Repeat("é", 1000)
	require.NoError(t, PlaylistRequest{Name: "Night", Description: &accents}.Validate())
}

func TestUserRegisterRequest_PasswordByteLimit(t *testing.T) {
	exact := UserRegisterRequest{Username: "alice", Email: "alice@example.com", Password: strings.Repeat("p", auth.MaxPasswordBytes)}
	require.NoError(t, exact.Validate())

	over := exact
	over.Password = strings.Repeat("p", auth.MaxPasswordBytes+1)
	assert.Equal(t, "must be at most 72 bytes", fieldErrors(t, over.Validate())["password"])

	// 36 two-byte runes fit; 37 do not
	wide := exact
	wide.Password = strings.Repeat("é", 37)
	assert.Contains(t, fieldErrors(t, wide.Validate()), "password")
}

func TestLibraryRequests_WhitespaceOnlyText(t *testing.T) {
	details := fieldErrors(t, ArtistRequest{Name: "   ", Genre: "\t\n"}.Validate())
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "genre")

	details = fieldErrors(t, AlbumRequest{Title: "  ", ReleaseYear: 1970, ArtistName: " "}.Validate())
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "artist_name")

	assert.Contains(t, fieldErrors(t, PlaylistRequest{Name: "  "}.Validate()), "name")

	// surrounding space does not count toward the limit
	padded := "  " + strings.Repeat("n", 200) + "  "
	require.NoError(t, ArtistRequest{Name: padded, Genre: "jazz"}.Validate())
}
