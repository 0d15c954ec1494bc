package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/music-collection/internal/api/dto"
	"github.com/spec-kit/music-collection/internal/domain"
	"github.com/spec-kit/music-collection/internal/repository"
	"github.com/spec-kit/music-collection/internal/service"
)

// LibraryHandler serves a principal's own artists, albums and playlists.
// Every read and delete is scoped to the caller, admins included.
type LibraryHandler struct {
	library *service.LibraryService
}

// NewLibraryHandler constructs handler.
func NewLibraryHandler(library *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// CreateArtist POST /artists.
func (h *LibraryHandler) CreateArtist(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ArtistRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	artist, err := h.library.CreateArtist(c.UserContext(), user.ID, service.ArtistInput{Name: req.Name, Genre: req.Genre})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewArtistResponse(artist)})
}

// ListArtists GET /artists[?genre=].
func (h *LibraryHandler) ListArtists(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}
	artists, err := h.library.ListArtists(c.UserContext(), domain.OwnedBy(user.ID), repository.ArtistFilter{Genre: c.Query("genre")})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArtistList(artists)})
}

// GetArtist GET /artists/:id.
func (h *LibraryHandler) GetArtist(c *fiber.Ctx) error {
	user, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	artist, err := h.library.GetArtist(c.UserContext(), domain.OwnedBy(user.ID), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArtistResponse(artist)})
}

// UpdateArtist PUT /artists/:id.
func (h *LibraryHandler) UpdateArtist(c *fiber.Ctx) error {
	user, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	var req dto.ArtistRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	artist, err := h.library.UpdateArtist(c.UserContext(), domain.OwnedBy(user.ID), id, service.ArtistInput{Name: req.Name, Genre: req.Genre})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArtistResponse(artist)})
}

// DeleteArtist DELETE /artists/:id.
func (h *LibraryHandler) DeleteArtist(c *fiber.Ctx) error {
	user, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	artist, err := h.library.DeleteArtist(c.UserContext(), domain.OwnedBy(user.ID), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArtistResponse(artist)})
}

// CreateAlbum POST /albums.
func (h *LibraryHandler) CreateAlbum(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AlbumRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	album, err := h.library.CreateAlbum(c.UserContext(), user.ID, service.AlbumInput{
		Title:       req.Title,
		ReleaseYear: req.ReleaseYear,
		ArtistName:  req.ArtistName,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAlbumResponse(album)})
}

// ListAlbums GET /albums.
func (h *LibraryHandler) ListAlbums(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}
	albums, err := h.library.ListAlbums(c.UserContext(), domain.OwnedBy(user.ID), 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAlbumList(albums)})
}

// GetAlbum GET /albums/:id.
func (h *LibraryHandler) GetAlbum(c *fiber.Ctx) error {
	user, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	album, err := h.library.GetAlbum(c.UserContext(), domain.OwnedBy(user.ID), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAlbumResponse(album)})
}

// DeleteAlbum DELETE /albums/:id.
func (h *LibraryHandler) DeleteAlbum(c *fiber.Ctx) error {
	user, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	album, err := h.library.DeleteAlbum(c.UserContext(), domain.OwnedBy(user.ID), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAlbumResponse(album)})
}

// CreatePlaylist POST /playlists.
func (h *LibraryHandler) CreatePlaylist(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.PlaylistRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	playlist, err := h.library.CreatePlaylist(c.UserContext(), user.ID, service.PlaylistInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPlaylistResponse(playlist)})
}

// ListPlaylists GET /playlists.
func (h *LibraryHandler) ListPlaylists(c *fiber.Ctx) error {
	user, err := principal(c)
	if err != nil {
		return err
	}
	playlists, err := h.library.ListPlaylists(c.UserContext(), domain.OwnedBy(user.ID), 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPlaylistList(playlists)})
}

// GetPlaylist GET /playlists/:id.
func (h *LibraryHandler) GetPlaylist(c *fiber.Ctx) error {
	user, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	playlist, err := h.library.GetPlaylist(c.UserContext(), domain.OwnedBy(user.ID), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPlaylistResponse(playlist)})
}

// DeletePlaylist DELETE /playlists/:id.
func (h *LibraryHandler) DeletePlaylist(c *fiber.Ctx) error {
	user, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	playlist, err := h.library.DeletePlaylist(c.UserContext(), domain.OwnedBy(user.ID), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPlaylistResponse(playlist)})
}

func principalAndID(c *fiber.Ctx) (*domain.User, int64, error) {
	user, err := principal(c)
	if err != nil {
		return nil, 0, err
	}
	id, err := pathID(c)
	if err != nil {
		return nil, 0, err
	}
	return user, id, nil
}
