package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/music-collection/internal/api/dto"
	"github.com/spec-kit/music-collection/internal/domain"
	"github.com/spec-kit/music-collection/internal/repository"
	"github.com/spec-kit/music-collection/internal/service"
)

// AdminHandler serves /admin routes. The router guards them with
// auth.RequireAdminRole, so every call here acts across all owners.
type AdminHandler struct {
	admin   *service.AdminService
	library *service.LibraryService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, library *service.LibraryService) *AdminHandler {
	return &AdminHandler{admin: admin, library: library}
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserList(users)})
}

// DeleteUser DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	actor, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	user, err := h.admin.DeleteUser(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// PromoteUser PUT /admin/users/:id/promote.
func (h *AdminHandler) PromoteUser(c *fiber.Ctx) error {
	actor, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	user, err := h.admin.Promote(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// DemoteUser PUT /admin/users/:id/demote.
func (h *AdminHandler) DemoteUser(c *fiber.Ctx) error {
	actor, id, err := principalAndID(c)
	if err != nil {
		return err
	}
	user, err := h.admin.Demote(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ListArtists GET /admin/artists[?owner_id=&genre=].
func (h *AdminHandler) ListArtists(c *fiber.Ctx) error {
	ownerID, err := ownerQuery(c)
	if err != nil {
		return err
	}
	artists, err := h.library.ListArtists(c.UserContext(), domain.AllOwners(), repository.ArtistFilter{
		Genre:   c.Query("genre"),
		OwnerID: ownerID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArtistList(artists)})
}

// DeleteArtist DELETE /admin/artists/:id.
func (h *AdminHandler) DeleteArtist(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	artist, err := h.library.DeleteArtist(c.UserContext(), domain.AllOwners(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArtistResponse(artist)})
}

// ListAlbums GET /admin/albums[?owner_id=].
func (h *AdminHandler) ListAlbums(c *fiber.Ctx) error {
	ownerID, err := ownerQuery(c)
	if err != nil {
		return err
	}
	albums, err := h.library.ListAlbums(c.UserContext(), domain.AllOwners(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAlbumList(albums)})
}

// DeleteAlbum DELETE /admin/albums/:id.
func (h *AdminHandler) DeleteAlbum(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	album, err := h.library.DeleteAlbum(c.UserContext(), domain.AllOwners(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAlbumResponse(album)})
}

// ListPlaylists GET /admin/playlists[?owner_id=].
func (h *AdminHandler) ListPlaylists(c *fiber.Ctx) error {
	ownerID, err := ownerQuery(c)
	if err != nil {
		return err
	}
	playlists, err := h.library.ListPlaylists(c.UserContext(), domain.AllOwners(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPlaylistList(playlists)})
}

// DeletePlaylist DELETE /admin/playlists/:id.
func (h *AdminHandler) DeletePlaylist(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	playlist, err := h.library.DeletePlaylist(c.UserContext(), domain.AllOwners(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPlaylistResponse(playlist)})
}
