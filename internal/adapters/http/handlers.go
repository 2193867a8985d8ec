package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/mapview"
)

// ListHearingsHandler returns one page of hearings.
func ListHearingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := listQuery{Limit: 20}
		if err := c.QueryParser(&q); err != nil {
			return errBadRequest(c, "invalid pagination parameters")
		}
		if err := validateStruct(&q); err != nil {
			return errBadRequest(c, err.Error())
		}
		if q.Limit == 0 {
			q.Limit = 20
		}

		hearings, total, err := deps.Hearings.List(c.UserContext(), q.Limit, q.Offset)
		if err != nil {
			return errFromDomain(c, err)
		}
		if hearings == nil {
			hearings = []domain.Hearing{}
		}

		pg := Pagination{Offset: q.Offset, Limit: q.Limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: hearings, Pagination: pg})
	}
}

// GetHearingHandler returns a single hearing by ID.
func GetHearingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h, err := deps.Hearings.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(h)
	}
}

// GetHearingBySlugHandler returns a single hearing by slug.
func GetHearingBySlugHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h, err := deps.Hearings.GetBySlug(c.UserContext(), c.Params("slug"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(h)
	}
}

// HearingGeometryHandler returns the stored geometry and its decoded shapes.
func HearingGeometryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hg, err := deps.Hearings.Geometry(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(hg)
	}
}

// HearingMapHandler returns render layers for a hearing. surface=false
// skips the layers for clients without a map widget.
func HearingMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := mapview.Platform{Surface: c.QueryBool("surface", true)}
		m, err := deps.Hearings.MapView(c.UserContext(), c.Params("id"), p)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(m)
	}
}

// HearingSummaryHandler returns shape counts, area and extent.
func HearingSummaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Hearings.Summary(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(s)
	}
}

// MapConfig is the map widget setup.
type MapConfig struct {
	TileURL string              `json:"tile_url"`
	CRS     mapview.CRS         `json:"crs"`
	Center  domain.GeoPoint     `json:"center"`
	Zoom    int                 `json:"zoom"`
	Draw    mapview.DrawOptions `json:"draw"`
}

// MapConfigHandler returns tiles, projection and drawing tools.
func MapConfigHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m := deps.Map
		return c.JSON(MapConfig{
			TileURL: mapview.TileURL(m.TileURL, m.HighContrastTileURL, c.QueryBool("high_contrast", false)),
			CRS:     mapview.EPSG3067(),
			Center:  m.Center,
			Zoom:    m.Zoom,
			Draw:    mapview.Tools(m.Icon),
		})
	}
}
