package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
)

// maxUploadBytes caps uploaded GeoJSON files.
const maxUploadBytes = 5 << 20

// OpenEditorHandler starts an editing session on a hearing.
func OpenEditorHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := deps.Editor.Open(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Set("Location", "/v1/editor/"+sess.ID)
		return c.Status(fiber.StatusCreated).JSON(sess)
	}
}

// GetEditorHandler returns the current state of a session.
func GetEditorHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := deps.Editor.Get(c.UserContext(), c.Params("session"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(sess)
	}
}

// CancelEditorHandler discards a session.
func CancelEditorHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Editor.Cancel(c.UserContext(), c.Params("session")); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DrawCreatedHandler appends a drawn shape.
func DrawCreatedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req drawCreatedRequest
		if err := bindJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}
		sess, err := deps.Editor.DrawCreated(c.UserContext(), c.Params("session"), *req.Geometry)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(sess)
	}
}

// DrawEditedHandler replaces an edited shape. An original that is not in
// the session leaves it unchanged and still answers 200.
func DrawEditedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req drawEditedRequest
		if err := bindJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}
		sess, err := deps.Editor.DrawEdited(c.UserContext(), c.Params("session"), *req.Edited, *req.Original)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(sess)
	}
}

// DrawDeletedHandler removes shapes.
func DrawDeletedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req drawDeletedRequest
		if err := bindJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}
		sess, err := deps.Editor.DrawDeleted(c.UserContext(), c.Params("session"), req.Geometries)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(sess)
	}
}

// UploadHandler replaces the session's shapes with an uploaded
// FeatureCollection, sent either as the raw body or as multipart field "file".
func UploadHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Body()
		if fh, err := c.FormFile("file"); err == nil {
			if fh.Size > maxUploadBytes {
				return errBadRequest(c, "file too large")
			}
			f, err := fh.Open()
			if err != nil {
				return errBadRequest(c, "cannot read uploaded file")
			}
			defer f.Close()
			raw, err = io.ReadAll(io.LimitReader(f, maxUploadBytes))
			if err != nil {
				return errBadRequest(c, "cannot read uploaded file")
			}
		}

		sess, err := deps.Editor.Upload(c.UserContext(), c.Params("session"), raw)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(sess)
	}
}

// SaveEditorHandler writes the session back to the hearing.
func SaveEditorHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h, err := deps.Editor.Save(c.UserContext(), c.Params("session"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(h)
	}
}
