package http

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
)

var validate = validator.New()

type drawCreatedRequest struct {
	Geometry *domain.Geometry `json:"geometry" validate:"required"`
}

type drawEditedRequest struct {
	Original *domain.Geometry `json:"original" validate:"required"`
	Edited   *domain.Geometry `json:"edited" validate:"required"`
}

type drawDeletedRequest struct {
	Geometries []domain.Geometry `json:"geometries" validate:"required"`
}

type listQuery struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

// bindJSON decodes the request body into dst and validates it.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, ", "))
}
