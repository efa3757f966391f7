package httpapi

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"airqualitypredict/internal/inference"
)

var validate = newValidator()

// newValidator builds a validator that reports JSON field names, so a 400
// names the same fields the caller sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegisterRoutes wires the prediction and health handlers into the Fiber app.
// The inference context is constructed once at startup and shared read-only
// across requests.
func RegisterRoutes(app *fiber.App, infCtx *inference.Context) {
	// Health never touches the model; it only reports whether one is loaded.
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		if !infCtx.Ready() {
			status = "model not loaded"
		}
		return c.JSON(fiber.Map{
			"status":       status,
			"city":         infCtx.City(),
			"model_loaded": infCtx.Ready(),
		})
	})

	v1 := app.Group("/api/v1")

	v1.Post("/predict", func(c *fiber.Ctx) error {
		var obs inference.Observation
		if err := c.BodyParser(&obs); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if err := validate.Struct(obs); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":   true,
					"message": "validation failed",
					"fields":  fieldErrors(verrs),
				})
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := infCtx.Predict(obs)
		if err != nil {
			if errors.Is(err, inference.ErrModelNotLoaded) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "model not loaded; train a model first")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "prediction failed")
		}

		return c.JSON(result)
	})
}

// fieldErrors flattens validator errors into field/constraint pairs.
func fieldErrors(verrs validator.ValidationErrors) []fiber.Map {
	out := make([]fiber.Map, 0, len(verrs))
	for _, fe := range verrs {
		constraint := fe.Tag()
		if fe.Param() != "" {
			constraint += "=" + fe.Param()
		}
		out = append(out, fiber.Map{
			"field":      fe.Field(),
			"constraint": constraint,
		})
	}
	return out
}
