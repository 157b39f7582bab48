package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como número (gte=0, gt=0).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// Los campos del error usan el nombre JSON.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// requestError error de entrada detectado antes de llegar al caso de uso.
type requestError struct {
	code    string
	message string
	fields  map[string]string
}

func (e *requestError) Error() string { return e.message }

func invalidBody(err error) error {
	return &requestError{code: "INVALID_BODY", message: "cuerpo inválido: " + err.Error()}
}

func invalidParam(name, msg string) error {
	return &requestError{code: "VALIDATION", message: msg, fields: map[string]string{name: msg}}
}

// bindAndValidate parsea el body JSON y aplica los tags validate.
func bindAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return invalidBody(err)
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return invalidBody(err)
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return &requestError{code: "VALIDATION", message: "datos inválidos", fields: fields}
	}
	return nil
}

// pageQuery lee limit/offset; el caso de uso aplica los límites.
func pageQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
}

// writeError traduce errores de dominio a status HTTP y dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: reqErr.code, Message: reqErr.message, Fields: reqErr.fields})
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidState):
		status, code = fiber.StatusConflict, "INVALID_STATE"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
