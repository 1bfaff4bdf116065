package utils

import (
	stderrors "errors"
	"log"

	apperrors "feedesk/internal/errors"
	"feedesk/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusForbidden, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

// ValidationFailed sends the field errors of a failed validation with status 400.
func ValidationFailed(c *fiber.Ctx, fields map[string]string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}

// StatusFor maps a domain error kind to its HTTP status.
func StatusFor(de *apperrors.DomainError) int {
	switch de.Kind {
	case apperrors.KindInvalid:
		return fiber.StatusBadRequest
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusUnprocessableEntity
	}
}

// Error sends err as a JSON error response. Domain and validation errors keep their
// message; anything else is logged and reported as fallback.
func Error(c *fiber.Ctx, err error, fallback string) error {
	var verr *validation.Error
	if stderrors.As(err, &verr) {
		return ValidationFailed(c, verr.Fields)
	}
	if de, ok := apperrors.AsDomain(err); ok {
		return Respond(c, StatusFor(de), fiber.Map{"error": de.Message, "code": de.Code})
	}
	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return InternalError(c, fallback)
}
