package common

import "github.com/gofiber/fiber/v2"

// OK writes the success envelope.
func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// Created writes the success envelope with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

// List writes a page of records together with the number of matching records.
func List(c *fiber.Ctx, data interface{}, total int) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "total": total})
}

// Message writes a success envelope carrying only a message.
func Message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"success": true, "message": msg})
}
