package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetDownloadURL builds an absolute URL for a generated file, using
// https in production and plain http everywhere else.
func GetDownloadURL(c *fiber.Ctx, filePath string) string {
	filePath = strings.TrimPrefix(filePath, "/")

	if os.Getenv("APP_ENV") == "production" {
		return fmt.Sprintf("https://%s/%s", c.Hostname(), filePath)
	}
	return fmt.Sprintf("http://%s/%s", c.Hostname(), filePath)
}
