package utils

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// Retry configuration
const maxRetries = 3
const retryDelay = 2 * time.Minute

// CleanupExpiredFiles removes a generated export file once it is older
// than the TTL.
func CleanupExpiredFiles(filePath string, ttl time.Duration) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("error checking file: %v", err)
	}

	if time.Since(info.ModTime()) > ttl {
		err := os.Remove(filePath)
		if err != nil {
			return fmt.Errorf("error deleting expired file: %v", err)
		}
		log.Printf("file %s deleted successfully", filePath)
	}
	return nil
}

// CleanupAllExpired removes stale export files and the Redis keys that
// point at them.
func CleanupAllExpired(fileTTL time.Duration) error {
	files, err := os.ReadDir("./public/files")
	if err != nil {
		return fmt.Errorf("error reading files directory: %v", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filePath := fmt.Sprintf("./public/files/%s", file.Name())
		err := CleanupExpiredFiles(filePath, fileTTL)
		if err != nil {
			log.Println("error cleaning up file:", err)
		}
	}

	// Export cache keys reference files that may just have been removed
	if err := InvalidateCache("product_exports"); err != nil {
		return fmt.Errorf("error cleaning up export cache: %v", err)
	}

	return nil
}

// RunScheduledCleanup runs cleanup tasks daily at 1 AM with retries and
// notifies the admin address when all attempts fail.
func RunScheduledCleanup() {
	c := cron.New()

	c.AddFunc("0 1 * * *", func() {
		log.Println("running scheduled cleanup task...")

		var retries int
		var cleanupSuccess bool

		for retries < maxRetries {
			log.Printf("attempt %d to clean up...", retries+1)
			err := CleanupAllExpired(24 * time.Hour)
			if err == nil {
				log.Println("cleanup successful!")
				cleanupSuccess = true
				break
			}
			log.Printf("cleanup failed: %v", err)
			retries++
			time.Sleep(retryDelay)
		}

		if !cleanupSuccess {
			log.Printf("cleanup task failed after %d retries. please check the system.", retries)

			adminEmail := os.Getenv("ADMIN_EMAIL")
			if adminEmail != "" {
				SendEmail(
					adminEmail,
					"Cleanup Task Failed",
					"<p>The scheduled export cleanup task failed after multiple attempts.</p>",
				)
			}
		}
	})

	c.Start()
}
