package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"time"

	"go-media-library/internal/config"
	"go-media-library/internal/storage"
)

// Smoke check for the configured storage provider: uploads a small object,
// copies it, reads both back and deletes them again.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	fmt.Printf("Checking %s storage...\n", cfg.Storage.Provider)

	provider := storage.GetProvider()
	key := fmt.Sprintf("smoke-check/%d.txt", time.Now().Unix())
	payload := []byte("media library storage check")

	storedKey, err := provider.UploadBytes(payload, key)
	if err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	fmt.Printf("Uploaded %s\n", storedKey)

	copyKey := storedKey + ".copy"
	if err := provider.Copy(storedKey, copyKey); err != nil {
		log.Fatalf("Copy failed: %v", err)
	}
	fmt.Printf("Copied to %s\n", copyKey)

	reader, err := provider.Download(copyKey)
	if err != nil {
		log.Fatalf("Download failed: %v", err)
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		log.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		log.Fatalf("Payload mismatch: got %q", data)
	}

	for _, k := range []string{storedKey, copyKey} {
		if err := provider.Delete(k); err != nil {
			log.Fatalf("Delete of %s failed: %v", k, err)
		}
	}

	fmt.Println("Storage check passed")
	fmt.Printf("Public URL example: %s\n", provider.GetPublicURL("example.png"))
}
