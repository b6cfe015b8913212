// Package storage persists uploaded post images and checks that uploads are images.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrNotAnImage is returned when an upload cannot be decoded as a supported image.
var ErrNotAnImage = errors.New("upload a valid image: the file is either not an image or a corrupted image")

// ImageInfo describes an accepted upload.
type ImageInfo struct {
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Inspect verifies that data is a GIF, JPEG, PNG or WebP image no larger than maxBytes.
// A non-positive maxBytes disables the size check.
func Inspect(data []byte, maxBytes int64) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, errors.New("the submitted file is empty")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return ImageInfo{}, fmt.Errorf("file too large (max %dMB)", maxBytes/(1024*1024))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, ErrNotAnImage
	}

	info := ImageInfo{Width: cfg.Width, Height: cfg.Height}
	switch format {
	case "jpeg":
		info.ContentType, info.Ext = "image/jpeg", ".jpg"
	case "png":
		info.ContentType, info.Ext = "image/png", ".png"
	case "gif":
		info.ContentType, info.Ext = "image/gif", ".gif"
	case "webp":
		info.ContentType, info.Ext = "image/webp", ".webp"
	default:
		return ImageInfo{}, ErrNotAnImage
	}

	// Sniffed type must agree with the decoder.
	if sniffed := http.DetectContentType(data); sniffed != info.ContentType {
		return ImageInfo{}, ErrNotAnImage
	}
	return info, nil
}
