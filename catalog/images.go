package catalog

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"orvia/utils"

	"github.com/disintegration/imaging"
)

const productImageDir = "static/productpic"

// SaveProductImage stores the uploaded product image plus a 300px-wide
// thumbnail and returns the public image path.
func SaveProductImage(file *multipart.FileHeader, productID string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	uniqueID := utils.GetUUID()
	fileName := uniqueID + ".jpg"

	originalPath := filepath.Join(productImageDir, fileName)
	thumbDir := filepath.Join(productImageDir, "thumb")
	thumbnailPath := filepath.Join(thumbDir, fileName)

	if err := ensureDirExists(productImageDir); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := ensureDirExists(thumbDir); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, originalPath); err != nil {
		return "", fmt.Errorf("failed to save original image: %w", err)
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/static/productpic/" + fileName, nil
}

func ensureDirExists(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
