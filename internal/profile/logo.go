package profile

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// MaxLogoBytes is the largest accepted logo image.
const MaxLogoBytes = 2 << 20

// LogoFromFile reads an image file and returns it as a data URL suitable for
// Input.Logo.
func LogoFromFile(path string) (string, error) {
	const op = "profile.LogoFromFile"

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if info.Size() > MaxLogoBytes {
		return "", fmt.Errorf("%s: %w", op, ErrLogoTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", &ValidationError{Field: "logo", Value: path, Message: "file is not an image (" + contentType + ")"}
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// checkLogo rejects data URLs whose decoded payload exceeds MaxLogoBytes. An
// empty logo clears the stored one.
func checkLogo(logo string) error {
	if logo == "" {
		return nil
	}
	i := strings.Index(logo, ";base64,")
	if !strings.HasPrefix(logo, "data:image/") || i < 0 {
		return &ValidationError{Field: "logo", Message: "logo must be an image data URL"}
	}
	payload := logo[i+len(";base64,"):]
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxLogoBytes+2 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrLogoTooLarge)
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return &ValidationError{Field: "logo", Message: "logo is not valid base64"}
	}
	if len(decoded) > MaxLogoBytes {
		return fmt.Errorf("%w: %w", ErrValidation, ErrLogoTooLarge)
	}
	return nil
}
