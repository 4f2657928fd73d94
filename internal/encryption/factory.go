package encryption

import (
	"fmt"

	"vibestream/internal/config"
	"vibestream/internal/vibe"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (vibe.Encryptor, error) {
	switch cfg.Type {
	case "plain", "":
		return NewPlainEncryptor(), nil
	case "age":
		return NewAgeEncryptor(cfg), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
