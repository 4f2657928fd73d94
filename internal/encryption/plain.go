package encryption

import (
	"fmt"
	"io"

	"vibestream/internal/vibe"
)

// PlainEncryptor passes bytes through unchanged. Used for tests and for
// setups that accept a cleartext snapshot on disk.
type PlainEncryptor struct{}

var _ vibe.Encryptor = (*PlainEncryptor)(nil)

func NewPlainEncryptor() *PlainEncryptor { return &PlainEncryptor{} }

func (*PlainEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (*PlainEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
