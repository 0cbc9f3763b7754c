// Package rom provides byte-addressed access to a SNES ROM image.
package rom

import (
	"errors"
	"fmt"
	"os"
)

// ErrOutOfBounds is returned for accesses past the end of the image.
var ErrOutOfBounds = errors.New("access outside ROM image")

// copierHeaderSize is the size of the header some dumping devices prepend.
const copierHeaderSize = 0x200

// Image is an in-memory ROM image.
type Image struct {
	data   []byte
	header []byte // copier header, restored on Save
}

// New wraps data without copying it.
func New(data []byte) *Image {
	return &Image{data: data}
}

// Open reads a ROM file. A 512-byte copier header is detected from the file
// size and kept aside so offsets address the ROM proper.
func Open(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}
	img := &Image{data: data}
	if len(data)%0x8000 == copierHeaderSize {
		img.header = data[:copierHeaderSize]
		img.data = data[copierHeaderSize:]
	}
	return img, nil
}

// Save writes the image, including any copier header, to path.
func (img *Image) Save(path string) error {
	out := make([]byte, 0, len(img.header)+len(img.data))
	out = append(out, img.header...)
	out = append(out, img.data...)
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing ROM: %w", err)
	}
	return nil
}

// Len returns the size of the image in bytes.
func (img *Image) Len() int {
	return len(img.data)
}

// HasCopierHeader reports whether Open stripped a copier header.
func (img *Image) HasCopierHeader() bool {
	return len(img.header) > 0
}

// Data returns the backing bytes.
func (img *Image) Data() []byte {
	return img.data
}

// Get returns a copy of length bytes at offset.
func (img *Image) Get(offset, length int) ([]byte, error) {
	if err := img.check(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, img.data[offset:])
	return out, nil
}

// Put overwrites len(data) bytes at offset.
func (img *Image) Put(offset int, data []byte) error {
	if err := img.check(offset, len(data)); err != nil {
		return err
	}
	copy(img.data[offset:], data)
	return nil
}

func (img *Image) check(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(img.data) {
		return fmt.Errorf("%w: %#x+%d (size %#x)", ErrOutOfBounds, offset, length, len(img.data))
	}
	return nil
}
