package sample

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Cache files use the NPY version 1.0 format: little-endian float32,
// C order, shape (H, W, 3). Keeping the standard format means cached
// grids remain inspectable with ordinary array tooling.

var npyMagic = []byte("\x93NUMPY")

// Static errors for the NPY codec
var (
	ErrNotNPY         = errors.New("not an NPY file")
	ErrUnsupportedNPY = errors.New("unsupported NPY layout")
)

var npyShapeRe = regexp.MustCompile(`'shape':\s*\((\d+),\s*(\d+),\s*(\d+)\)`)

// WriteNPY serializes a sample as an NPY array.
func WriteNPY(w io.Writer, s *Sample) error {
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d, %d), }", s.Height, s.Width, Channels)

	// Pad so the full preamble (magic + version + length + header) is a
	// multiple of 64 bytes, terminated by a newline.
	unpadded := len(npyMagic) + 2 + 2 + len(header) + 1
	pad := (64 - unpadded%64) % 64
	header = header + strings.Repeat(" ", pad) + "\n"

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(npyMagic); err != nil {
		return err
	}
	if _, err := bw.Write([]byte{1, 0}); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint16(len(header))); err != nil { //nolint:gosec // header length is bounded
		return err
	}
	if _, err := bw.WriteString(header); err != nil {
		return err
	}

	var buf [4]byte
	for _, v := range s.Data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// ReadNPY deserializes a sample written by WriteNPY. Only little-endian
// float32 C-order arrays of shape (H, W, 3) are accepted.
func ReadNPY(r io.Reader) (*Sample, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(npyMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotNPY, err)
	}
	if string(magic) != string(npyMagic) {
		return nil, ErrNotNPY
	}

	version := make([]byte, 2)
	if _, err := io.ReadFull(br, version); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotNPY, err)
	}
	if version[0] != 1 {
		return nil, fmt.Errorf("%w: version %d.%d", ErrUnsupportedNPY, version[0], version[1])
	}

	var headerLen uint16
	if err := binary.Read(br, binary.LittleEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotNPY, err)
	}

	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(br, headerBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotNPY, err)
	}
	header := string(headerBytes)

	if !strings.Contains(header, "'descr': '<f4'") {
		return nil, fmt.Errorf("%w: dtype must be <f4", ErrUnsupportedNPY)
	}
	if !strings.Contains(header, "'fortran_order': False") {
		return nil, fmt.Errorf("%w: fortran order arrays are not supported", ErrUnsupportedNPY)
	}

	m := npyShapeRe.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("%w: shape must be 3-dimensional", ErrUnsupportedNPY)
	}

	height, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedNPY, err)
	}
	width, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedNPY, err)
	}
	channels, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedNPY, err)
	}
	if channels != Channels {
		return nil, fmt.Errorf("%w: expected %d channels, got %d", ErrUnsupportedNPY, Channels, channels)
	}
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: empty shape", ErrUnsupportedNPY)
	}

	out := New(height, width)
	raw := make([]byte, 4)
	for i := range out.Data {
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("truncated NPY payload: %w", err)
		}
		out.Data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw))
	}

	return out, nil
}
