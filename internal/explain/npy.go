// Package explain loads the precomputed SHAP attribution matrix.
package explain

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// NumPy .npy layout:
// [6 bytes: "\x93NUMPY"][1 byte: major][1 byte: minor]
// [2 bytes (v1) or 4 bytes (v2, v3): header length, little-endian]
// [header: Python dict literal, space padded, newline terminated]
// [raw array data]

var npyMagic = []byte("\x93NUMPY")

// maxNPYElements bounds allocations driven by a corrupt header.
const maxNPYElements = 1 << 31

var (
	descrRe   = regexp.MustCompile(`'descr'\s*:\s*'([^']+)'`)
	fortranRe = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// NPYHeader is the decoded .npy header.
type NPYHeader struct {
	Descr        string
	FortranOrder bool
	Shape        []int
}

// ReadNPY decodes a one- or two-dimensional numeric .npy array. A
// one-dimensional array is returned as a single column. Values are
// returned row-major regardless of the file's memory order.
func ReadNPY(r io.Reader) (rows, cols int, data []float64, err error) {
	br := bufio.NewReader(r)

	hdr, err := readNPYHeader(br)
	if err != nil {
		return 0, 0, nil, err
	}

	switch len(hdr.Shape) {
	case 1:
		rows, cols = hdr.Shape[0], 1
	case 2:
		rows, cols = hdr.Shape[0], hdr.Shape[1]
	default:
		return 0, 0, nil, eris.Errorf("npy: want a 1-D or 2-D array, got shape %v", hdr.Shape)
	}
	if rows < 0 || cols < 0 || rows > maxNPYElements || cols > maxNPYElements || (cols > 0 && rows > maxNPYElements/cols) {
		return 0, 0, nil, eris.Errorf("npy: unsupported shape %v", hdr.Shape)
	}
	n := rows * cols

	order, kind, size, err := parseDescr(hdr.Descr)
	if err != nil {
		return 0, 0, nil, err
	}

	buf := make([]byte, n*size)
	if _, err := io.ReadFull(br, buf); err != nil {
		return 0, 0, nil, eris.Wrapf(err, "npy: read %d values", n)
	}

	data = make([]float64, n)
	for i := range data {
		b := buf[i*size : (i+1)*size]
		switch {
		case kind == 'f' && size == 8:
			data[i] = math.Float64frombits(order.Uint64(b))
		case kind == 'f' && size == 4:
			data[i] = float64(math.Float32frombits(order.Uint32(b)))
		case kind == 'i' && size == 8:
			data[i] = float64(int64(order.Uint64(b)))
		case kind == 'i' && size == 4:
			data[i] = float64(int32(order.Uint32(b)))
		}
	}

	if hdr.FortranOrder && rows > 1 && cols > 1 {
		data = transpose(data, rows, cols)
	}
	return rows, cols, data, nil
}

func readNPYHeader(r io.Reader) (*NPYHeader, error) {
	magic := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, eris.Wrap(err, "npy: read magic")
	}
	if !bytes.Equal(magic[:len(npyMagic)], npyMagic) {
		return nil, eris.New("npy: not a NumPy array file")
	}

	var headerLen uint32
	switch major := magic[len(npyMagic)]; major {
	case 1:
		var l uint16
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, eris.Wrap(err, "npy: read header length")
		}
		headerLen = uint32(l)
	case 2, 3:
		if err := binary.Read(r, binary.LittleEndian, &headerLen); err != nil {
			return nil, eris.Wrap(err, "npy: read header length")
		}
	default:
		return nil, eris.Errorf("npy: unsupported format version %d", major)
	}
	if headerLen > 1<<20 {
		return nil, eris.Errorf("npy: header length %d too large", headerLen)
	}

	raw := make([]byte, headerLen)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, eris.Wrap(err, "npy: read header")
	}
	return parseNPYHeader(string(raw))
}

func parseNPYHeader(s string) (*NPYHeader, error) {
	hdr := &NPYHeader{}

	m := descrRe.FindStringSubmatch(s)
	if m == nil {
		return nil, eris.Errorf("npy: header has no descr: %q", s)
	}
	hdr.Descr = m[1]

	if m := fortranRe.FindStringSubmatch(s); m != nil {
		hdr.FortranOrder = m[1] == "True"
	}

	m = shapeRe.FindStringSubmatch(s)
	if m == nil {
		return nil, eris.Errorf("npy: header has no shape: %q", s)
	}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// Python 2 era files may write long literals like 3L.
		dim, err := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if err != nil {
			return nil, eris.Wrapf(err, "npy: bad shape dimension %q", part)
		}
		hdr.Shape = append(hdr.Shape, dim)
	}
	return hdr, nil
}

func parseDescr(descr string) (binary.ByteOrder, byte, int, error) {
	if len(descr) != 3 {
		return nil, 0, 0, eris.Errorf("npy: unsupported dtype %q", descr)
	}

	var order binary.ByteOrder
	switch descr[0] {
	case '<', '=', '|':
		order = binary.LittleEndian
	case '>':
		order = binary.BigEndian
	default:
		return nil, 0, 0, eris.Errorf("npy: unsupported byte order in %q", descr)
	}

	kind := descr[1]
	size := int(descr[2] - '0')
	if (kind != 'f' && kind != 'i') || (size != 4 && size != 8) {
		return nil, 0, 0, eris.Errorf("npy: unsupported dtype %q", descr)
	}
	return order, kind, size, nil
}

// transpose converts column-major data to row-major.
func transpose(data []float64, rows, cols int) []float64 {
	out := make([]float64, len(data))
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			out[r*cols+c] = data[c*rows+r]
		}
	}
	return out
}
