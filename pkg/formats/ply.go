package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"os"
	"strconv"
	"strings"
)

// PLY format errors.
var (
	ErrInvalidPLYMagic      = errors.New("invalid PLY magic: expected 'ply'")
	ErrUnsupportedPLYFormat = errors.New("unsupported PLY format")
	ErrInvalidPLYHeader     = errors.New("invalid PLY header")
	ErrTruncatedPLYData     = errors.New("truncated PLY data")
	ErrMalformedPLYData     = errors.New("malformed PLY data")
	ErrMissingPLYElement    = errors.New("missing PLY element")
	ErrMissingPLYProperty   = errors.New("missing PLY property")
	ErrPLYPropertyType      = errors.New("unexpected PLY property type")
)

// Upper bound on preallocated rows; larger elements grow on demand.
const maxPLYPrealloc = 1 << 16

// PLYFormat is the body encoding declared in the header.
type PLYFormat int

const (
	PLYFormatASCII              PLYFormat = iota // format ascii
	PLYFormatBinaryLittleEndian                  // format binary_little_endian
	PLYFormatBinaryBigEndian                     // format binary_big_endian
)

// String returns the header keyword for the format.
func (f PLYFormat) String() string {
	switch f {
	case PLYFormatASCII:
		return "ascii"
	case PLYFormatBinaryLittleEndian:
		return "binary_little_endian"
	case PLYFormatBinaryBigEndian:
		return "binary_big_endian"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// PLYPropertyType is the scalar type of a property or list item.
type PLYPropertyType int

const (
	PLYInt8 PLYPropertyType = iota
	PLYUint8
	PLYInt16
	PLYUint16
	PLYInt32
	PLYUint32
	PLYFloat32
	PLYFloat64
)

var plyTypeNames = map[string]PLYPropertyType{
	"char": PLYInt8, "int8": PLYInt8,
	"uchar": PLYUint8, "uint8": PLYUint8,
	"short": PLYInt16, "int16": PLYInt16,
	"ushort": PLYUint16, "uint16": PLYUint16,
	"int": PLYInt32, "int32": PLYInt32,
	"uint": PLYUint32, "uint32": PLYUint32,
	"float": PLYFloat32, "float32": PLYFloat32,
	"double": PLYFloat64, "float64": PLYFloat64,
}

// String returns the canonical header name of the type.
func (t PLYPropertyType) String() string {
	switch t {
	case PLYInt8:
		return "char"
	case PLYUint8:
		return "uchar"
	case PLYInt16:
		return "short"
	case PLYUint16:
		return "ushort"
	case PLYInt32:
		return "int"
	case PLYUint32:
		return "uint"
	case PLYFloat32:
		return "float"
	case PLYFloat64:
		return "double"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Size returns the encoded size in bytes for binary bodies.
func (t PLYPropertyType) Size() int {
	switch t {
	case PLYInt8, PLYUint8:
		return 1
	case PLYInt16, PLYUint16:
		return 2
	case PLYInt32, PLYUint32, PLYFloat32:
		return 4
	default:
		return 8
	}
}

// IsInteger reports whether the type holds integers.
func (t PLYPropertyType) IsInteger() bool {
	return t != PLYFloat32 && t != PLYFloat64
}

// holds reports whether v is representable in t. Integer types need a
// whole value inside their range.
func (t PLYPropertyType) holds(v float64) bool {
	if gomath.IsNaN(v) {
		return false
	}
	if !t.IsInteger() {
		return true
	}
	if v != gomath.Trunc(v) {
		return false
	}
	var lo, hi float64
	switch t {
	case PLYInt8:
		lo, hi = gomath.MinInt8, gomath.MaxInt8
	case PLYUint8:
		lo, hi = 0, gomath.MaxUint8
	case PLYInt16:
		lo, hi = gomath.MinInt16, gomath.MaxInt16
	case PLYUint16:
		lo, hi = 0, gomath.MaxUint16
	case PLYInt32:
		lo, hi = gomath.MinInt32, gomath.MaxInt32
	default:
		lo, hi = 0, gomath.MaxUint32
	}
	return v >= lo && v <= hi
}

// PLYProperty describes one property of an element.
type PLYProperty struct {
	Name      string
	Type      PLYPropertyType // Scalar type, or item type for lists
	IsList    bool
	CountType PLYPropertyType // List length type (lists only)
}

// PLYElement is a named table of rows, one column per property.
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty

	// Column storage, indexed like Properties.
	scalars [][]float64
	lists   [][][]float64
}

// PLY represents a parsed PLY file.
type PLY struct {
	Format   PLYFormat
	Version  string
	Comments []string
	ObjInfo  []string
	Elements []*PLYElement
}

// LoadPLY reads and parses a PLY file from disk.
func LoadPLY(path string) (*PLY, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ply, err := ReadPLY(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ply, nil
}

// ParsePLY parses PLY data from a byte slice.
func ParsePLY(data []byte) (*PLY, error) {
	if len(data) < 3 {
		return nil, ErrTruncatedPLYData
	}
	return ReadPLY(bytes.NewReader(data))
}

// ReadPLY parses a PLY stream. The header is line based; the body is read
// according to the declared format.
func ReadPLY(r io.Reader) (*PLY, error) {
	br := bufio.NewReader(r)

	ply, err := parsePLYHeader(br)
	if err != nil {
		return nil, err
	}

	switch ply.Format {
	case PLYFormatASCII:
		err = readASCIIBody(br, ply)
	case PLYFormatBinaryLittleEndian:
		err = readBinaryBody(br, ply, binary.LittleEndian)
	case PLYFormatBinaryBigEndian:
		err = readBinaryBody(br, ply, binary.BigEndian)
	}
	if err != nil {
		return nil, err
	}

	return ply, nil
}

func parsePLYHeader(br *bufio.Reader) (*PLY, error) {
	line, err := readHeaderLine(br)
	if err != nil {
		return nil, err
	}
	if line != "ply" {
		return nil, ErrInvalidPLYMagic
	}

	ply := &PLY{}
	haveFormat := false
	var current *PLYElement

	for {
		line, err := readHeaderLine(br)
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPLYHeader, line)
			}
			switch fields[1] {
			case "ascii":
				ply.Format = PLYFormatASCII
			case "binary_little_endian":
				ply.Format = PLYFormatBinaryLittleEndian
			case "binary_big_endian":
				ply.Format = PLYFormatBinaryBigEndian
			default:
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedPLYFormat, fields[1])
			}
			ply.Version = fields[2]
			haveFormat = true

		case "comment":
			ply.Comments = append(ply.Comments, strings.TrimSpace(strings.TrimPrefix(line, "comment")))

		case "obj_info":
			ply.ObjInfo = append(ply.ObjInfo, strings.TrimSpace(strings.TrimPrefix(line, "obj_info")))

		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidPLYHeader, line)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: bad element count %q", ErrInvalidPLYHeader, fields[2])
			}
			current = &PLYElement{Name: fields[1], Count: count}
			ply.Elements = append(ply.Elements, current)

		case "property":
			if current == nil {
				return nil, fmt.Errorf("%w: property before element", ErrInvalidPLYHeader)
			}
			prop, err := parsePropertyLine(fields)
			if err != nil {
				return nil, err
			}
			current.Properties = append(current.Properties, prop)

		case "end_header":
			if !haveFormat {
				return nil, fmt.Errorf("%w: missing format line", ErrInvalidPLYHeader)
			}
			return ply, nil

		default:
			return nil, fmt.Errorf("%w: unknown keyword %q", ErrInvalidPLYHeader, fields[0])
		}
	}
}

func parsePropertyLine(fields []string) (PLYProperty, error) {
	if len(fields) == 5 && fields[1] == "list" {
		countType, ok1 := plyTypeNames[fields[2]]
		itemType, ok2 := plyTypeNames[fields[3]]
		if !ok1 || !ok2 || !countType.IsInteger() {
			return PLYProperty{}, fmt.Errorf("%w: bad list types %s %s", ErrInvalidPLYHeader, fields[2], fields[3])
		}
		return PLYProperty{Name: fields[4], Type: itemType, IsList: true, CountType: countType}, nil
	}
	if len(fields) != 3 {
		return PLYProperty{}, fmt.Errorf("%w: %q", ErrInvalidPLYHeader, strings.Join(fields, " "))
	}
	typ, ok := plyTypeNames[fields[1]]
	if !ok {
		return PLYProperty{}, fmt.Errorf("%w: unknown type %q", ErrInvalidPLYHeader, fields[1])
	}
	return PLYProperty{Name: fields[2], Type: typ}, nil
}

func readHeaderLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if err == io.EOF {
			return "", ErrTruncatedPLYData
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (e *PLYElement) allocColumns() {
	n := e.Count
	if n > maxPLYPrealloc {
		n = maxPLYPrealloc
	}
	e.scalars = make([][]float64, len(e.Properties))
	e.lists = make([][][]float64, len(e.Properties))
	for i, p := range e.Properties {
		if p.IsList {
			e.lists[i] = make([][]float64, 0, n)
		} else {
			e.scalars[i] = make([]float64, 0, n)
		}
	}
}

// readASCIIBody treats the body as a whitespace-separated token stream.
func readASCIIBody(br *bufio.Reader, ply *PLY) error {
	body, err := io.ReadAll(br)
	if err != nil {
		return err
	}
	tokens := strings.Fields(string(body))
	pos := 0

	next := func(t PLYPropertyType) (float64, error) {
		if pos >= len(tokens) {
			return 0, ErrTruncatedPLYData
		}
		tok := tokens[pos]
		pos++
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad number %q", ErrMalformedPLYData, tok)
		}
		if !t.holds(v) {
			return 0, fmt.Errorf("%w: %q out of range for %s", ErrMalformedPLYData, tok, t)
		}
		return v, nil
	}

	for _, elem := range ply.Elements {
		elem.allocColumns()
		for row := 0; row < elem.Count; row++ {
			for i, prop := range elem.Properties {
				if !prop.IsList {
					v, err := next(prop.Type)
					if err != nil {
						return fmt.Errorf("element %s row %d: %w", elem.Name, row, err)
					}
					elem.scalars[i] = append(elem.scalars[i], v)
					continue
				}
				n, err := next(prop.CountType)
				if err != nil {
					return fmt.Errorf("element %s row %d: %w", elem.Name, row, err)
				}
				if n < 0 {
					return fmt.Errorf("%w: element %s row %d: negative list length", ErrMalformedPLYData, elem.Name, row)
				}
				// Every item is one more token.
				if n > float64(len(tokens)-pos) {
					return fmt.Errorf("%w: element %s row %d: list length %v exceeds remaining data", ErrMalformedPLYData, elem.Name, row, n)
				}
				items := make([]float64, int(n))
				for k := range items {
					if items[k], err = next(prop.Type); err != nil {
						return fmt.Errorf("element %s row %d: %w", elem.Name, row, err)
					}
				}
				elem.lists[i] = append(elem.lists[i], items)
			}
		}
	}
	return nil
}

func readBinaryBody(br *bufio.Reader, ply *PLY, order binary.ByteOrder) error {
	var buf [8]byte

	read := func(t PLYPropertyType) (float64, error) {
		b := buf[:t.Size()]
		if _, err := io.ReadFull(br, b); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, ErrTruncatedPLYData
			}
			return 0, err
		}
		return decodeScalar(b, t, order), nil
	}

	for _, elem := range ply.Elements {
		elem.allocColumns()
		for row := 0; row < elem.Count; row++ {
			for i, prop := range elem.Properties {
				if !prop.IsList {
					v, err := read(prop.Type)
					if err != nil {
						return fmt.Errorf("element %s row %d: %w", elem.Name, row, err)
					}
					elem.scalars[i] = append(elem.scalars[i], v)
					continue
				}
				n, err := read(prop.CountType)
				if err != nil {
					return fmt.Errorf("element %s row %d: %w", elem.Name, row, err)
				}
				if n < 0 {
					return fmt.Errorf("%w: element %s row %d: negative list length", ErrMalformedPLYData, elem.Name, row)
				}
				// The count is untrusted; items grow as they are read.
				count := int(n)
				items := make([]float64, 0, min(count, maxPLYPrealloc))
				for range count {
					v, err := read(prop.Type)
					if err != nil {
						return fmt.Errorf("element %s row %d: %w", elem.Name, row, err)
					}
					items = append(items, v)
				}
				elem.lists[i] = append(elem.lists[i], items)
			}
		}
	}
	return nil
}

func decodeScalar(b []byte, t PLYPropertyType, order binary.ByteOrder) float64 {
	switch t {
	case PLYInt8:
		return float64(int8(b[0]))
	case PLYUint8:
		return float64(b[0])
	case PLYInt16:
		return float64(int16(order.Uint16(b)))
	case PLYUint16:
		return float64(order.Uint16(b))
	case PLYInt32:
		return float64(int32(order.Uint32(b)))
	case PLYUint32:
		return float64(order.Uint32(b))
	case PLYFloat32:
		return float64(gomath.Float32frombits(order.Uint32(b)))
	default:
		return gomath.Float64frombits(order.Uint64(b))
	}
}

// Element returns the element with the given name.
func (p *PLY) Element(name string) (*PLYElement, error) {
	for _, e := range p.Elements {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrMissingPLYElement, name)
}

// property returns the index of the named property.
func (e *PLYElement) property(name string) (int, error) {
	for i := range e.Properties {
		if e.Properties[i].Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s.%s", ErrMissingPLYProperty, e.Name, name)
}

// HasProperty reports whether the element declares the named property.
func (e *PLYElement) HasProperty(name string) bool {
	_, err := e.property(name)
	return err == nil
}

// Float32Property returns a float or double scalar column as float32.
func (e *PLYElement) Float32Property(name string) ([]float32, error) {
	i, err := e.property(name)
	if err != nil {
		return nil, err
	}
	prop := e.Properties[i]
	if prop.IsList || prop.Type.IsInteger() {
		return nil, fmt.Errorf("%w: %s.%s is %s, want float", ErrPLYPropertyType, e.Name, name, describe(prop))
	}
	col := e.scalars[i]
	out := make([]float32, len(col))
	for k, v := range col {
		out[k] = float32(v)
	}
	return out, nil
}

// Uint8Property returns a uchar scalar column.
func (e *PLYElement) Uint8Property(name string) ([]uint8, error) {
	i, err := e.property(name)
	if err != nil {
		return nil, err
	}
	prop := e.Properties[i]
	if prop.IsList || prop.Type != PLYUint8 {
		return nil, fmt.Errorf("%w: %s.%s is %s, want uchar", ErrPLYPropertyType, e.Name, name, describe(prop))
	}
	col := e.scalars[i]
	out := make([]uint8, len(col))
	for k, v := range col {
		out[k] = uint8(v)
	}
	return out, nil
}

// IntListProperty returns an integer list column.
func (e *PLYElement) IntListProperty(name string) ([][]int64, error) {
	i, err := e.property(name)
	if err != nil {
		return nil, err
	}
	prop := e.Properties[i]
	if !prop.IsList || !prop.Type.IsInteger() {
		return nil, fmt.Errorf("%w: %s.%s is %s, want integer list", ErrPLYPropertyType, e.Name, name, describe(prop))
	}
	col := e.lists[i]
	out := make([][]int64, len(col))
	for k, items := range col {
		row := make([]int64, len(items))
		for j, v := range items {
			row[j] = int64(v)
		}
		out[k] = row
	}
	return out, nil
}

// FaceIndices returns the per-face vertex index lists of the "face" element.
// Both "vertex_indices" and "vertex_index" property names are accepted.
func (p *PLY) FaceIndices() ([][]int64, error) {
	face, err := p.Element("face")
	if err != nil {
		return nil, err
	}
	if face.HasProperty("vertex_indices") {
		return face.IntListProperty("vertex_indices")
	}
	return face.IntListProperty("vertex_index")
}

func describe(prop PLYProperty) string {
	if prop.IsList {
		return "list " + prop.CountType.String() + " " + prop.Type.String()
	}
	return prop.Type.String()
}
