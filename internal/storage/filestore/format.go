package filestore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/blang/semver"

	"treeDB/internal/sql"
	"treeDB/internal/storage"
)

const (
	fileMagic = "TREEDB" // 6 bytes magic

	// maxPrealloc caps slice capacities taken from counts in the file;
	// longer lists grow by append as their data is actually read.
	maxPrealloc = 1024
)

// formatVersion is written into every snapshot. Files with a different
// major version are rejected.
var formatVersion = semver.MustParse("1.0.0")

var (
	ErrBadMagic           = errors.New("filestore: invalid file magic, not a treeDB snapshot")
	ErrIncompatibleFormat = errors.New("filestore: incompatible snapshot format version")
)

// writeSnapshot encodes every table:
//
//	magic:      6 bytes "TREEDB"
//	versionLen: uint8, version: versionLen bytes (semver)
//	numTables:  uint32
//	per table:
//	  nameLen: uint16, name: nameLen bytes
//	  header (see writeHeader)
//	  numRows: uint32
//	  rows (see writeRow)
func writeSnapshot(w io.Writer, tables []storage.TableSnapshot) error {
	if _, err := w.Write([]byte(fileMagic)); err != nil {
		return err
	}
	if err := writeString8(w, formatVersion.String()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(tables))); err != nil {
		return err
	}

	for _, t := range tables {
		if err := writeString16(w, t.Name); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		if err := writeHeader(w, t.Columns); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(t.Rows))); err != nil {
			return err
		}
		for _, r := range t.Rows {
			if err := writeRow(w, r); err != nil {
				return fmt.Errorf("table %s: %w", t.Name, err)
			}
		}
	}
	return nil
}

// readSnapshot decodes what writeSnapshot wrote.
func readSnapshot(r io.Reader) ([]storage.TableSnapshot, error) {
	magicBuf := make([]byte, len(fileMagic))
	if _, err := io.ReadFull(r, magicBuf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrBadMagic
		}
		return nil, err
	}
	if string(magicBuf) != fileMagic {
		return nil, ErrBadMagic
	}

	vs, err := readString8(r)
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	v, err := semver.Make(vs)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrIncompatibleFormat, vs, err)
	}
	if v.Major != formatVersion.Major {
		return nil, fmt.Errorf("%w: file is %s, supported is %d.x", ErrIncompatibleFormat, v, formatVersion.Major)
	}

	var numTables uint32
	if err := binary.Read(r, binary.LittleEndian, &numTables); err != nil {
		return nil, err
	}

	tables := make([]storage.TableSnapshot, 0, min(numTables, maxPrealloc))
	for i := uint32(0); i < numTables; i++ {
		name, err := readString16(r)
		if err != nil {
			return nil, fmt.Errorf("read table name: %w", err)
		}
		cols, err := readHeader(r)
		if err != nil {
			return nil, fmt.Errorf("table %s: read header: %w", name, err)
		}
		var numRows uint32
		if err := binary.Read(r, binary.LittleEndian, &numRows); err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		rows := make([]sql.Row, 0, min(numRows, maxPrealloc))
		for j := uint32(0); j < numRows; j++ {
			row, err := readRow(r, len(cols))
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}
				return nil, fmt.Errorf("table %s: row %d: %w", name, j, err)
			}
			rows = append(rows, row)
		}
		tables = append(tables, storage.TableSnapshot{Name: name, Columns: cols, Rows: rows})
	}
	return tables, nil
}

// writeHeader writes a table schema:
//
//	numCols: uint16
//	per column:
//	  nameLen: uint16, name: nameLen bytes (UTF-8)
//	  type:    uint8 (matches sql.DataType)
//	  indexed: uint8 (0 or 1)
func writeHeader(w io.Writer, cols []sql.Column) error {
	if len(cols) > 0xFFFF {
		return fmt.Errorf("filestore: too many columns: %d", len(cols))
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(cols))); err != nil {
		return err
	}

	for _, c := range cols {
		if err := writeString16(w, c.Name); err != nil {
			return err
		}
		var indexed uint8
		if c.Indexed {
			indexed = 1
		}
		if err := binary.Write(w, binary.LittleEndian, [2]uint8{uint8(c.Type), indexed}); err != nil {
			return err
		}
	}

	return nil
}

// readHeader reads a schema written by writeHeader.
func readHeader(r io.Reader) ([]sql.Column, error) {
	var numCols uint16
	if err := binary.Read(r, binary.LittleEndian, &numCols); err != nil {
		return nil, err
	}

	cols := make([]sql.Column, numCols)
	for i := 0; i < int(numCols); i++ {
		name, err := readString16(r)
		if err != nil {
			return nil, err
		}

		var meta [2]uint8
		if err := binary.Read(r, binary.LittleEndian, &meta); err != nil {
			return nil, err
		}
		dt := sql.DataType(meta[0])
		if dt != sql.TypeUnknown && dt != sql.TypeInt && dt != sql.TypeString {
			return nil, fmt.Errorf("filestore: column %s: unsupported type %d", name, meta[0])
		}

		cols[i] = sql.Column{
			Name:    name,
			Type:    dt,
			Indexed: meta[1] != 0,
		}
	}

	return cols, nil
}

// writeRow encodes a row as a sequence of typed values:
//
//	type: uint8 (sql.DataType)
//	payload:
//	  INT:    int64 (little endian)
//	  STRING: uint32 length + bytes
func writeRow(w io.Writer, row sql.Row) error {
	for _, v := range row {
		if err := binary.Write(w, binary.LittleEndian, uint8(v.Type)); err != nil {
			return err
		}

		switch v.Type {
		case sql.TypeInt:
			if err := binary.Write(w, binary.LittleEndian, v.I64); err != nil {
				return err
			}
		case sql.TypeString:
			b := []byte(v.S)
			if uint64(len(b)) > 0xFFFFFFFF {
				return fmt.Errorf("string too long")
			}
			if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
				return err
			}
			if _, err := w.Write(b); err != nil {
				return err
			}
		default:
			return fmt.Errorf("writeRow: unsupported value type %v", v.Type)
		}
	}

	return nil
}

// readRow decodes a row with the given number of columns.
// Returns io.EOF when there is no more data.
func readRow(r io.Reader, numCols int) (sql.Row, error) {
	row := make(sql.Row, numCols)

	for i := 0; i < numCols; i++ {
		var t uint8
		if err := binary.Read(r, binary.LittleEndian, &t); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				// EOF at the first column ends the data; mid-row it is
				// a truncated file.
				if i == 0 {
					return nil, io.EOF
				}
				return nil, fmt.Errorf("readRow: truncated row")
			}
			return nil, err
		}

		switch vt := sql.DataType(t); vt {
		case sql.TypeInt:
			var v int64
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			row[i] = sql.IntValue(v)

		case sql.TypeString:
			var l uint32
			if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
				return nil, err
			}
			buf, err := io.ReadAll(io.LimitReader(r, int64(l)))
			if err != nil {
				return nil, err
			}
			if uint32(len(buf)) != l {
				return nil, io.ErrUnexpectedEOF
			}
			row[i] = sql.StringValue(string(buf))

		default:
			return nil, fmt.Errorf("readRow: unsupported value type %v", vt)
		}
	}

	return row, nil
}

func writeString8(w io.Writer, s string) error {
	if len(s) > 0xFF {
		return fmt.Errorf("string too long: %d bytes", len(s))
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString8(r io.Reader) (string, error) {
	var n uint8
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeString16(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("name too long: %d bytes", len(s))
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString16(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
