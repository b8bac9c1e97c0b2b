package extractor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
)

// Word 97-2003 binary layout offsets inside the WordDocument stream (FIB).
const (
	fibIdent        = 0xA5EC
	fibFlagsOffset  = 0x000A
	fibCcpText      = 0x004C
	fibFcClx        = 0x01A2
	fibLcbClx       = 0x01A6
	fibMinLength    = 0x01AA
	flagEncrypted   = 0x0100
	flagWhichTblStm = 0x0200
	fcCompressedBit = 0x40000000
)

var zipMagic = []byte("PK\x03\x04")

// ExtractDOC reads the main text of a legacy Word binary document through
// its piece table. OOXML files mislabeled as .doc are handed to ExtractDOCX.
func ExtractDOC(data []byte) (string, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return ExtractDOCX(data)
	}

	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read compound file: %w", err)
	}

	streams := map[string][]byte{}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "WordDocument", "0Table", "1Table":
			buf, readErr := io.ReadAll(entry)
			if readErr != nil {
				return "", fmt.Errorf("failed to read %s stream: %w", entry.Name, readErr)
			}
			streams[entry.Name] = buf
		}
	}

	wordDoc := streams["WordDocument"]
	if len(wordDoc) < fibMinLength {
		return "", errors.New("WordDocument stream missing or truncated")
	}
	if binary.LittleEndian.Uint16(wordDoc[0:2]) != fibIdent {
		return "", errors.New("not a Word binary document")
	}

	flags := binary.LittleEndian.Uint16(wordDoc[fibFlagsOffset:])
	if flags&flagEncrypted != 0 {
		return "", errors.New("document is encrypted")
	}
	tableName := "0Table"
	if flags&flagWhichTblStm != 0 {
		tableName = "1Table"
	}
	table, ok := streams[tableName]
	if !ok {
		return "", fmt.Errorf("%s stream missing", tableName)
	}

	fcClx := binary.LittleEndian.Uint32(wordDoc[fibFcClx:])
	lcbClx := binary.LittleEndian.Uint32(wordDoc[fibLcbClx:])
	if lcbClx == 0 || uint64(fcClx)+uint64(lcbClx) > uint64(len(table)) {
		return "", errors.New("piece table out of range")
	}

	text, err := pieceTableText(table[fcClx:fcClx+lcbClx], wordDoc)
	if err != nil {
		return "", err
	}

	// Footnotes, headers and the like follow the main text.
	if ccp := int(binary.LittleEndian.Uint32(wordDoc[fibCcpText:])); ccp > 0 {
		if runes := []rune(text); ccp < len(runes) {
			text = string(runes[:ccp])
		}
	}

	return cleanWordText(text), nil
}

// pieceTableText walks the Clx: optional Prc blocks followed by one Pcdt.
func pieceTableText(clx, wordDoc []byte) (string, error) {
	pos := 0
	for pos < len(clx) && clx[pos] == 0x01 {
		if pos+3 > len(clx) {
			return "", errors.New("truncated Prc in piece table")
		}
		size := int(int16(binary.LittleEndian.Uint16(clx[pos+1:])))
		if size < 0 || pos+3+size > len(clx) {
			return "", errors.New("malformed Prc in piece table")
		}
		pos += 3 + size
	}
	if pos+5 > len(clx) || clx[pos] != 0x02 {
		return "", errors.New("piece descriptor table not found")
	}

	lcb := int(binary.LittleEndian.Uint32(clx[pos+1:]))
	plc := clx[pos+5:]
	if lcb > len(plc) || (lcb-4)%12 != 0 {
		return "", errors.New("malformed piece descriptor table")
	}
	plc = plc[:lcb]

	n := (lcb - 4) / 12
	cps := make([]uint32, n+1)
	for i := range cps {
		cps[i] = binary.LittleEndian.Uint32(plc[i*4:])
	}
	pcds := plc[(n+1)*4:]

	var out strings.Builder
	for i := 0; i < n; i++ {
		if cps[i+1] < cps[i] {
			return "", errors.New("piece table is not ordered")
		}
		count := int(cps[i+1] - cps[i])
		fc := binary.LittleEndian.Uint32(pcds[i*8+2:])

		if fc&fcCompressedBit != 0 {
			start := int((fc &^ fcCompressedBit) / 2)
			if start+count > len(wordDoc) {
				return "", errors.New("piece points past WordDocument stream")
			}
			decoded, err := charmap.Windows1252.NewDecoder().Bytes(wordDoc[start : start+count])
			if err != nil {
				return "", err
			}
			out.Write(decoded)
			continue
		}

		start := int(fc)
		if start+count*2 > len(wordDoc) {
			return "", errors.New("piece points past WordDocument stream")
		}
		units := make([]uint16, count)
		for j := range units {
			units[j] = binary.LittleEndian.Uint16(wordDoc[start+j*2:])
		}
		out.WriteString(string(utf16.Decode(units)))
	}

	return out.String(), nil
}

// cleanWordText maps Word control characters to plain text and drops field codes.
func cleanWordText(text string) string {
	var out strings.Builder
	// One entry per open field; true while still inside its code part.
	var fields []bool

	for _, r := range text {
		switch r {
		case 0x13: // field begin
			fields = append(fields, true)
			continue
		case 0x14: // field separator, result follows
			if len(fields) > 0 {
				fields[len(fields)-1] = false
			}
			continue
		case 0x15: // field end
			if len(fields) > 0 {
				fields = fields[:len(fields)-1]
			}
			continue
		}
		if inFieldCode(fields) {
			continue
		}

		switch r {
		case '\r', 0x0B, 0x0C:
			out.WriteByte('\n')
		case 0x07:
			out.WriteByte('\t')
		case 0x01, 0x08, 0x00:
		default:
			out.WriteRune(r)
		}
	}

	return cleanText(out.String())
}

func inFieldCode(fields []bool) bool {
	for _, code := range fields {
		if code {
			return true
		}
	}
	return false
}
