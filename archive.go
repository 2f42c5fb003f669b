package libtrace

import (
	"strconv"
	"strings"

	"github.com/maxgio92/libtrace/internal/region"
)

// archiveMagic is the Microsoft-compatible archive container magic.
const archiveMagic = "!<arch>\n"

const (
	memberHeaderLen = 60
	memberNameLen   = 16
	memberSizeOff   = 48
	memberSizeLen   = 10
)

// Reserved member names (full 16-byte field, including trailing padding)
// that carry archive metadata rather than an object.
const (
	linkerMemberName    = "/               "
	longNamesMemberName = "//              "
)

// Member is one walked archive entry ready for analysis: a borrowed slice
// into the archive buffer plus its declared machine type.
type Member struct {
	Data    []byte
	Machine uint16
}

// WalkArchive parses buf as a Microsoft-compatible archive and returns every
// member that is a supported, non-metadata object. Traversal halts early
// (without error) on a malformed or truncated member header; every member
// discovered before the halt is still returned.
func WalkArchive(buf []byte, log Logger) ([]Member, error) {
	if len(buf) < len(archiveMagic) {
		return nil, ErrTooSmall
	}
	if string(buf[:len(archiveMagic)]) != archiveMagic {
		return nil, ErrUnrecognizedContainer
	}

	var members []Member
	cursor := len(archiveMagic)

	for cursor+memberHeaderLen <= len(buf) {
		header, ok := region.Slice(buf, cursor, memberHeaderLen)
		if !ok {
			break
		}

		name := string(header[:memberNameLen])
		sizeField := strings.TrimSpace(string(header[memberSizeOff : memberSizeOff+memberSizeLen]))

		size, err := strconv.ParseUint(sizeField, 10, 64)
		if err != nil {
			log.Log("archive walker: malformed member header at offset %d (%v), halting", cursor, err)
			break
		}

		payloadStart := cursor + memberHeaderLen
		payloadEnd := payloadStart + int(size)
		next := payloadEnd + int(size&1)

		if payloadEnd > len(buf) || next > len(buf)+1 {
			log.Log("archive walker: truncated member at offset %d, halting", cursor)
			break
		}

		payload := buf[payloadStart:payloadEnd]

		switch {
		case name == linkerMemberName, name == longNamesMemberName:
			// metadata member, no object to analyze
		case len(payload) < fileHeaderSize:
			// too small to hold a file header
		default:
			fh, ok := parseFileHeader(payload)
			switch {
			case !ok:
			case fh.Machine != machineI386 && fh.Machine != machineAMD64:
			case fh.PointerToSymbolTable == 0 || fh.NumberOfSymbols == 0:
			default:
				members = append(members, Member{Data: payload, Machine: fh.Machine})
			}
		}

		cursor = next
	}

	return members, nil
}
