package libtrace

import "encoding/binary"

// The helpers below assemble synthetic, minimal COFF objects and archives
// byte-by-byte, matching the on-disk archive-member and object-header field
// layout exactly. No real Microsoft toolchain output is required to
// exercise the walker or analyzer.

func putU16(buf []byte, off int, v uint16) { binary.LittleEndian.PutUint16(buf[off:], v) }
func putU32(buf []byte, off int, v uint32) { binary.LittleEndian.PutUint32(buf[off:], v) }

type testSymbol struct {
	name    string
	value   uint32
	section int16
	isFunc  bool
	class   uint8
}

// buildObject assembles a single-section COFF object: one code section
// holding code, and one symbol per entry in syms, all referencing that
// section unless the symbol's section field says otherwise.
func buildObject(machine uint16, code []byte, syms []testSymbol) []byte {
	const (
		fileHdrLen = fileHeaderSize
		secHdrLen  = sectionHeaderLen
		symLen     = symbolRecordLen
	)

	symTableOff := fileHdrLen + secHdrLen + len(code)
	strTableOff := symTableOff + symLen*len(syms)

	buf := make([]byte, strTableOff+4) // +4 for an empty string table length prefix

	// file header
	putU16(buf, 0, machine)
	putU16(buf, 2, 1) // NumberOfSections
	putU32(buf, 8, uint32(symTableOff))
	putU32(buf, 12, uint32(len(syms)))
	putU16(buf, 16, 0) // SizeOfOptionalHeader

	// section header (at offset 20, since SizeOfOptionalHeader == 0)
	secOff := fileHdrLen
	putU32(buf, secOff+16, uint32(len(code))) // SizeOfRawData
	putU32(buf, secOff+20, uint32(fileHdrLen+secHdrLen)) // PointerToRawData
	putU32(buf, secOff+36, sectionCntCode)               // Characteristics

	// code
	copy(buf[fileHdrLen+secHdrLen:], code)

	// symbols
	for i, s := range syms {
		off := symTableOff + i*symLen
		nameBytes := []byte(s.name)
		if len(nameBytes) > 8 {
			nameBytes = nameBytes[:8]
		}
		copy(buf[off:off+8], nameBytes)

		putU32(buf, off+8, s.value)
		putU16(buf, off+12, uint16(s.section))

		var typ uint16
		if s.isFunc {
			typ = 2 << 4
		}
		putU16(buf, off+14, typ)

		buf[off+16] = s.class
		buf[off+17] = 0 // NumberOfAuxSymbols
	}

	// empty string table: just its own 4-byte length prefix
	putU32(buf, strTableOff, 4)

	return buf
}

// buildArchiveMember wraps payload in a 60-byte Microsoft-compatible
// archive member header, padding to an even length when payload is odd.
func buildArchiveMember(name string, payload []byte) []byte {
	header := make([]byte, memberHeaderLen)
	for i := range header {
		header[i] = ' '
	}
	copy(header[0:16], name)
	copy(header[48:58], []byte(itoa(len(payload))))
	header[58] = '`'
	header[59] = '\n'

	out := append(header, payload...)
	if len(payload)%2 == 1 {
		out = append(out, '\n')
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// buildArchive concatenates the magic and every member's bytes.
func buildArchive(members ...[]byte) []byte {
	buf := []byte(archiveMagic)
	for _, m := range members {
		buf = append(buf, m...)
	}
	return buf
}
