package libtrace

import (
	"debug/pe"
	"sort"

	"github.com/maxgio92/libtrace/internal/region"
)

// Machine types this system processes. debug/pe exports these two Machine
// constants for COFF object headers; nothing else in that package fits a
// bare object file (pe.NewFile expects a full PE/COFF container with
// optional header and data directories, which a .obj member does not
// reliably carry), so the rest of the object-header, section-header and
// symbol-table parsing below is hand-rolled against the on-disk COFF field
// layout rather than delegated to debug/pe.
const (
	machineI386  = uint16(pe.IMAGE_FILE_MACHINE_I386)
	machineAMD64 = uint16(pe.IMAGE_FILE_MACHINE_AMD64)
)

// COFF storage classes (IMAGE_SYM_CLASS_*) and section characteristics
// (IMAGE_SCN_*) are not exported by debug/pe, so they're defined locally,
// matching the convention other Microsoft-object tooling in Go uses.
const (
	classExternal = 2
	classStatic   = 3

	sectionCntCode = 0x00000020
)

const (
	fileHeaderSize   = 20
	sectionHeaderLen = 40
	symbolRecordLen  = 18
)

// fileHeader is the 20-byte COFF object file header.
type fileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
}

func parseFileHeader(obj []byte) (fileHeader, bool) {
	var fh fileHeader
	var ok bool
	if fh.Machine, ok = region.U16(obj, 0); !ok {
		return fh, false
	}
	if fh.NumberOfSections, ok = region.U16(obj, 2); !ok {
		return fh, false
	}
	if fh.PointerToSymbolTable, ok = region.U32(obj, 8); !ok {
		return fh, false
	}
	if fh.NumberOfSymbols, ok = region.U32(obj, 12); !ok {
		return fh, false
	}
	if fh.SizeOfOptionalHeader, ok = region.U16(obj, 16); !ok {
		return fh, false
	}
	return fh, true
}

// sectionHeader is the subset of the 40-byte COFF section header this
// system needs.
type sectionHeader struct {
	SizeOfRawData    uint32
	PointerToRawData uint32
	Characteristics  uint32
}

func parseSectionHeader(obj []byte, off int) (sectionHeader, bool) {
	var sh sectionHeader
	var ok bool
	if sh.SizeOfRawData, ok = region.U32(obj, off+16); !ok {
		return sh, false
	}
	if sh.PointerToRawData, ok = region.U32(obj, off+20); !ok {
		return sh, false
	}
	if sh.Characteristics, ok = region.U32(obj, off+36); !ok {
		return sh, false
	}
	return sh, true
}

func (s sectionHeader) isCode() bool {
	return s.Characteristics&sectionCntCode != 0
}

// coffSymbol is the subset of an 18-byte COFF symbol record this system
// needs, plus its resolved name.
type coffSymbol struct {
	name            string
	nameOutOfRange  bool
	value           uint32
	sectionNumber   int16
	isFunction      bool
	storageClass    uint8
	numAux          uint8
}

// isFunctionType implements the ISFCN predicate: the high nibble of the
// symbol's 16-bit type field equals IMAGE_SYM_DTYPE_FUNCTION (2).
func isFunctionType(typ uint16) bool {
	return (typ>>4)&0xF == 2
}

func parseSymbol(obj []byte, off int, strTableOff int) (coffSymbol, bool) {
	var sym coffSymbol

	short, ok := region.Slice(obj, off, 8)
	if !ok {
		return sym, false
	}

	shortFirst4, ok := region.U32(obj, off)
	if !ok {
		return sym, false
	}

	if shortFirst4 == 0 {
		longOff, ok := region.U32(obj, off+4)
		if !ok {
			return sym, false
		}
		name, ok := region.CString(obj, strTableOff+int(longOff))
		if !ok {
			sym.name = "[ERROR]"
			sym.nameOutOfRange = true
		} else {
			sym.name = name
		}
	} else {
		sym.name = region.TrimShortName(short)
	}

	value, ok := region.U32(obj, off+8)
	if !ok {
		return sym, false
	}
	sym.value = value

	secNum, ok := region.I16(obj, off+12)
	if !ok {
		return sym, false
	}
	sym.sectionNumber = secNum

	typ, ok := region.U16(obj, off+14)
	if !ok {
		return sym, false
	}
	sym.isFunction = isFunctionType(typ)

	class, ok := region.Slice(obj, off+16, 1)
	if !ok {
		return sym, false
	}
	sym.storageClass = class[0]

	aux, ok := region.Slice(obj, off+17, 1)
	if !ok {
		return sym, false
	}
	sym.numAux = aux[0]

	return sym, true
}

// functionRecord is a resolved, in-memory function ready for signature
// generation.
type functionRecord struct {
	name    string
	codePtr int
	length  int
}

// AnalyzeObject walks one object's symbol table, isolates every code
// function's byte span, generates its signature and returns the resulting
// name→pattern map. processed reports how many functions were signed, for
// the caller's shared counter.
func AnalyzeObject(obj []byte, machine uint16, log Logger) (map[string]string, int) {
	result := make(map[string]string)

	fh, ok := parseFileHeader(obj)
	if !ok {
		log.Log("object analyzer: object too small for a file header, skipping")
		return result, 0
	}
	if fh.PointerToSymbolTable == 0 || fh.NumberOfSymbols == 0 {
		return result, 0
	}

	isX64 := machine == machineAMD64

	symTableOff := int(fh.PointerToSymbolTable)
	strTableOff := symTableOff + symbolRecordLen*int(fh.NumberOfSymbols)
	sectionHeadersOff := fileHeaderSize + int(fh.SizeOfOptionalHeader)

	sections := make(map[int16]sectionHeader, fh.NumberOfSections)
	for i := 0; i < int(fh.NumberOfSections); i++ {
		sh, ok := parseSectionHeader(obj, sectionHeadersOff+i*sectionHeaderLen)
		if !ok {
			break
		}
		sections[int16(i+1)] = sh
	}

	buckets := make(map[int16][]coffSymbol)

	for i := 0; i < int(fh.NumberOfSymbols); i++ {
		off := symTableOff + i*symbolRecordLen
		sym, ok := parseSymbol(obj, off, strTableOff)
		if !ok {
			log.Log("object analyzer: truncated symbol record at index %d, stopping", i)
			break
		}

		i += int(sym.numAux)

		if sym.storageClass != classExternal && sym.storageClass != classStatic {
			continue
		}
		if sym.sectionNumber <= 0 || int(sym.sectionNumber) > int(fh.NumberOfSections) {
			continue
		}
		if !sym.isFunction {
			continue
		}
		sh, ok := sections[sym.sectionNumber]
		if !ok || !sh.isCode() {
			continue
		}
		if sym.name == "" {
			continue
		}

		buckets[sym.sectionNumber] = append(buckets[sym.sectionNumber], sym)
	}

	processed := 0
	for secNum, syms := range buckets {
		sh := sections[secNum]
		sort.SliceStable(syms, func(a, b int) bool { return syms[a].value < syms[b].value })

		for k, sym := range syms {
			var length uint32
			if k+1 < len(syms) {
				length = syms[k+1].value - sym.value
			} else {
				length = sh.SizeOfRawData - sym.value
			}

			codePtr := int(sh.PointerToRawData) + int(sym.value)
			if codePtr < 0 || codePtr+int(length) > len(obj) || length > sh.SizeOfRawData {
				continue
			}

			code := obj[codePtr : codePtr+int(length)]
			result[sym.name] = GenerateSignature(code, isX64)
			processed++
		}
	}

	return result, processed
}
