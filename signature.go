package libtrace

import (
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// GenerateSignature decodes code linearly as x86 (isX64 selects 32- or
// 64-bit mode) and returns a space-separated hex pattern, one token per
// byte, where bytes that belong to a PC-relative immediate or displacement
// are rendered as "??" instead of their literal value.
//
// Decoding stops at the first byte sequence the decoder cannot parse; the
// pattern returned covers only the successfully decoded prefix. An empty
// code slice yields an empty pattern.
func GenerateSignature(code []byte, isX64 bool) string {
	mode := 32
	if isX64 {
		mode = 64
	}

	var tokens []string
	offset := 0
	for offset < len(code) {
		inst, err := x86asm.Decode(code[offset:], mode)
		// x86asm reports truncated or unrecognized input either as an error
		// or as a one-byte placeholder with no opcode; both end the pattern.
		if err != nil || inst.Len == 0 || inst.Op == 0 {
			break
		}

		relStart, relEnd := -1, -1
		if inst.PCRel > 0 {
			relStart = inst.PCRelOff
			relEnd = inst.PCRelOff + inst.PCRel
		}

		for i := 0; i < inst.Len; i++ {
			if i >= relStart && i < relEnd {
				tokens = append(tokens, "??")
				continue
			}
			tokens = append(tokens, hexByte(code[offset+i]))
		}

		offset += inst.Len
	}

	return strings.Join(tokens, " ")
}

const hexDigits = "0123456789ABCDEF"

func hexByte(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0xF]})
}
