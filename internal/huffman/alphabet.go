package huffman

import "github.com/elliotnunn/deflate/internal/deflatesym"

// LitLenEntries builds the SymbolEntry table for the 286-symbol litlen
// alphabet: 256 literal bytes, 1 end-of-block marker, 29 length codes.
func LitLenEntries() []SymbolEntry {
	e := make([]SymbolEntry, deflatesym.NumLitLenSyms)
	for i := 0; i < 256; i++ {
		e[i] = SymbolEntry{IsLiteral: true, Base: uint32(i)}
	}
	e[deflatesym.EndOfBlockSym] = SymbolEntry{IsEOB: true}
	for i, base := range deflatesym.LengthBase {
		e[257+i] = SymbolEntry{ExtraBits: deflatesym.LengthExtraBits[i], Base: uint32(base)}
	}
	return e
}

// OffsetEntries builds the SymbolEntry table for the 30-symbol offset
// alphabet.
func OffsetEntries() []SymbolEntry {
	e := make([]SymbolEntry, deflatesym.NumOffsetSyms)
	for i, base := range deflatesym.OffsetBase {
		e[i] = SymbolEntry{ExtraBits: deflatesym.OffsetExtraBits[i], Base: base}
	}
	return e
}

// PrecodeEntries builds the SymbolEntry table for the 19-symbol precode
// alphabet: each symbol decodes directly to its own plain value 0..18.
func PrecodeEntries() []SymbolEntry {
	e := make([]SymbolEntry, deflatesym.NumPrecodeSyms)
	for i := range e {
		e[i] = SymbolEntry{IsLiteral: true, Base: uint32(i)}
	}
	return e
}

const (
	// LitLenTableBits and OffsetTableBits are the primary-table sizes
	// spec §4.2 recommends; PrecodeTableBits equals the precode codeword
	// length cap so the precode table never needs a subtable.
	LitLenTableBits  = 11
	OffsetTableBits  = 8
	PrecodeTableBits = deflatesym.PrecodeMaxLen
)
