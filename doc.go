// Package libtrace walks a Microsoft-compatible static library archive,
// validates each member as an x86 or x64 COFF object, and generates a
// relocation-masked byte signature for every function symbol it finds.
//
// [WalkArchive] parses the archive container and yields the objects worth
// analyzing; [AnalyzeObject] resolves one object's symbol and section
// tables into function byte spans and signs each with [GenerateSignature].
// [Run] wires the whole pipeline together, fanning object analysis out
// across a [Scheduler] and collecting results into an [Aggregator] that
// persists the final name→pattern document.
package libtrace
