// Package scan extracts "name = value" assignment lines from a byte stream.
//
// # Pipeline
//
// Data flows one way:
//
//	bytes -> Scanner (backed by a Buffer) -> lines -> Extractor -> Map
//
// A [Buffer] is an exclusively owned byte allocation that changes size only
// through [Buffer.GrowBy] and [Buffer.ShrinkBy]. The [Scanner] reads
// '\n'-terminated lines into a Buffer, growing it by a fixed increment
// whenever a single line does not fit. The [Extractor] matches each line
// against
//
//	<identifier> <ws>* = <ws>* <value>
//
// and the resulting [Binding] values are collected in a [Map], where a later
// line wins over an earlier one with the same name.
//
// # Identifiers
//
// An identifier starts with an ASCII letter or '_'. [SyntaxPlain] continues
// with letters, digits and '_'; [SyntaxExtended] (the default) also accepts
// '(' and ')' so names such as "f(x)" are recognized.
//
// # Policies
//
// [AnchoredLineMatch] (the default) requires the assignment to span a whole
// line. [ChunkScanMatch] reads fixed-size chunks and accepts any embedded
// assignment, which finds more on malformed input but can split an
// assignment across two chunks.
//
// # Line Endings
//
// A single '\r' before each '\n' is trimmed unless [WithKeepCR] is set, so
// CRLF input yields the same values as LF input.
//
// # Example
//
//	vars, err := scan.ReadFile(ctx, "settings.txt",
//		scan.WithCapacity(80),
//		scan.WithIncrement(40),
//	)
//	if err != nil {
//		// vars still holds everything found before the error
//	}
//	fmt.Println("Number of variables:", vars.Len())
package scan
