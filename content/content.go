// Package content embeds the note tree shipped inside the binary.
package content

import "embed"

// Root is the directory inside FS that holds the notes.
const Root = "notes"

// FS holds every file under notes/, captured at build time. The all: prefix
// keeps files whose names start with "_" or ".", as a directory source would.
//
//go:embed all:notes
var FS embed.FS
