// Package input reads user input from an interactive console and resolves file references
// embedded in it.
//
// A single answer can be typed on one line, or across several lines terminated by a line
// containing only EOF. Three conveniences sit on top of plain reading:
//
//   - Whole-file directive: an answer consisting solely of "file:<path>" is replaced by the
//     contents of that file.
//   - Embedded references: every "{{file:<path>}}" token (optionally wrapped in single or
//     double quotes) is replaced by the contents of the referenced file. Tokens whose file
//     cannot be found are left in place and reported.
//   - Append offer: when an answer contains no reference the user may append a file after it.
//
// Paths are looked up by PathResolver: the path as given, then configured base directories,
// then a fixed list of conventional data directories, then once more with surrounding quotes
// removed.
//
//	r := input.NewReader(os.Stdin, os.Stdout, input.WithBaseDirs("research"))
//	topic, err := r.ReadInput(input.Options{
//		Prompt:        "What topic would you like to research?",
//		AllowFile:     true,
//		AllowCombined: true,
//	})
package input
