// Package tasklist holds the ordered task collection and its JSON file.
//
// The task file is a JSON array of task objects:
//
//	[
//	  {
//	    "text": "buy milk",
//	    "done": false
//	  },
//	  {
//	    "text": "water the plants",
//	    "done": true
//	  }
//	]
//
// # Loading
//
// A missing file is not an error: Load reports that nothing was found and
// leaves the collection empty. Any other read failure is an *IOError. A file
// that is not valid JSON, or whose shape does not match the embedded JSON
// Schema, is a *ParseError. Failed loads never touch the in-memory collection.
//
// Only a JSON true in "done" marks a task as done; a missing or non-boolean
// value loads as not done. Keys other than "text" and "done" are ignored.
//
// # Saving
//
// When writing task files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Unescaped Unicode and HTML characters
//
// # Statuses
//
// Every Manager operation returns a Status alongside its error. The status is
// a short line meant for a status bar; it is produced on success, on soft
// no-ops (empty selection, missing file) and on failure alike.
package tasklist
