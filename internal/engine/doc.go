// Package engine executes mapping specifications.
//
// A Context is built once per specification with New. It resolves one
// module per data source, owns the action registry and the conversion
// service, and never changes afterwards, so sessions may be created and
// processed from many goroutines. Each Session is processed at most once
// and by one goroutine.
//
// Process runs in five steps:
//
//  1. validate the specification and copy the findings into the audits,
//     stopping on any ERROR
//  2. initialize the modules and run their pre-validation hooks, then the
//     pre-execution hooks of source modules and target modules
//  3. expand collection entries into concrete entries
//  4. process every concrete entry under its own Head
//  5. run the post-validation and post-execution hooks
//
// Data problems never surface as errors from Process: they are recorded
// as audits scoped to the entry that produced them, and processing moves
// on to the next entry.
package engine
