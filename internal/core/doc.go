// Package core provides the business logic for contact cleaning.
//
// This package contains the data model and the expansion/deduplication
// engine, independent of any file format or CLI. It can be driven by the
// csvio adapter, by tests with in-memory sources, or by other frontends.
//
// # Data Model
//
// A [Header] is read once from the input and reused for the output. Each
// [Record] carries its values aligned with that header. A [Source] yields
// records until io.EOF and a [Sink] receives the cleaned records:
//
//	engine := core.NewEngine(logger)
//	stats, err := engine.Run(ctx, reader, writer)
//
// # Expansion and Deduplication
//
// The [Engine] splits the Email column on commas, trims every candidate and
// emits one record per address not seen earlier in the run. Rows whose raw
// Email value is empty produce nothing. All other fields are copied and
// trimmed. The seen-address set belongs to the engine, so a fresh engine
// starts a fresh run.
//
// # Error Handling
//
// Sentinel errors such as [ErrMissingColumn] and [ErrOutputConflict] are
// matched with errors.Is. [MapError] converts any error into a coded
// [UserMessage]:
//
//   - FILE001-FILE006: File errors (extension, format, encoding, conflicts)
//   - VAL004: Missing Email column
//   - RUN001: Run errors (cancelled)
//   - ERR000: Anything else
package core
