// Package output defines the sinks rendered template text is written to.
//
// TemplateOutput is the minimal contract every sink provides: text writes and
// raw byte writes for content that was encoded ahead of time. ByteArrayOutput
// accumulates UTF-8 bytes in memory with amortized doubling growth,
// WriterOutput streams to an io.Writer and StringOutput builds a string for
// engines running in textual mode.
package output
