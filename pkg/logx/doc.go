// Package logx configures clocktalk's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller) and on stderr,
//     since stdout carries the generated documents
//   - File output JSON-structured
package logx
