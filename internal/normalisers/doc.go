// Package normalisers provides implementations of the Normaliser interface
// for various document formats. Each normaliser knows how to extract text
// content from a specific MIME type.
//
// Normalisers are collected in a Registry, which also serves as the
// pipeline's Extractor: it reads a file, detects its MIME type and hands
// the bytes to the highest-priority normaliser for that type.
package normalisers
