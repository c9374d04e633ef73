// Package html provides a Normaliser for HTML documents. It drops scripts,
// styles and markup and decodes entities, leaving one block of text per line.
package html
