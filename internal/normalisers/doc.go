// Package normalisers extracts plain text from document files so they can be
// stored as documents. Each subpackage handles one format; the Registry picks
// the normaliser for a file by MIME type.
package normalisers
