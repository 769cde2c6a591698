// Package textutil canonicalizes chapter titles and provides filename helpers.
//
// The Normalizer composes input to NFC, applies an ordered table of
// corrections for known mis-encoded book names and then title-cases any
// remaining all-caps words. The correction table is fixed at construction.
package textutil
