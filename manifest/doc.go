// Package manifest encodes and decodes the asset manifest.
//
// A manifest is the newline-joined list of asset paths, relative to the asset
// root, passed through a compression seam and a cyclic byte permutation. It
// stands in for directory traversal on platforms where the asset bundle can
// only be fetched one file at a time.
//
// The compression seam is an identity transform and the permutation is
// obfuscation only. Manifests carry no checksum: corrupt but decodable bytes
// yield a wrong path list rather than an error.
package manifest
