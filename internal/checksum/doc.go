// Package checksum verifies the integrity of downloaded dataset archives.
//
// Published dataset archives are identified by the hex encoded MD5 digest of
// the archive file, so that is the digest computed here. MD5 is used only to
// detect corrupt or truncated downloads, not for authentication.
//
// For one-shot checksums:
//
//	sum := checksum.MD5(data)
//
// For files and streams:
//
//	sum, err := checksum.File("ml-1m.zip")
//	ok := checksum.Equal(sum, "c4d9eecfca2ab87c1945afe126590906")
package checksum
