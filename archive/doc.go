// Package archive resolves, verifies and opens dataset archives.
//
// A Fetcher turns an archive URL into a verified local file:
//
//	f := archive.NewHTTPFetcher(func(o *archive.HTTPOptions) {
//	    o.CacheDir = "/var/cache/datasets"
//	})
//	path, err := f.Fetch(ctx, url, "movielens", md5sum)
//
// Downloads land in <CacheDir>/<name>/<basename of url>. A cached file whose
// MD5 digest already matches is reused without network access. A download
// whose digest does not match is deleted and reported as an *IntegrityError;
// there is no retry.
//
// StoreFetcher does the same from a blobstore.Store, for example an S3 or
// MinIO bucket that mirrors the public archives.
//
// Open and OpenBlob read the zip container. Entries are streamed, never
// extracted to disk; zstd compressed entries are supported in addition to
// deflate and store.
package archive
