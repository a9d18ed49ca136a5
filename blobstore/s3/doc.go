// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "datasets-mirror",
//	    s3.WithPrefix("movielens/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	fetcher := archive.NewStoreFetcher(store, cacheDir)
//	ds := movielens.New(movielens.WithFetcher(fetcher))
//
// # Features
//
//   - Range reads, so an archive can be opened in place with archive.OpenBlob
//   - Parallel multipart downloads via the s3 transfer manager
//   - Configurable prefix for shared buckets
package s3
