// Package s3 provides a storage backend over Amazon S3.
//
// Read resources are downloaded whole and kept in memory for the backend's
// lifetime. Created resources are spooled to a local temporary file and
// uploaded with the S3 upload manager when their handle is closed, so the
// size prefix can be patched before the object becomes visible.
//
// # Usage
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	backend := s3.NewBackend(awss3.NewFromConfig(cfg), "my-bucket", "archives/2024")
//	st := storage.New(backend)
package s3
