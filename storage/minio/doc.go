// Package minio provides a storage backend for MinIO and other
// S3-compatible object stores reached through minio-go.
//
// It behaves like the s3 backend: reads are downloaded once and cached,
// writes are spooled locally and uploaded on Close.
package minio
