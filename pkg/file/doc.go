// Package file stores generated artifacts, such as QR sticker images, on the
// local disk or in an S3-compatible bucket and returns the URL they are served
// from.
//
//	store, err := file.NewS3Storage(ctx, file.S3Config{Bucket: "stickers", Region: "eu-central-1"})
//	if err != nil {
//		return err
//	}
//	url, err := store.Put(ctx, "hugmug/42.png", png, "image/png")
package file
