// Package storage manages the download destination.
//
// The destination is a gocloud blob bucket. The default is a local
// directory opened through fileblob, which produces the on-disk layout
//
//	{saving_dir}/fivek_expert/tiff16_{expert}/{filename}.tif
//
// Any other bucket URL (s3://, gs://, mem://) works the same way, with
// keys in place of paths.
//
// # Usage
//
//	dest, err := storage.OpenDir("/data")
//	defer dest.Close()
//
//	err = dest.Prepare(ctx, []string{"a", "b"}, os.Stderr)
//	n, err := dest.Write(ctx, "fivek_expert/tiff16_a/a0289.tif", body)
package storage
