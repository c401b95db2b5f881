// Package export writes inkblots to disk: single PNGs, batches bundled in a
// ZIP archive, and the CSV log describing every image of a batch.
//
// # Single export
//
//	params := comp.Generate(ctx, canvas)
//	err := export.SaveImage(export.DefaultImageName, canvas.Image())
//
// # Batch export
//
// A [Batch] generates one image per [Batch.Step] into an archive writer, so a
// host event loop can interleave other work between images. [RunBatch] drives
// a batch to completion with a short cooperative pause after every image, and
// [ExportBatch] does the same into files:
//
//	res, err := export.ExportBatch(ctx, comp, canvas, "out", 10, export.BatchOptions{})
//	// res.ArchivePath == "out/inkblot_images_10.zip"
//	// res.LogPath     == "out/inkblot_logs.csv"
//
// Images are named inkblot_image_001.png, inkblot_image_002.png, … and the
// log has one row per image in the same order.
package export
