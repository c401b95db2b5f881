// Package pkg provides the core libraries for Inkblot image generation.
//
// # Overview
//
// Inkblot draws symmetric, Rorschach-style images: random curvy shapes on the
// left half of a canvas, mirrored onto the right half and blurred. The pkg
// directory is organized as follows:
//
//  1. [inkblot] - Shape generator and composer (parameters, mirror, blur)
//  2. [export] - PNG export, batch ZIP archives and the CSV parameter log
//  3. [config] - Parameter ranges, presets and the TOML config file
//  4. [errors] - Coded errors shared by the CLI and the preview server
//  5. [observability] - Compose and export hooks
//
// # Architecture
//
// The data flow through Inkblot:
//
//	config.Config
//	     ↓
//	[inkblot] Composer.Generate (padding, shapes, mirror, blur)
//	     ↓
//	[export] SaveImage / Batch (PNG, ZIP, CSV)
//
// # Quick Start
//
//	comp, _ := inkblot.NewComposer(config.Default())
//	canvas := comp.NewCanvas()
//	params := comp.Generate(ctx, canvas)
//	_ = export.SaveImage("inkblot_image.png", canvas.Image())
//	fmt.Println(params.Shapes, params.Padding, params.Blur)
package pkg
