// Package inkblot generates symmetric Rorschach-style images.
//
// # Overview
//
// An inkblot is built in three passes over a [Canvas]:
//
//  1. Random curvy shapes are drawn on a transparent layer the size of the
//     left half of the canvas ([DrawShape]).
//  2. The layer is composited onto the left half and its horizontal flip onto
//     the right half ([Mirror]). Symmetry holds by construction.
//  3. The whole canvas is blurred ([Blur]).
//
// [Composer] drives the passes and draws every parameter from the ranges of a
// [config.Config]:
//
//	cfg := config.Default()
//	comp, err := inkblot.NewComposer(cfg)
//	if err != nil {
//	    return err
//	}
//	canvas := comp.NewCanvas()
//	params := comp.Generate(ctx, canvas)
//	fmt.Println(params.Shapes, params.Padding, params.Blur)
//
// A Composer owns its random source and is not safe for concurrent use. A
// Canvas is passed by exclusive reference and fully overwritten on each
// generation.
//
// [config.Config]: github.com/matzehuels/inkblot/pkg/config.Config
package inkblot
