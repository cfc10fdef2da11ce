// Package frame converts camera captures into pixmaps and runs a filter
// over a stream of frames.
//
// A capture arrives either as a packed NV21 buffer or as the three planes
// of a YUV_420_888 image. DecodeNV21 turns the buffer into a straight-alpha
// RGBA pixmap; Planes.NV21 repacks planar input first.
//
//	proc, err := frame.NewProcessor(filter.NewYellowKeep(filter.SRGB),
//		frame.WithRotation(90), frame.WithConcurrency(4))
//	if err != nil { ... }
//	err = proc.Run(ctx, in, out)
package frame
