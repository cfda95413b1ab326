// Package jacquard turns two 3-color images, the front and back faces of a
// fabric, into a jacquard weave pattern.
//
// Every source pixel becomes a group of 3 rows, one per palette color. The row
// of the color shown on the front is marked FrontOnly, the row of the back
// color BackOnly, and when both faces agree that single row is marked Both.
// The remaining rows are Background.
//
// InferPalette and GenerateNoiseLike help a host obtain valid inputs: a palette
// from the front image, and a stand-in back face when none exists.
package jacquard
