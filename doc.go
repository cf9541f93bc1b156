/*
go-vibe implements the ViBe background subtraction algorithm for detecting
motion in a fixed-camera image sequence.

ViBe keeps a bank of previously observed pixel values for every pixel
position.  A pixel in a new frame is classified as background when enough of
its stored samples sit within a colour distance radius of the new value.
Background pixels stochastically refresh their own sample bank and diffuse
their value into a neighbouring bank, which lets the model absorb gradual
lighting change while moving objects stay in the foreground.

The root package holds the core model.  Sub packages provide the frame
sequence pipeline (segment), accuracy scoring against ground truth masks
(evaluate), foreground blob extraction (regions), mask rendering (render),
image decoding (frameio), and run result persistence (store).

See example usage in the cmd/vibe command line driver.
*/
package vibe
