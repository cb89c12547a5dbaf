// Package framearena implements stack-discipline region allocators for Go.
//
// # Overview
//
// A frame arena stores values in fixed-size blocks chained together and
// releases them in whole frames. Values are pushed into the current frame;
// when the frame's scope ends, everything pushed into it is destroyed in
// reverse push order and its space is handed to the next frame. This is
// useful for:
//
//   - Variable environments of interpreters and template engines
//   - Scoped scratch state in recursive walkers
//   - Avoiding one heap allocation per pushed value
//
// Two shapes are provided. Stack holds values of one type. Dict holds
// key-value pairs and looks them up by key, with later pushes shadowing
// earlier ones.
//
// # Basic Usage
//
//	env := framearena.NewDict[string, int](0) // Use default block size
//	defer env.Release()                       // Frees the whole chain
//
//	env.Push("x", 1)
//	env.Run(func(env *framearena.Dict[string, int]) {
//		env.Push("x", 2) // shadows the outer x
//		x, _ := env.GetInStack("x")
//		fmt.Println(x.Get()) // 2
//	})
//	x, _ := env.GetInStack("x")
//	fmt.Println(x.Get()) // 1
//
// # Frames
//
// Run creates a frame for the duration of a callback. Fork creates one and
// returns it; the caller releases it. Frames nest strictly: while a child
// frame is live its parent cannot push, fork or release, and doing so
// panics with ErrFrameBusy. When the callback returns or panics, Run also
// destroys any frame it forked and left live.
//
// GetInFrame searches only the current frame. GetInStack searches the
// current frame and then every enclosing frame out to the root.
//
// # Handles
//
// Push and the lookups return a Handle. A handle is valid while the frame
// holding its value is live; after that every access panics with
// ErrStaleHandle. Stack handles are exclusive and can be written through
// Ptr or Set. Dict handles are shared; to mutate a dictionary value through
// them, store a Cell and use CellOf.
//
// Values implementing Dropper have Drop called once when their frame is torn
// down, newest first. For Dict the key is dropped before its value.
//
// # Memory Layout
//
// Each block is BlockSize bytes (default 1 KiB). The end of every block is
// reserved for a tail linking it to its neighbours, and every frame begins
// with a header. Entries are laid out by their Go size and alignment. When a
// block fills up the chain continues in the next one, allocating it if this
// is the first time the chain has grown that far.
//
// # Important Notes
//
//   - An arena is not safe for concurrent use
//   - Blocks are never compacted; space is reused only after a frame ends
//   - Only the root frame frees blocks, when it is released
//   - Fatal conditions panic with one of the Err* values wrapped
package framearena
