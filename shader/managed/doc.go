// Package managed builds shader programs from descriptor assets and reloads
// them while an application runs.
//
// A descriptor lists a program id, optional SSL includes and one source per
// stage. Relative paths are resolved against the descriptor's directory:
//
//	id: tonemap
//	includes: [../lib/color.glsl]
//	shaders:
//	  - stage: Vertex
//	    source: fullscreen.vert
//	  - stage: Fragment
//	    source: tonemap.frag
//
// [ManagedProgram.ReloadFromAsset] reads, parses and transpiles everything
// into a fresh program and swaps it in only when all steps succeeded. The
// GPU work happens later on the render thread in
// [ManagedProgram.DoRecompile]. A [Watcher] reports programs whose files
// changed so the render thread can reload them.
package managed
