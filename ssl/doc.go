// Package ssl implements the structured shader language, a line-oriented
// preprocessor that composes shader sources from namespaced includes.
//
// # Directives
//
// A directive is a line whose first non-whitespace character is '@':
//
//	@shadertype <name>             tag the source (not validated)
//	@glslversion <num> [profile]   emit "#version <num> [profile]"
//	@namespace <name>              name this source for importers
//	@import <namespace>            pull in the include with that namespace
//	@exportfunc ... @end           export the function that opens the block
//	@hide ... @end                 private to the owning compilation unit
//
// Every other line is body text and is kept verbatim.
//
// # Transpiling
//
// A [Transpiler] combines one compilation unit with a scope of includes.
// Exported functions of every imported include are forward declared ahead
// of the unit's own body. The include bodies follow with their @hide blocks
// stripped:
//
//	lib, _ := ssl.Parse(libText)
//	unit, _ := ssl.Parse(fragText)
//	out, err := ssl.Transpile(unit, lib)
//
// # Dialects
//
// Sources are parsed as GLSL by default. The WGSL dialect keeps unknown '@'
// lines as body text, because WGSL attributes such as @vertex or @group(0)
// share the directive prefix. WGSL sources get no forward declarations and
// no #version line.
package ssl
