// Package qs implements the QS container's opaque payload contract: the
// container format tunnels the host runtime's native, callback-driven
// serializer without QS logic ever examining the bytes it carries
// (spec.md §9 design note, "Opaque byte-stream adapter"). A port keeps
// this black-box boundary by depending only on OutBytes/InBytes.
//
// Because the real host serializer is out of scope (spec.md §1), this
// package supplies GobOpaqueCodec, built on encoding/gob, as the
// reference OpaqueCodec implementation and test fixture — not as a
// redefinition of the format. Callers may supply any OpaqueCodec.
package qs
