// Package qdata implements the type-tagged QDATA value encoding: a
// depth-first spine of type/attribute headers followed by deferred,
// per-type bulk payloads replayed in a fixed order so that homogeneous
// bytes land in as few compression blocks as possible. Ported in spirit
// from original_source/src/qd_serializer.h and qd_deserializer.h, with
// the opcode table transcribed bit-exact from spec.md's external
// interface table.
package qdata
