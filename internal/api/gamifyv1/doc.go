// Package gamifyv1 is the wire contract of popcity.gamify.v1.GamifyService,
// declared in api/proto/popcity/gamify/v1/gamify.proto.
//
// Messages are plain structs carried by the JSON codec registered in
// internal/platform/grpc/jsoncodec; clients select it per call with the
// "json" content subtype. Money travels as decimal strings, dates as
// YYYY-MM-DD and timestamps as RFC 3339.
package gamifyv1
