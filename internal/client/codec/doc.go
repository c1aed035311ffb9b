// Package codec maps API payloads to client entities.
//
// A Codec is bound to one wire date format at construction time; two codecs
// with different formats can be used concurrently without interfering.
// The API uses two formats:
//
//   - GeneralDateFormat (yyyy-MM-dd HH:mm:ss.SSSZ) for sign-in and profile
//     payloads and for query parameters;
//   - MessageDateFormat (yyyy-MM-dd'T'HH:mm:ssZ) for note payloads.
//
// Offsets are numeric (+0000), never "Z".
//
// Three payload shapes are handled: plain objects (DecodeUser, DecodeProfile,
// DecodeNote), keyed maps whose keys are the data (DecodeKeys), and the
// messages envelope whose elements are JSON documents encoded as strings
// (DecodeMessages).
//
// Every failure is a *common.DecodeError holding the offending payload; a
// partially filled entity is never returned. Store-only fields of the models
// (keys, relation ids, bookkeeping timestamps) never appear on the wire, and
// string-list fields are read but not written back by Encode.
package codec
