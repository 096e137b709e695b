// Package models defines the data model for the prompt-to-playlist service.
//
// All types are transient request/response values:
//   - [Song] : an (artist, track) suggestion from the generative model
//   - [PromptRequest] : a validated generation request
//   - [ResolvedTrack] : a song paired with its catalog URI, if any
//   - [PlaylistResult] : the outcome of a create-playlist operation
//
// Nothing here is persisted; the system is stateless across restarts.
package models
