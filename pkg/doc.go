// Package pkg provides the core libraries for the linkza link-in-bio service.
//
// # Overview
//
// linkza renders a personal profile page as a grid of tiles (links, text,
// social embeds, media) that the owner arranges by dragging and resizing.
// The pkg directory is organized into a few areas:
//
//  1. [tile] - The tile model: typed content payloads, size constraints, codec
//  2. [layout] - The client-side layout store (optimistic mutation, coalesced saves)
//  3. [grid] - Headless drag/resize/reorder engine and responsive span math
//  4. [gateway] - HTTP client for the layout API
//  5. [preview] - Open Graph scraping for link previews
//  6. [session], [cache] - Session records and the cache abstraction (memory or Redis)
//  7. [errors], [httputil], [buildinfo] - Shared plumbing
//
// # Architecture
//
// The typical flow for an owner editing their page:
//
//	gateway.Client (GET /api/layout)
//	         ↓
//	    [layout] store (holds tiles, edit mode, revision)
//	         ↓
//	    [grid] engine (pointer gestures -> reorder/resize decisions)
//	         ↓
//	    [layout] store mutators (optimistic apply + background save)
//	         ↓
//	gateway.Client (POST /api/layout with revision guard)
//
// The server side lives under internal/: the chi HTTP server, MongoDB
// repositories, auth, and the CLI that ties everything together.
package pkg
