// Package github reads repository content out of the GitHub API for bulk
// ingestion into file-search stores.
//
// The package implements the repository source port with three calls: resolve
// the default branch, list the tree recursively, and fetch blobs. Content
// selection (which files are worth indexing) happens in the sync service, not
// here.
//
// # Authentication
//
// A personal access token grants 5,000 API requests per hour and access to
// private repositories. Without a token, requests run anonymously at 60 per
// hour against public repositories only.
//
// # Rate Limiting
//
// Requests pass through a dual-strategy limiter:
//
//  1. Proactive throttling: a token bucket caps the request rate so a large
//     sync does not burn the hourly quota in one burst.
//
//  2. Reactive handling: X-RateLimit-Remaining and X-RateLimit-Reset headers
//     are tracked on every response. When the remaining quota drops below a
//     reserve, calls wait for the reset before continuing.
//
// # Limitations
//
//   - Tree listings are truncated by the API at around 100,000 entries.
//   - Blobs above the API's size ceiling cannot be fetched through the
//     blobs endpoint.
package github
