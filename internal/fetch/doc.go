// Package fetch provides the HTTP client for the dataset endpoint.
//
// This package handles:
//   - The one-shot listing request, with a jittered pre-request delay
//   - Streaming image GETs with a per-attempt timeout
//   - A randomized, plausible User-Agent per request
//   - Classifying timeouts apart from other request failures
//
// # Usage
//
//	client := fetch.NewClient(fetch.DefaultOptions())
//
//	body, err := client.Listing(ctx)
//	// body is the raw listing page text
//
//	rc, err := client.Image(ctx, "img/tiff16_a/a0289.tif")
//	defer rc.Close()
//
// Timeouts are retryable; everything else is not:
//
//	if fetch.IsTimeout(err) { ... }
package fetch
