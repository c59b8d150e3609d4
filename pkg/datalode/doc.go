// Package datalode provides a Go client for the Datalode device-data
// platform API (api.datalode.io).
//
// Features:
//   - Token authentication: every request carries a Bearer token, and a
//     client without a token fails before any transport is attempted.
//   - Events: create, list, and delete timestamped device annotations.
//   - Data: signed-link streaming download and upload with progress
//     callbacks, plus coverage and topic introspection.
//   - Recordings: listing, deletion, whole-recording export, and
//     attachment access.
//   - Sessions and projects.
//   - Typed errors: authentication, validation, not-found, and transport
//     failures are distinguishable via errors.As or the Is*Error helpers.
//
// Usage:
//
//	client, err := datalode.NewClient(os.Getenv("API_TOKEN"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	events, err := client.ListEvents(ctx, datalode.EventFilter{
//		DeviceName: "forklift-a",
//	})
//
// The client never retries and keeps no state across calls beyond its
// immutable configuration; callers own any retry or caching policy.
package datalode
