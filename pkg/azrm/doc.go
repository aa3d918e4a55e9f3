// Package azrm provides the query core used to inspect Azure Resource
// Manager resources.
//
// # Overview
//
// A query resolves the API version of a resource type through a
// ProfileRegistry, builds the resource path with BuildLink, and fetches
// every page of the result with a Fetcher. Items come back as ordered
// Records which a Pipeline of derivation steps can enrich. Collections are
// bound to a ColumnRegistry, producing a FilterTable that supports where,
// column and entries queries:
//
//	registry := azrm.NewColumnRegistry().
//	  RegisterField("names", "name").
//	  RegisterField("locations", "location")
//
//	records, err := fetcher.Get(ctx, path, apiVersion, nil)
//	vms := azrm.NewPlural(registry, records, err)
//
//	linux, err := vms.Where(azrm.Eq("platforms", "linux-vm"))
//	names, err := linux.Column("names")
//
// Most consumers construct a client through the azclient package and use
// the resource constructors of the resources package instead of wiring the
// pieces by hand.
//
// # Existence
//
// Singular and Plural carry the fetch error next to the result. Exists
// returns an error when the fetch failed, so an outage is never reported
// as a missing resource.
//
// # Errors
//
// Transport and decoding failures are reported as *FetchError. When the
// service returned an ARM error body it is joined into the chain as
// *ResponseError, see IsNotFound, IsUnauthorized and IsForbidden.
//
// # Interceptors and caching
//
// The HTTP layer runs an InterceptorChain around every request and can
// serve GETs from a CacheManager over a memory, NATS key-value, or chained
// backend.
package azrm
